package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_UsersSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "users.db"), UsersSchema)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, tableExists(t, db, "users"))
	assert.False(t, tableExists(t, db, "predictions"))
}

func TestOpen_HistorySchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"), HistorySchema)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, tableExists(t, db, "predictions"))
	assert.False(t, tableExists(t, db, "users"))
}

func TestOpen_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.db")

	first, err := Open(ctx, path, UsersSchema)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO users (username, password_hash) VALUES ('alice', x'00')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, path, UsersSchema)
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpen_UnreachablePath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "users.db"), UsersSchema)
	require.Error(t, err)
}

func TestOpen_UnknownSchema(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.db"), Schema("nope"))
	require.Error(t, err)
}
