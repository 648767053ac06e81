package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

// Schema names one of the embedded migration sets.
type Schema string

const (
	UsersSchema   Schema = "users"
	HistorySchema Schema = "history"
)

type DB struct {
	*sql.DB
}

// Open opens the SQLite file at path and brings it up to the latest version
// of schema.
func Open(ctx context.Context, path string, schema Schema) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &DB{db}
	if err := d.migrate(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return d, nil
}

func (d *DB) migrate(ctx context.Context, schema Schema) error {
	fsys, err := fs.Sub(migrations, "migrations/"+string(schema))
	if err != nil {
		return fmt.Errorf("unknown schema %q: %w", schema, err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, d.DB, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}
