package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastUserMarker_MissingFileMeansNoSession(t *testing.T) {
	m := NewLastUserMarker(filepath.Join(t.TempDir(), "last_user.txt"))

	user, err := m.Read()
	require.NoError(t, err)
	assert.Empty(t, user)
}

func TestLastUserMarker_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_user.txt")
	m := NewLastUserMarker(path)

	require.NoError(t, m.Write("alice"))
	require.NoError(t, m.Write("bob"))

	user, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "bob", user)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", string(raw))
}

func TestLastUserMarker_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_user.txt")
	require.NoError(t, os.WriteFile(path, []byte("  bob\n"), 0644))

	user, err := NewLastUserMarker(path).Read()
	require.NoError(t, err)
	assert.Equal(t, "bob", user)
}

func TestLastUserMarker_BlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_user.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))

	user, err := NewLastUserMarker(path).Read()
	require.NoError(t, err)
	assert.Empty(t, user)
}

func TestSessionManager_RoundTrip(t *testing.T) {
	m := NewSessionManager("0123456789abcdef0123456789abcdef", 3600)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := m.GetUsername(req)
	assert.False(t, ok)

	rec := httptest.NewRecorder()
	require.NoError(t, m.SetUser(rec, req, "alice"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	user, ok := m.GetUsername(next)
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
}

func TestSessionManager_ForeignCookieIgnored(t *testing.T) {
	issuer := NewSessionManager("0123456789abcdef0123456789abcdef", 3600)
	verifier := NewSessionManager("fedcba9876543210fedcba9876543210", 3600)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, issuer.SetUser(rec, req, "mallory"))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	_, ok := verifier.GetUsername(next)
	assert.False(t, ok)
}
