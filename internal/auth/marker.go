package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LastUserMarker is the plain-text file naming the last user who logged in
// interactively. While it holds a name, new sessions are opened as that user
// without a credential check. Nothing expires or revokes it; deleting the
// file is the only way out.
type LastUserMarker struct {
	path string
}

func NewLastUserMarker(path string) *LastUserMarker {
	return &LastUserMarker{path: path}
}

// Read returns the remembered username, or "" when there is none.
func (m *LastUserMarker) Read() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read last user marker: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Write replaces the marker contents with username.
func (m *LastUserMarker) Write(username string) error {
	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".last_user-*")
	if err != nil {
		return fmt.Errorf("failed to write last user marker: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(username); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write last user marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write last user marker: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("failed to write last user marker: %w", err)
	}
	return nil
}
