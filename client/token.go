package client

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists the session token between runs so a crashed or closed
// client can recover its session instead of logging in again.
type TokenFile struct {
	path string
}

// NewTokenFile stores the token at path. An empty path picks
// ~/.holdem/session.
func NewTokenFile(path string) *TokenFile {
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".holdem", "session")
		}
	}
	return &TokenFile{path: path}
}

// Load returns the saved token, or empty when none is saved.
func (t *TokenFile) Load() string {
	if t.path == "" {
		return ""
	}
	data, err := os.ReadFile(t.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save replaces the saved token.
func (t *TokenFile) Save(token string) error {
	if t.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(t.path, []byte(token), 0o600)
}

// Clear forgets the saved token.
func (t *TokenFile) Clear() error {
	if t.path == "" {
		return nil
	}
	err := os.Remove(t.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
