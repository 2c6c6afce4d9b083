package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store persists the user's locale choice between runs.
type Store interface {
	// Load returns the saved locale ID, or "" when nothing was saved yet.
	Load() (string, error)
	// Save records the locale ID.
	Save(locale string) error
}

// FileStore keeps the locale choice in a plain text file.
type FileStore struct {
	Path string
}

// Load reads the saved locale. A missing file means no preference.
func (s FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read locale preference: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the locale, creating parent directories as needed.
func (s FileStore) Save(locale string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("create preference directory: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(locale+"\n"), 0644); err != nil {
		return fmt.Errorf("write locale preference: %w", err)
	}
	return nil
}
