// Package catalog loads and writes the key→text tables the tool maintains:
// one canonical source catalog plus one catalog per locale.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZxlHyy/i18n-tr/pkg/key"
)

// Table is one catalog: a flat mapping from content key to text.
type Table map[key.Key]string

// SortedKeys returns the table's keys in lexicographic order.
func (t Table) SortedKeys() []key.Key {
	keys := make([]key.Key, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ConflictError reports a key whose recorded text would silently change,
// which would re-point every existing translation at new meaning.
type ConflictError struct {
	Key      key.Key
	Existing string
	Incoming string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("key %s already maps to %q but the extracted text is %q; declare a migration {from: %q, to: %q} instead of editing the entry",
		e.Key, e.Existing, e.Incoming, e.Existing, e.Incoming)
}

// Load reads the catalog at path. A missing file is the bootstrap case and
// yields an empty table.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// Still validate the extension so a typo fails before first write.
		if _, ferr := formatFor(path); ferr != nil {
			return nil, ferr
		}
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	table, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return table, nil
}

// Write serializes a table to path: entries sorted by key, in the format
// selected by the path's extension, replaced atomically.
func Write(path string, t Table) error {
	data, err := Encode(path, t)
	if err != nil {
		return fmt.Errorf("encode catalog %s: %w", path, err)
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes data through a temp file in the destination
// directory and renames it into place, so readers never observe a partial
// artifact.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".i18n-tr-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
