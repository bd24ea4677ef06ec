// Package jsonfile reads and atomically writes the JSON list files used by
// the contact and schedule stores.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// FilePermissions is the mode of written list files.
const FilePermissions = 0o600

// ReadEntries reads a JSON array and returns its elements undecoded so the
// caller can skip bad ones. A missing or empty file is an empty list.
func ReadEntries(path string) ([]json.RawMessage, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(bytes.TrimSpace(contents)) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	if err = json.Unmarshal(contents, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return entries, nil
}

// Write replaces path with the indented JSON encoding of v. The file is
// fsynced and renamed into place, so readers see the old or the new list.
func Write(path string, v any) error {
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(FilePermissions))
	if err != nil {
		return fmt.Errorf("create pending file for %s: %w", path, err)
	}

	//nolint:errcheck // Cleanup after a successful replace is a no-op.
	defer pending.Cleanup()

	if _, err = pending.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err = pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
