// Package settings stores the user preferences in a YAML file that is read
// on every event, so edits apply without restarting the engine.
package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/metrics"
)

// FilePermissions is the mode of the written settings file.
const FilePermissions = 0o600

const storeName = "settings"

// FileStore reads and writes settings at a fixed path.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store for the YAML file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

// Load decodes the file over the defaults, so absent keys keep their
// default value. A missing file yields the defaults. Keys holding a value of
// the wrong type keep their default while the rest of the file still applies.
// On any other decode error the defaults are returned together with the error.
func (s *FileStore) Load(ctx context.Context) (alert.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := alert.DefaultSettings()

	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}

		return settings, fmt.Errorf("read settings: %w", err)
	}

	err = yaml.Unmarshal(contents, &settings)
	if err != nil {
		var typeErr *yaml.TypeError
		if !errors.As(err, &typeErr) {
			return alert.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
		}

		for _, problem := range typeErr.Errors {
			metrics.RecordSkippedRecord(storeName)
			logger.WarnKV(ctx, "Ignoring settings value", "error", problem)
		}
	}

	return settings, nil
}

// Save writes the settings atomically.
func (s *FileStore) Save(_ context.Context, settings alert.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	if err = renameio.WriteFile(s.path, data, FilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}
