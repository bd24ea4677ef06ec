package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/metrics"
	"github.com/oshokin/alert-override/internal/repository/jsonfile"
)

// storeName labels skipped-record metrics.
const storeName = "contacts"

// FileStore persists contacts to a JSON file.
type FileStore struct {
	// path is the filesystem location of the JSON list.
	path string
	// mu serializes read-modify-write cycles.
	mu sync.Mutex
}

// NewFileStore creates a store that reads and writes JSON at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns every usable contact. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) ([]alert.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Save replaces the whole list.
func (s *FileStore) Save(_ context.Context, contacts []alert.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return jsonfile.Write(s.path, nonNil(contacts))
}

// Add appends a contact, replacing an entry with the same raw number.
func (s *FileStore) Add(ctx context.Context, contact alert.Contact) error {
	if err := contact.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load(ctx)
	if err != nil {
		return err
	}

	return jsonfile.Write(s.path, upsert(contacts, contact))
}

func (s *FileStore) load(ctx context.Context) ([]alert.Contact, error) {
	entries, err := jsonfile.ReadEntries(s.path)
	if err != nil {
		return nil, err
	}

	contacts := make([]alert.Contact, 0, len(entries))

	for i, raw := range entries {
		contact, decodeErr := decodeEntry(raw)
		if decodeErr != nil {
			metrics.RecordSkippedRecord(storeName)
			logger.WarnKV(ctx, "Skipping contact entry", "index", i, "error", decodeErr)

			continue
		}

		contacts = append(contacts, contact)
	}

	return contacts, nil
}

// decodeEntry accepts an object or a legacy "Name|Number" string.
func decodeEntry(raw json.RawMessage) (alert.Contact, error) {
	var legacy string
	if err := json.Unmarshal(raw, &legacy); err == nil {
		return alert.ParseLegacyContact(legacy)
	}

	var contact alert.Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return alert.Contact{}, fmt.Errorf("decode contact: %w: %w", alert.ErrInvalidRecord, err)
	}

	if err := contact.Validate(); err != nil {
		return alert.Contact{}, err
	}

	return contact, nil
}

func upsert(contacts []alert.Contact, contact alert.Contact) []alert.Contact {
	for i := range contacts {
		if contacts[i].RawNumber == contact.RawNumber {
			contacts[i] = contact

			return contacts
		}
	}

	return append(contacts, contact)
}

func nonNil(contacts []alert.Contact) []alert.Contact {
	if contacts == nil {
		return []alert.Contact{}
	}

	return contacts
}
