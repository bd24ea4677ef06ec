package schedules

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/metrics"
	"github.com/oshokin/alert-override/internal/repository/jsonfile"
)

// storeName labels skipped-record metrics.
const storeName = "schedules"

// FileStore persists schedules to a JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store that reads and writes JSON at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns every valid schedule. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) ([]alert.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Save replaces the whole list.
func (s *FileStore) Save(_ context.Context, schedules []alert.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedules == nil {
		schedules = []alert.Schedule{}
	}

	return jsonfile.Write(s.path, schedules)
}

// Add stores a schedule, replacing one with the same ID. A schedule without
// an ID gets a new one, which is returned.
func (s *FileStore) Add(ctx context.Context, schedule alert.Schedule) (uuid.UUID, error) {
	schedule, err := prepare(schedule)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	schedules, err := s.load(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	if err = jsonfile.Write(s.path, upsert(schedules, schedule)); err != nil {
		return uuid.Nil, err
	}

	return schedule.ID, nil
}

// Remove deletes the schedule with the given ID. Unknown IDs are ignored.
func (s *FileStore) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := schedules[:0]

	for _, schedule := range schedules {
		if schedule.ID != id {
			kept = append(kept, schedule)
		}
	}

	return jsonfile.Write(s.path, kept)
}

func (s *FileStore) load(ctx context.Context) ([]alert.Schedule, error) {
	entries, err := jsonfile.ReadEntries(s.path)
	if err != nil {
		return nil, err
	}

	schedules := make([]alert.Schedule, 0, len(entries))

	for i, raw := range entries {
		var schedule alert.Schedule
		if err = json.Unmarshal(raw, &schedule); err != nil {
			skip(ctx, i, fmt.Errorf("decode schedule: %w: %w", alert.ErrInvalidRecord, err))

			continue
		}

		schedule = withDefaults(schedule)

		if err = schedule.Validate(); err != nil {
			skip(ctx, i, err)

			continue
		}

		schedules = append(schedules, schedule)
	}

	return schedules, nil
}

func skip(ctx context.Context, index int, err error) {
	metrics.RecordSkippedRecord(storeName)
	logger.WarnKV(ctx, "Skipping schedule entry", "index", index, "error", err)
}

// withDefaults fills the recurrence older records omit.
func withDefaults(schedule alert.Schedule) alert.Schedule {
	if schedule.Recurrence == "" {
		schedule.Recurrence = alert.RecurrenceWeekly
	}

	return schedule
}

// prepare assigns an ID when missing and validates the result.
func prepare(schedule alert.Schedule) (alert.Schedule, error) {
	schedule = withDefaults(schedule.Clone())

	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}

	if err := schedule.Validate(); err != nil {
		return alert.Schedule{}, err
	}

	return schedule, nil
}

func upsert(schedules []alert.Schedule, schedule alert.Schedule) []alert.Schedule {
	for i := range schedules {
		if schedules[i].ID == schedule.ID {
			schedules[i] = schedule

			return schedules
		}
	}

	return append(schedules, schedule)
}
