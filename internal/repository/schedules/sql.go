package schedules

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/oshokin/alert-override/internal/domain/alert"
)

// SQLStore persists schedules in the schedules table of an open database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps a database opened with sqlitedb.Open.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Load returns every valid schedule in insertion order.
func (s *SQLStore) Load(ctx context.Context) ([]alert.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, days_of_week, start_hour, start_minute, end_hour, end_minute, recurrence
		FROM schedules ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var (
		schedules []alert.Schedule
		index     int
	)

	for rows.Next() {
		schedule, decodeErr := scanSchedule(rows)
		if decodeErr != nil {
			skip(ctx, index, decodeErr)
		} else {
			schedules = append(schedules, schedule)
		}

		index++
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	return schedules, nil
}

// scanSchedule reads one row. SQLite keeps text stored in INTEGER columns,
// so every column is scanned loosely and mistyped values make the row invalid
// rather than failing the whole list.
func scanSchedule(rows *sql.Rows) (alert.Schedule, error) {
	var (
		id, name, days, recurrence sql.NullString
		clock                      [4]any
	)

	err := rows.Scan(&id, &name, &days, &clock[0], &clock[1], &clock[2], &clock[3], &recurrence)
	if err != nil {
		return alert.Schedule{}, fmt.Errorf("scan schedule: %w: %w", alert.ErrInvalidRecord, err)
	}

	var schedule alert.Schedule

	schedule.Name = name.String
	schedule.Recurrence = alert.Recurrence(recurrence.String)

	fields := [4]*int{&schedule.StartHour, &schedule.StartMinute, &schedule.EndHour, &schedule.EndMinute}
	for i, column := range clockColumns {
		if *fields[i], err = intColumn(column, clock[i]); err != nil {
			return alert.Schedule{}, err
		}
	}

	if err = decodeRow(&schedule, id.String, days.String); err != nil {
		return alert.Schedule{}, err
	}

	return schedule, nil
}

// clockColumns name the integer columns in scan order.
//
//nolint:gochecknoglobals // Read-only column names.
var clockColumns = [4]string{"start_hour", "start_minute", "end_hour", "end_minute"}

func intColumn(column string, value any) (int, error) {
	n, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("schedule %s %v: %w: not an integer", column, value, alert.ErrInvalidRecord)
	}

	return int(n), nil
}

// decodeRow fills the columns that need parsing and validates the result.
func decodeRow(schedule *alert.Schedule, id, days string) error {
	var err error

	if schedule.ID, err = uuid.Parse(id); err != nil {
		return fmt.Errorf("schedule id %q: %w: %w", id, alert.ErrInvalidRecord, err)
	}

	if err = json.Unmarshal([]byte(days), &schedule.DaysOfWeek); err != nil {
		return fmt.Errorf("schedule days %q: %w: %w", days, alert.ErrInvalidRecord, err)
	}

	*schedule = withDefaults(*schedule)

	return schedule.Validate()
}

// Save replaces the whole list in one transaction, keeping the given order.
func (s *SQLStore) Save(ctx context.Context, schedules []alert.Schedule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	//nolint:errcheck // Rollback after Commit is a no-op.
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules`); err != nil {
		return fmt.Errorf("clear schedules: %w", err)
	}

	for i, schedule := range schedules {
		if err = insert(ctx, tx, schedule, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Add stores a schedule after the existing ones, replacing one with the same
// ID in place. A schedule without an ID gets a new one, which is returned.
func (s *SQLStore) Add(ctx context.Context, schedule alert.Schedule) (uuid.UUID, error) {
	schedule, err := prepare(schedule)
	if err != nil {
		return uuid.Nil, err
	}

	var position int

	err = s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM schedules`).Scan(&position)
	if err != nil {
		return uuid.Nil, fmt.Errorf("next schedule position: %w", err)
	}

	if err = insert(ctx, s.db, schedule, position); err != nil {
		return uuid.Nil, err
	}

	return schedule.ID, nil
}

// Remove deletes the schedule with the given ID. Unknown IDs are ignored.
func (s *SQLStore) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete schedule %s: %w", id, err)
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, schedule alert.Schedule, position int) error {
	days, err := json.Marshal(schedule.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("encode schedule days: %w", err)
	}

	if schedule.DaysOfWeek == nil {
		days = []byte("[]")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO schedules
			(id, name, days_of_week, start_hour, start_minute, end_hour, end_minute, recurrence, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			days_of_week = excluded.days_of_week,
			start_hour = excluded.start_hour,
			start_minute = excluded.start_minute,
			end_hour = excluded.end_hour,
			end_minute = excluded.end_minute,
			recurrence = excluded.recurrence`,
		schedule.ID.String(), schedule.Name, string(days),
		schedule.StartHour, schedule.StartMinute, schedule.EndHour, schedule.EndMinute,
		string(schedule.Recurrence), position,
	)
	if err != nil {
		return fmt.Errorf("insert schedule %s: %w", schedule.ID, err)
	}

	return nil
}
