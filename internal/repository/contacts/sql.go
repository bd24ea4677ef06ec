package contacts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/metrics"
)

// SQLStore persists contacts in the contacts table of an open database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps a database opened with sqlitedb.Open.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Load returns every usable contact ordered by number.
func (s *SQLStore) Load(ctx context.Context) ([]alert.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT display_name, number FROM contacts ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []alert.Contact

	for rows.Next() {
		contact, decodeErr := scanContact(rows)
		if decodeErr != nil {
			metrics.RecordSkippedRecord(storeName)
			logger.WarnKV(ctx, "Skipping contact row", "error", decodeErr)

			continue
		}

		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}

// scanContact reads one row. NULL or mistyped columns make the row invalid
// rather than failing the whole list.
func scanContact(rows *sql.Rows) (alert.Contact, error) {
	var name, number sql.NullString

	if err := rows.Scan(&name, &number); err != nil {
		return alert.Contact{}, fmt.Errorf("scan contact: %w: %w", alert.ErrInvalidRecord, err)
	}

	if !number.Valid {
		return alert.Contact{}, fmt.Errorf("contact %q without number: %w", name.String, alert.ErrInvalidRecord)
	}

	contact := alert.Contact{DisplayName: name.String, RawNumber: number.String}

	if err := contact.Validate(); err != nil {
		return alert.Contact{}, err
	}

	return contact, nil
}

// Save replaces the whole list in one transaction.
func (s *SQLStore) Save(ctx context.Context, contacts []alert.Contact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	//nolint:errcheck // Rollback after Commit is a no-op.
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}

	for _, contact := range contacts {
		if err = insert(ctx, tx, contact); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Add inserts a contact, replacing an entry with the same raw number.
func (s *SQLStore) Add(ctx context.Context, contact alert.Contact) error {
	if err := contact.Validate(); err != nil {
		return err
	}

	return insert(ctx, s.db, contact)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, contact alert.Contact) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO contacts (number, display_name) VALUES (?, ?)
		ON CONFLICT(number) DO UPDATE SET display_name = excluded.display_name`,
		contact.RawNumber, contact.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("insert contact %q: %w", contact.RawNumber, err)
	}

	return nil
}
