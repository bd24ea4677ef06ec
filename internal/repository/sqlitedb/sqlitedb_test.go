package sqlitedb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestOpen_MigratesOnce creates the schema and records its version.
func TestOpen_MigratesOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "alert.db")

	db, err := Open(ctx, path, DefaultConfig())
	require.NoError(t, err)

	var version int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	require.Equal(t, SchemaVersion, version)

	_, err = db.ExecContext(ctx, "INSERT INTO contacts (number, display_name) VALUES ('555', 'Alice')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, path, DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&count))
	require.Equal(t, 1, count)
}

// TestMigrations_CoverSchemaVersion keeps the migration list and the version in step.
func TestMigrations_CoverSchemaVersion(t *testing.T) {
	t.Parallel()

	require.Len(t, migrations, SchemaVersion)
}

// TestOpen_UpgradesNullableContacts drops contact rows without a number from
// a version 1 database and rejects them afterwards.
func TestOpen_UpgradesNullableContacts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "alert.db")

	legacy, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)

	_, err = legacy.ExecContext(ctx, migrations[0])
	require.NoError(t, err)

	_, err = legacy.ExecContext(ctx, `
		INSERT INTO contacts (number, display_name) VALUES (NULL, 'Ghost'), ('+15551234567', 'Alice');
		PRAGMA user_version = 1;`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	db, err := Open(ctx, path, DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	var name string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT display_name FROM contacts").Scan(&name))
	require.Equal(t, "Alice", name)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&count))
	require.Equal(t, 1, count)

	_, err = db.ExecContext(ctx, "INSERT INTO contacts (number, display_name) VALUES (NULL, 'Ghost')")
	require.Error(t, err)
}
