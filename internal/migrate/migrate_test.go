// AngelaMos | 2026
// migrate_test.go

package migrate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMigrator(t *testing.T, migrations []Migration) (*Migrator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &Migrator{
		db:         sqlx.NewDb(db, "sqlmock"),
		migrations: migrations,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, mock
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	migrations, err := Load()
	require.NoError(t, err)
	require.Len(t, migrations, 4)

	names := make([]string, 0, len(migrations))
	for _, m := range migrations {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"enterprises", "users", "voice_agents", "contacts"}, names)
	assert.Contains(t, migrations[3].SQL, "UNIQUE (voice_agent_id, phone)")
}

func TestLoadRejectsBadNames(t *testing.T) {
	_, err := load(fstest.MapFS{
		"sql/init.sql": {Data: []byte("SELECT 1")},
	}, "sql")
	assert.Error(t, err)

	_, err = load(fstest.MapFS{
		"sql/0001_a.sql": {Data: []byte("SELECT 1")},
		"sql/0001_b.sql": {Data: []byte("SELECT 2")},
	}, "sql")
	assert.Error(t, err)
}

func TestUpAppliesPendingAndSkipsDone(t *testing.T) {
	migs := []Migration{
		{Version: "0001", Name: "first", SQL: "CREATE TABLE a (id INT)"},
		{Version: "0002", Name: "second", SQL: "CREATE TABLE b (id INT)"},
	}
	m, mock := newMigrator(t, migs)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs(lockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("0001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs(lockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("0002").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("0002").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0002"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpRollsBackFailedMigration(t *testing.T) {
	migs := []Migration{
		{Version: "0001", Name: "broken", SQL: "CREATE TABLE oops ("},
		{Version: "0002", Name: "never", SQL: "CREATE TABLE b (id INT)"},
	}
	m, mock := newMigrator(t, migs)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE oops (")).
		WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	applied, err := m.Up(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_broken")
	assert.Empty(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusMarksApplied(t *testing.T) {
	migs := []Migration{
		{Version: "0001", Name: "first"},
		{Version: "0002", Name: "second"},
	}
	m, mock := newMigrator(t, migs)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001"))

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.True(t, status[0].Applied)
	assert.False(t, status[1].Applied)
}
