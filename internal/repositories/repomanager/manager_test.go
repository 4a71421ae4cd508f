package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/config"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Backend = backend
	cfg.DataDir = filepath.Join(t.TempDir(), "vault")
	return cfg
}

func exercise(t *testing.T, m RepositoryManager) {
	t.Helper()
	ctx := context.Background()
	acc := models.Account{
		Username:     "alice",
		Salt:         "0a0b",
		FullName:     "Alice",
		Age:          30,
		Gender:       "F",
		Role:         models.RoleBasic,
		RegisteredAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Active:       true,
	}
	m.Users().Upsert(acc)
	require.NoError(t, m.Users().Persist(ctx))

	rec := models.FileRecord{
		ID:         "file_1",
		Name:       "a.txt",
		Owner:      "alice",
		Region:     models.RegionEurope,
		Type:       models.FileTypeDocument,
		UploadedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		SizeMB:     1.5,
	}
	m.Files().AppendFor("alice", rec)
	require.NoError(t, m.Files().PersistFor(ctx, "alice"))

	require.NoError(t, m.Users().Reload(ctx))
	got, ok := m.Users().Find("alice")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.FullName)

	require.NoError(t, m.Files().ReloadFor(ctx, "alice"))
	assert.Equal(t, []models.FileRecord{rec}, m.Files().ListFor("alice"))
}

func TestNew_FlatFile(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)

	m, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer m.Close()

	assert.IsType(t, &FlatFileRepositoryManager{}, m)
	assert.Nil(t, m.Audit(logging.Discard()))
	assert.DirExists(t, cfg.FilesPath())

	exercise(t, m)
	assert.FileExists(t, cfg.UsersPath())
	assert.FileExists(t, filepath.Join(cfg.FilesPath(), "alice.dat"))
}

func TestNew_SQLite(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)

	m, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer m.Close()

	sm, ok := m.(*SQLRepositoryManager)
	require.True(t, ok)
	assert.FileExists(t, cfg.SQLiteDSN())

	exercise(t, m)

	sink := m.Audit(logging.Discard())
	require.NotNil(t, sink)
	sink.Record(context.Background(), audit.KindLoginSuccess, "User=alice")

	var n int
	require.NoError(t, sm.Conn().QueryRow(`SELECT COUNT(*) FROM audit_log`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig(t, "mongo")
	_, err := New(context.Background(), cfg)
	assert.EqualError(t, err, `unknown backend "mongo"`)
}

func TestNewSQLRepositoryManager_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	origOpen, origApply := openDB, applyMigrations
	t.Cleanup(func() { openDB, applyMigrations = origOpen, origApply })

	var openedWith, dialect string
	openDB = func(driver, dsn string) (*sql.DB, error) {
		openedWith = driver + " " + dsn
		return db, nil
	}
	applyMigrations = func(ctx context.Context, _ *sql.DB, d string) error {
		dialect = d
		return nil
	}

	m, err := NewSQLRepositoryManager(context.Background(), DriverPostgres, "postgres://vault")
	require.NoError(t, err)
	assert.Equal(t, "pgx postgres://vault", openedWith)
	assert.Equal(t, migrations.DialectPostgres, dialect)
	require.NoError(t, m.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLRepositoryManager_MigrationErrorClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	origOpen, origApply := openDB, applyMigrations
	t.Cleanup(func() { openDB, applyMigrations = origOpen, origApply })

	openDB = func(string, string) (*sql.DB, error) { return db, nil }
	applyMigrations = func(context.Context, *sql.DB, string) error { return errors.New("boom") }

	_, err = NewSQLRepositoryManager(context.Background(), DriverPostgres, "postgres://vault")
	assert.EqualError(t, err, "migration error: boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLRepositoryManager_UnsupportedDriver(t *testing.T) {
	_, err := NewSQLRepositoryManager(context.Background(), "mysql", "dsn")
	assert.EqualError(t, err, `unsupported driver "mysql"`)
}
