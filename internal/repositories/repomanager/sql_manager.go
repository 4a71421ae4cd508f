package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/files"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/migrations"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var dialects = map[string]string{
	DriverSQLite:   migrations.DialectSQLite,
	DriverPostgres: migrations.DialectPostgres,
}

// openDB and applyMigrations are seams for tests.
var (
	openDB          = sql.Open
	applyMigrations = migrations.Apply
)

// SQLRepositoryManager serves both repositories from one database handle.
type SQLRepositoryManager struct {
	db     *sql.DB
	driver string
	users  users.Repository
	files  files.Repository
}

func (m *SQLRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *SQLRepositoryManager) Files() files.Repository {
	return m.files
}

// Audit returns a sink appending to the audit_log table.
func (m *SQLRepositoryManager) Audit(logger logging.Logger) audit.Sink {
	return audit.NewSQLSink(m.db, m.driver, logger)
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}

// NewSQLRepositoryManager opens dsn with driver and migrates the schema.
func NewSQLRepositoryManager(ctx context.Context, driver, dsn string) (RepositoryManager, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == DriverSQLite {
		// a single connection serialises writers
		db.SetMaxOpenConns(1)
	}

	if err := applyMigrations(ctx, db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &SQLRepositoryManager{
		db:     db,
		driver: driver,
		users:  users.NewStore(users.NewSQLBackend(db, driver)),
		files:  files.NewStore(files.NewSQLBackend(db, driver)),
	}, nil
}
