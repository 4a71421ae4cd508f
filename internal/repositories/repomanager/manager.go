// Package repomanager opens the configured storage backend and vends the
// account and file-list repositories bound to it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/config"
	"github.com/dmitrijs2005/cloudvault/internal/filex"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/files"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Files() files.Repository
	// Audit returns a backend-specific audit sink, or nil when the backend
	// keeps no audit table.
	Audit(logger logging.Logger) audit.Sink
	Close() error
}

// New opens the backend selected by cfg.Backend.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFlatFileRepositoryManager(cfg.UsersPath(), cfg.FilesPath())
	case config.BackendSQLite:
		if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
			return nil, fmt.Errorf("data dir error: %w", err)
		}
		return NewSQLRepositoryManager(ctx, DriverSQLite, cfg.SQLiteDSN())
	case config.BackendPostgres:
		return NewSQLRepositoryManager(ctx, DriverPostgres, cfg.DSN)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
