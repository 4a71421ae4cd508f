package repomanager

import (
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/filex"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/files"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/users"
)

// FlatFileRepositoryManager keeps accounts in one delimited file and each
// user's file list in its own file under a directory.
type FlatFileRepositoryManager struct {
	users users.Repository
	files files.Repository
}

func (m *FlatFileRepositoryManager) Users() users.Repository { return m.users }
func (m *FlatFileRepositoryManager) Files() files.Repository { return m.files }

func (m *FlatFileRepositoryManager) Audit(logging.Logger) audit.Sink { return nil }

func (m *FlatFileRepositoryManager) Close() error { return nil }

// NewFlatFileRepositoryManager creates the directories the backend writes to.
// The files themselves appear on first save.
func NewFlatFileRepositoryManager(usersPath, filesDir string) (RepositoryManager, error) {
	if _, err := filex.EnsureDir(filepath.Dir(usersPath)); err != nil {
		return nil, fmt.Errorf("data dir error: %w", err)
	}
	if _, err := filex.EnsureDir(filesDir); err != nil {
		return nil, fmt.Errorf("files dir error: %w", err)
	}

	return &FlatFileRepositoryManager{
		users: users.NewStore(users.NewFlatFileBackend(usersPath)),
		files: files.NewStore(files.NewFlatFileBackend(filesDir)),
	}, nil
}
