// Package files keeps each account's ordered list of file records and
// persists the lists one account at a time.
package files

import (
	"context"

	"github.com/dmitrijs2005/cloudvault/internal/models"
)

type Repository interface {
	// ListFor returns a copy of the cached list; empty if never loaded.
	ListFor(username string) []models.FileRecord
	AppendFor(username string, r models.FileRecord)
	// RemoveFor deletes the record at the 0-based index and shifts later ones.
	RemoveFor(username string, index int) (models.FileRecord, error)
	ReplaceFor(username string, records []models.FileRecord)
	PersistFor(ctx context.Context, username string) error
	ReloadFor(ctx context.Context, username string) error
	// Snapshot returns the cached list, or the durable one without caching it.
	Snapshot(ctx context.Context, username string) ([]models.FileRecord, error)
}

// Backend is the durable medium of the per-account lists. SaveUser must be
// all-or-nothing.
type Backend interface {
	LoadUser(ctx context.Context, username string) ([]models.FileRecord, error)
	SaveUser(ctx context.Context, username string, records []models.FileRecord) error
}
