// Package users keeps the account table in memory and persists it through a
// pluggable Backend.
package users

import (
	"context"

	"github.com/dmitrijs2005/cloudvault/internal/models"
)

type Repository interface {
	Exists(username string) bool
	// Find returns a copy; changes become visible only through Upsert.
	Find(username string) (models.Account, bool)
	Upsert(a models.Account)
	// All returns every account sorted by username.
	All() []models.Account
	Persist(ctx context.Context) error
	Reload(ctx context.Context) error
}

// Backend is the durable medium of the account table. Save must be
// all-or-nothing.
type Backend interface {
	Load(ctx context.Context) ([]models.Account, error)
	Save(ctx context.Context, accounts []models.Account) error
}
