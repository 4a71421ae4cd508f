package users

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/models"
)

type Store struct {
	mu       sync.RWMutex
	backend  Backend
	accounts map[string]models.Account
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, accounts: make(map[string]models.Account)}
}

func (s *Store) Exists(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[username]
	return ok
}

func (s *Store) Find(username string) (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[username]
	return a, ok
}

func (s *Store) Upsert(a models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.Username] = a
}

func (s *Store) All() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *Store) sortedLocked() []models.Account {
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Persist writes the whole table. On failure the durable copy is unchanged.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	snapshot := s.sortedLocked()
	s.mu.RUnlock()

	if err := s.backend.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: save accounts: %w", common.ErrStorage, err)
	}
	return nil
}

// Reload replaces the in-memory table with the durable one. On failure the
// in-memory table is left as it was.
func (s *Store) Reload(ctx context.Context) error {
	loaded, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load accounts: %w", common.ErrStorage, err)
	}

	accounts := make(map[string]models.Account, len(loaded))
	for _, a := range loaded {
		accounts[a.Username] = a
	}

	s.mu.Lock()
	s.accounts = accounts
	s.mu.Unlock()
	return nil
}
