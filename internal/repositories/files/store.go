package files

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/models"
)

type Store struct {
	mu      sync.RWMutex
	backend Backend
	lists   map[string][]models.FileRecord
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, lists: make(map[string][]models.FileRecord)}
}

func (s *Store) ListFor(username string) []models.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lists[username])
}

func (s *Store) AppendFor(username string, r models.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[username] = append(s.lists[username], r)
}

func (s *Store) RemoveFor(username string, index int) (models.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[username]
	if index < 0 || index >= len(list) {
		return models.FileRecord{}, fmt.Errorf("%w: %d of %d", common.ErrIndexOutOfRange, index, len(list))
	}
	removed := list[index]
	s.lists[username] = slices.Delete(slices.Clone(list), index, index+1)
	return removed, nil
}

func (s *Store) ReplaceFor(username string, records []models.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[username] = slices.Clone(records)
}

func (s *Store) PersistFor(ctx context.Context, username string) error {
	list := s.ListFor(username)
	if err := s.backend.SaveUser(ctx, username, list); err != nil {
		return fmt.Errorf("%w: save files of %s: %w", common.ErrStorage, username, err)
	}
	return nil
}

func (s *Store) ReloadFor(ctx context.Context, username string) error {
	list, err := s.backend.LoadUser(ctx, username)
	if err != nil {
		return fmt.Errorf("%w: load files of %s: %w", common.ErrStorage, username, err)
	}
	s.mu.Lock()
	s.lists[username] = list
	s.mu.Unlock()
	return nil
}

func (s *Store) Snapshot(ctx context.Context, username string) ([]models.FileRecord, error) {
	s.mu.RLock()
	list, ok := s.lists[username]
	s.mu.RUnlock()
	if ok {
		return slices.Clone(list), nil
	}

	list, err := s.backend.LoadUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: load files of %s: %w", common.ErrStorage, username, err)
	}
	return list, nil
}
