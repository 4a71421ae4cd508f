package users

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	saved   []models.Account
	saveErr error
	loadErr error
}

func (m *memBackend) Load(ctx context.Context) ([]models.Account, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]models.Account(nil), m.saved...), nil
}

func (m *memBackend) Save(ctx context.Context, accounts []models.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append([]models.Account(nil), accounts...)
	return nil
}

func TestStore_FindReturnsCopy(t *testing.T) {
	s := NewStore(&memBackend{})
	s.Upsert(models.Account{Username: "alice", Age: 30})

	a, ok := s.Find("alice")
	require.True(t, ok)
	a.Age = 99

	again, _ := s.Find("alice")
	assert.Equal(t, 30, again.Age)
	assert.True(t, s.Exists("alice"))
	assert.False(t, s.Exists("bob"))

	_, ok = s.Find("bob")
	assert.False(t, ok)
}

func TestStore_AllSorted(t *testing.T) {
	s := NewStore(&memBackend{})
	for _, u := range []string{"carol", "alice", "bob"} {
		s.Upsert(models.Account{Username: u})
	}

	var names []string
	for _, a := range s.All() {
		names = append(names, a.Username)
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
}

func TestStore_PersistAndReload(t *testing.T) {
	b := &memBackend{}
	s := NewStore(b)
	s.Upsert(models.Account{Username: "alice", UsedStorageMB: 12.5})
	require.NoError(t, s.Persist(context.Background()))
	require.Len(t, b.saved, 1)

	// unsaved change is dropped by Reload
	s.Upsert(models.Account{Username: "bob"})
	require.NoError(t, s.Reload(context.Background()))
	assert.False(t, s.Exists("bob"))
	a, _ := s.Find("alice")
	assert.Equal(t, 12.5, a.UsedStorageMB)
}

func TestStore_Errors(t *testing.T) {
	boom := errors.New("disk full")
	b := &memBackend{saveErr: boom, loadErr: boom}
	s := NewStore(b)
	s.Upsert(models.Account{Username: "alice"})

	err := s.Persist(context.Background())
	require.ErrorIs(t, err, common.ErrStorage)
	require.ErrorIs(t, err, boom)

	err = s.Reload(context.Background())
	require.ErrorIs(t, err, common.ErrStorage)
	// failed reload keeps memory intact
	assert.True(t, s.Exists("alice"))
}
