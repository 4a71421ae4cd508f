package users

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAccounts() []models.Account {
	return []models.Account{
		{
			Username:       "alice",
			Salt:           "00112233445566778899aabbccddeeff",
			PasswordDigest: "deadbeef",
			FullName:       "Alice Liddell",
			Age:            29,
			Gender:         "F",
			Role:           models.RolePremium,
			UsedStorageMB:  1023.999,
			RegisteredAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Active:         true,
			FailedLogins:   2,
			LastLoginAt:    time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
			MfaEnabled:     true,
		},
		{
			Username:     "bob",
			Salt:         "ff",
			FullName:     "Bob",
			Age:          61,
			Gender:       "M",
			Role:         models.RoleBasic,
			RegisteredAt: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
			FailedLogins: 5,
			Locked:       true,
		},
	}
}

func TestFlatFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud_users.dat")
	b := NewFlatFileBackend(path)
	ctx := context.Background()

	want := sampleAccounts()
	require.NoError(t, b.Save(ctx, want))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFlatFileBackend_LineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud_users.dat")
	b := NewFlatFileBackend(path)

	require.NoError(t, b.Save(context.Background(), sampleAccounts()[1:]))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bob|ff||Bob|61|M|0|0|1688169600|0|5|1|0|0\n", string(raw))
}

func TestFlatFileBackend_MissingFileIsEmpty(t *testing.T) {
	b := NewFlatFileBackend(filepath.Join(t.TempDir(), "none.dat"))
	got, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFlatFileBackend_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud_users.dat")
	require.NoError(t, os.WriteFile(path, []byte("alice|salt|digest\n"), 0o600))

	_, err := NewFlatFileBackend(path).Load(context.Background())
	require.ErrorIs(t, err, common.ErrCorrupt)

	require.NoError(t, os.WriteFile(path, []byte("bob|ff||Bob|sixty|M|0|0|0|0|0|0|0|0\n"), 0o600))
	_, err = NewFlatFileBackend(path).Load(context.Background())
	require.ErrorIs(t, err, common.ErrCorrupt)
}

func TestStore_OverFlatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud_users.dat")
	ctx := context.Background()

	s := NewStore(NewFlatFileBackend(path))
	for _, a := range sampleAccounts() {
		s.Upsert(a)
	}
	require.NoError(t, s.Persist(ctx))

	fresh := NewStore(NewFlatFileBackend(path))
	require.NoError(t, fresh.Reload(ctx))
	assert.Equal(t, s.All(), fresh.All())
}

func TestStore_PersistFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cloud_users.dat")
	ctx := context.Background()

	s := NewStore(NewFlatFileBackend(path))
	s.Upsert(sampleAccounts()[0])
	require.NoError(t, s.Persist(ctx))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// a backend pointing into a missing directory cannot write
	broken := NewStore(NewFlatFileBackend(filepath.Join(dir, "missing", "cloud_users.dat")))
	broken.Upsert(sampleAccounts()[1])
	require.ErrorIs(t, broken.Persist(ctx), common.ErrStorage)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
