package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/files"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/users"
	"github.com/stretchr/testify/require"
)

var errDisk = errors.New("disk failure")

const goodPassword = "secret123"

type usersBackend struct {
	accounts []models.Account
	saves    int
	saveErr  error
	loadErr  error
}

func (b *usersBackend) Load(ctx context.Context) ([]models.Account, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return append([]models.Account(nil), b.accounts...), nil
}

func (b *usersBackend) Save(ctx context.Context, accounts []models.Account) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saves++
	b.accounts = append([]models.Account(nil), accounts...)
	return nil
}

func (b *usersBackend) find(username string) (models.Account, bool) {
	for _, a := range b.accounts {
		if a.Username == username {
			return a, true
		}
	}
	return models.Account{}, false
}

type filesBackend struct {
	lists map[string][]models.FileRecord
	saves int
	// failFrom makes every save after the first failFrom-1 successful ones fail; 0 disables.
	failFrom int
	loadErr  error
}

func newFilesBackend() *filesBackend {
	return &filesBackend{lists: map[string][]models.FileRecord{}}
}

func (b *filesBackend) LoadUser(ctx context.Context, username string) ([]models.FileRecord, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return append([]models.FileRecord(nil), b.lists[username]...), nil
}

func (b *filesBackend) SaveUser(ctx context.Context, username string, records []models.FileRecord) error {
	b.saves++
	if b.failFrom > 0 && b.saves >= b.failFrom {
		return errDisk
	}
	b.lists[username] = append([]models.FileRecord(nil), records...)
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Record(_ context.Context, kind audit.Kind, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, string(kind)+" "+detail)
}

func (s *recordingSink) has(event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e == event {
			return true
		}
	}
	return false
}

type harness struct {
	e     *Engine
	ub    *usersBackend
	fb    *filesBackend
	us    *users.Store
	fs    *files.Store
	sink  *recordingSink
	codes map[string]string
	now   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ub:    &usersBackend{},
		fb:    newFilesBackend(),
		sink:  &recordingSink{},
		codes: map[string]string{},
		now:   time.Date(2024, 4, 1, 12, 0, 0, 500, time.UTC),
	}
	h.us = users.NewStore(h.ub)
	h.fs = files.NewStore(h.fb)
	h.e = New(h.us, h.fs, Options{
		Now:   func() time.Time { return h.now },
		Audit: h.sink,
		Codes: CodeSenderFunc(func(ctx context.Context, username, code string) error {
			h.codes[username] = code
			return nil
		}),
	})
	require.NoError(t, h.e.Open(context.Background()))
	return h
}

func registerRequest(username string) RegisterRequest {
	return RegisterRequest{
		Username:        username,
		Password:        goodPassword,
		ConfirmPassword: goodPassword,
		FullName:        "Test " + username,
		Age:             30,
		Gender:          "f",
	}
}

func (h *harness) register(t *testing.T, username string) {
	t.Helper()
	_, err := h.e.Register(context.Background(), registerRequest(username))
	require.NoError(t, err)
}

func (h *harness) login(t *testing.T, username string) {
	t.Helper()
	s, err := h.e.Login(context.Background(), username, goodPassword)
	require.NoError(t, err)
	require.Equal(t, username, s.Username)
}

func (h *harness) registerAndLogin(t *testing.T, username string) {
	t.Helper()
	h.register(t, username)
	h.login(t, username)
}

func (h *harness) admin(t *testing.T, username string) {
	t.Helper()
	h.register(t, username)
	require.NoError(t, h.e.PromoteAdmin(context.Background(), username))
	h.login(t, username)
}

func (h *harness) account(t *testing.T, username string) models.Account {
	t.Helper()
	a, ok := h.us.Find(username)
	require.True(t, ok, username)
	return a
}

func (h *harness) upload(t *testing.T, name string, size float64) models.FileRecord {
	t.Helper()
	r, err := h.e.Upload(context.Background(), UploadRequest{Name: name, SizeMB: size, Region: models.RegionEurope})
	require.NoError(t, err)
	return r
}
