// Package engine implements the CloudVault account engine: registration, the
// login state machine with lockout and one-time codes, quota-checked file
// operations and the administrator views.
//
// All operations are serialized by one mutex; each runs to completion,
// including persistence, before the next starts.
package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/files"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/users"
)

// usage drift below this is rounding noise
const usageEpsilon = 1e-6

// Session identifies the logged-in account. The zero value is logged out.
type Session struct {
	Username string
}

func (s Session) LoggedIn() bool {
	return s.Username != ""
}

// CodeSender delivers one-time login codes.
type CodeSender interface {
	SendCode(ctx context.Context, username, code string) error
}

// CodeSenderFunc adapts a function to CodeSender.
type CodeSenderFunc func(ctx context.Context, username, code string) error

func (f CodeSenderFunc) SendCode(ctx context.Context, username, code string) error {
	return f(ctx, username, code)
}

type Options struct {
	MaxFailedLogins int // defaults to common.MaxFailedLogins
	Now             func() time.Time
	Codes           CodeSender
	Audit           audit.Sink
	Logger          logging.Logger
}

type challenge struct {
	username string
	code     string
}

type Engine struct {
	mu sync.Mutex

	users users.Repository
	files files.Repository

	maxFailed int
	now       func() time.Time
	codes     CodeSender
	audit     audit.Sink
	logger    logging.Logger

	session Session
	pending *challenge
}

func New(u users.Repository, f files.Repository, opts Options) *Engine {
	e := &Engine{
		users:     u,
		files:     f,
		maxFailed: opts.MaxFailedLogins,
		now:       opts.Now,
		codes:     opts.Codes,
		audit:     opts.Audit,
		logger:    opts.Logger,
	}
	if e.maxFailed < 1 {
		e.maxFailed = common.MaxFailedLogins
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.audit == nil {
		e.audit = audit.Nop{}
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	e.logger = e.logger.With("module", "engine")
	if e.codes == nil {
		e.codes = CodeSenderFunc(func(ctx context.Context, username, code string) error {
			e.logger.Info(ctx, "one-time code issued", "user", username, "code", code)
			return nil
		})
	}
	return e
}

// Open loads the account table and records the start of a run.
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.users.Reload(ctx); err != nil {
		return err
	}
	e.audit.Record(ctx, audit.KindSystem, "Application started")
	return nil
}

// Close ends the session and records the end of a run.
func (e *Engine) Close(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	detail := "Application closed"
	if e.session.LoggedIn() {
		detail += " by " + e.session.Username
	}
	e.session = Session{}
	e.pending = nil
	e.audit.Record(ctx, audit.KindSystem, detail)
}

// Session returns the current session.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Second)
}

func (e *Engine) currentLocked() (models.Account, error) {
	if !e.session.LoggedIn() {
		return models.Account{}, common.ErrNotLoggedIn
	}
	acc, ok := e.users.Find(e.session.Username)
	if !ok {
		e.session = Session{}
		return models.Account{}, common.ErrNotLoggedIn
	}
	return acc, nil
}

func (e *Engine) adminLocked() (models.Account, error) {
	acc, err := e.currentLocked()
	if err != nil {
		return models.Account{}, err
	}
	if acc.Role != models.RoleAdmin {
		return models.Account{}, common.ErrPermissionDenied
	}
	return acc, nil
}

// saveAccount upserts next and persists the table, restoring prev in memory
// when the write fails.
func (e *Engine) saveAccount(ctx context.Context, prev, next models.Account) error {
	e.users.Upsert(next)
	if err := e.users.Persist(ctx); err != nil {
		e.users.Upsert(prev)
		e.logger.Error(ctx, "persist account failed", "user", next.Username, "error", err)
		return err
	}
	return nil
}

// commitFileChange persists a change already applied in memory to both the
// owner's file list and the account, file list first.
func (e *Engine) commitFileChange(ctx context.Context, prevAcc models.Account, prevList []models.FileRecord) error {
	user := prevAcc.Username

	if err := e.files.PersistFor(ctx, user); err != nil {
		e.logger.Error(ctx, "persist file list failed", "user", user, "error", err)
		e.reconcile(ctx, prevAcc, prevList)
		return err
	}

	if err := e.users.Persist(ctx); err != nil {
		e.logger.Error(ctx, "persist account failed after file list", "user", user, "error", err)
		e.files.ReplaceFor(user, prevList)
		if cerr := e.files.PersistFor(ctx, user); cerr != nil {
			e.logger.Error(ctx, "compensating write failed", "user", user, "error", cerr)
		}
		e.reconcile(ctx, prevAcc, prevList)
		return err
	}
	return nil
}

// reconcile reloads the durable file list and re-derives used storage from it.
func (e *Engine) reconcile(ctx context.Context, prevAcc models.Account, prevList []models.FileRecord) {
	user := prevAcc.Username
	if err := e.files.ReloadFor(ctx, user); err != nil {
		e.logger.Error(ctx, "reload file list failed", "user", user, "error", err)
		e.files.ReplaceFor(user, prevList)
	}

	acc := prevAcc
	acc.UsedStorageMB = models.TotalSizeMB(e.files.ListFor(user))
	e.users.Upsert(acc)
}

func usageDiffers(a, b float64) bool {
	return math.Abs(a-b) > usageEpsilon
}

// withoutSecrets hides credential material from callers.
func withoutSecrets(a models.Account) models.Account {
	a.Salt = ""
	a.PasswordDigest = ""
	return a
}
