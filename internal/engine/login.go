package engine

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/cryptox"
	"github.com/dmitrijs2005/cloudvault/internal/models"
)

// Login authenticates username. Unknown users and wrong passwords both yield
// ErrBadCredentials. With MFA enabled a code is sent and ErrMfaRequired is
// returned; VerifyMfa completes the login.
func (e *Engine) Login(ctx context.Context, username, password string) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending = nil

	acc, ok := e.users.Find(username)
	if !ok {
		e.audit.Record(ctx, audit.KindLoginFail, "User="+username+" reason=not_found")
		return Session{}, common.ErrBadCredentials
	}
	if err := e.checkCanLogin(ctx, acc); err != nil {
		return Session{}, err
	}

	if !cryptox.VerifyDigest(acc.Salt, password, acc.PasswordDigest) {
		return Session{}, e.recordFailure(ctx, acc)
	}

	if acc.MfaEnabled {
		code, err := cryptox.GenerateOneTimeCode()
		if err != nil {
			return Session{}, fmt.Errorf("generate one-time code: %w", err)
		}
		if err := e.codes.SendCode(ctx, username, code); err != nil {
			return Session{}, fmt.Errorf("%w: deliver code: %w", common.ErrMfaFailed, err)
		}
		e.pending = &challenge{username: username, code: code}
		return Session{}, common.ErrMfaRequired
	}

	return e.completeLogin(ctx, acc)
}

// VerifyMfa checks the code of the pending challenge. The challenge is
// consumed whatever the outcome; a wrong code does not count as a failed
// login.
func (e *Engine) VerifyMfa(ctx context.Context, code string) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.pending
	e.pending = nil
	if p == nil {
		return Session{}, fmt.Errorf("%w: no pending challenge", common.ErrMfaFailed)
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(p.code)) != 1 {
		e.audit.Record(ctx, audit.KindLoginFail, "User="+p.username+" reason=mfa_failed")
		return Session{}, common.ErrMfaFailed
	}

	acc, ok := e.users.Find(p.username)
	if !ok {
		return Session{}, common.ErrBadCredentials
	}
	if err := e.checkCanLogin(ctx, acc); err != nil {
		return Session{}, err
	}
	return e.completeLogin(ctx, acc)
}

// MfaPending reports whether a one-time code is awaited.
func (e *Engine) MfaPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending != nil
}

// Logout ends the session; without one it does nothing.
func (e *Engine) Logout(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending = nil
	if !e.session.LoggedIn() {
		return
	}
	e.audit.Record(ctx, audit.KindLogout, "User="+e.session.Username)
	e.session = Session{}
}

func (e *Engine) checkCanLogin(ctx context.Context, acc models.Account) error {
	if !acc.Active {
		e.audit.Record(ctx, audit.KindLoginFail, "User="+acc.Username+" reason=inactive")
		return common.ErrAccountInactive
	}
	if acc.Locked {
		e.audit.Record(ctx, audit.KindLoginFail, "User="+acc.Username+" reason=locked")
		return common.ErrAccountLocked
	}
	return nil
}

// recordFailure counts a password mismatch and locks the account at the
// threshold. The new state is durable before the error is returned.
func (e *Engine) recordFailure(ctx context.Context, acc models.Account) error {
	prev := acc
	acc.FailedLogins++
	locked := acc.FailedLogins >= e.maxFailed
	if locked {
		acc.Locked = true
	}

	e.audit.Record(ctx, audit.KindLoginFail, "User="+acc.Username+" reason=bad_password")
	if err := e.saveAccount(ctx, prev, acc); err != nil {
		return err
	}

	if locked {
		e.audit.Record(ctx, audit.KindLockout, "User="+acc.Username)
		e.logger.Warn(ctx, "account locked", "user", acc.Username, "failed_logins", acc.FailedLogins)
		return common.ErrAccountLocked
	}
	return fmt.Errorf("%w: attempt %d of %d", common.ErrBadCredentials, acc.FailedLogins, e.maxFailed)
}

// completeLogin loads the file list, re-derives used storage from it, resets
// the failure counter and establishes the session.
func (e *Engine) completeLogin(ctx context.Context, acc models.Account) (Session, error) {
	prev := acc

	if err := e.files.ReloadFor(ctx, acc.Username); err != nil {
		e.logger.Error(ctx, "load file list failed", "user", acc.Username, "error", err)
		return Session{}, err
	}

	total := models.TotalSizeMB(e.files.ListFor(acc.Username))
	if usageDiffers(total, acc.UsedStorageMB) {
		e.logger.Warn(ctx, "used storage re-derived from file list",
			"user", acc.Username, "recorded_mb", acc.UsedStorageMB, "actual_mb", total)
	}
	acc.UsedStorageMB = total
	acc.FailedLogins = 0
	acc.LastLoginAt = e.timestamp()

	if err := e.saveAccount(ctx, prev, acc); err != nil {
		return Session{}, err
	}

	e.session = Session{Username: acc.Username}
	e.audit.Record(ctx, audit.KindLoginSuccess, "User="+acc.Username)
	e.logger.Info(ctx, "login", "user", acc.Username)
	return e.session, nil
}
