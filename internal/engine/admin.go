package engine

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/models"
)

type AccountSummary struct {
	Username      string
	FullName      string
	Role          models.Role
	UsedStorageMB float64
	LimitMB       float64
	Active        bool
	Locked        bool
	FailedLogins  int
	MfaEnabled    bool
}

type Dashboard struct {
	TotalAccounts   int
	LockedAccounts  int
	PremiumAccounts int
	TotalUsedMB     float64
}

// ListAccounts returns every account sorted by username.
func (e *Engine) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.adminLocked(); err != nil {
		return nil, err
	}

	all := e.users.All()
	out := make([]AccountSummary, 0, len(all))
	for _, a := range all {
		out = append(out, AccountSummary{
			Username:      a.Username,
			FullName:      a.FullName,
			Role:          a.Role,
			UsedStorageMB: a.UsedStorageMB,
			LimitMB:       a.StorageLimitMB(),
			Active:        a.Active,
			Locked:        a.Locked,
			FailedLogins:  a.FailedLogins,
			MfaEnabled:    a.MfaEnabled,
		})
	}
	return out, nil
}

// Unlock clears the lockout and the failure counter of username.
func (e *Engine) Unlock(ctx context.Context, username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	admin, err := e.adminLocked()
	if err != nil {
		return err
	}
	acc, ok := e.users.Find(username)
	if !ok {
		return common.ErrAccountNotFound
	}

	prev := acc
	acc.Locked = false
	acc.FailedLogins = 0
	if err := e.saveAccount(ctx, prev, acc); err != nil {
		return err
	}

	e.audit.Record(ctx, audit.KindAdminAction, "Admin="+admin.Username+" unlocked "+username)
	return nil
}

// SetActive activates or deactivates username. Administrators cannot
// deactivate themselves.
func (e *Engine) SetActive(ctx context.Context, username string, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	admin, err := e.adminLocked()
	if err != nil {
		return err
	}
	if username == admin.Username && !active {
		return fmt.Errorf("%w: cannot deactivate own account", common.ErrInvalidInput)
	}
	acc, ok := e.users.Find(username)
	if !ok {
		return common.ErrAccountNotFound
	}
	if acc.Active == active {
		return nil
	}

	prev := acc
	acc.Active = active
	if err := e.saveAccount(ctx, prev, acc); err != nil {
		return err
	}

	verb := "deactivated"
	if active {
		verb = "activated"
	}
	e.audit.Record(ctx, audit.KindAdminAction, "Admin="+admin.Username+" "+verb+" "+username)
	return nil
}

// SecurityDashboard aggregates account counts and storage use.
func (e *Engine) SecurityDashboard(ctx context.Context) (Dashboard, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.adminLocked(); err != nil {
		return Dashboard{}, err
	}

	var d Dashboard
	for _, a := range e.users.All() {
		d.TotalAccounts++
		if a.Locked {
			d.LockedAccounts++
		}
		if a.Role == models.RolePremium {
			d.PremiumAccounts++
		}
		d.TotalUsedMB += a.UsedStorageMB
	}
	return d, nil
}

// PromoteAdmin grants the Admin role to username. It needs no session and is
// meant for bootstrapping the first administrator at startup.
func (e *Engine) PromoteAdmin(ctx context.Context, username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, ok := e.users.Find(username)
	if !ok {
		return common.ErrAccountNotFound
	}
	if acc.Role == models.RoleAdmin {
		return nil
	}

	prev := acc
	acc.Role = models.RoleAdmin
	if err := e.saveAccount(ctx, prev, acc); err != nil {
		return err
	}

	e.audit.Record(ctx, audit.KindAdminAction, "Bootstrap promoted "+username+" to administrator")
	e.logger.Info(ctx, "administrator promoted", "user", username)
	return nil
}
