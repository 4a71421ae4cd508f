package engine

import (
	"context"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/models"
)

// Profile is the session user's account with display helpers. Credential
// fields are blanked.
type Profile struct {
	Account      models.Account
	Salutation   string
	LimitMB      float64
	UsagePercent float64
}

func (e *Engine) Profile(ctx context.Context) (Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.currentLocked()
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Account:      withoutSecrets(acc),
		Salutation:   acc.Salutation(),
		LimitMB:      acc.StorageLimitMB(),
		UsagePercent: acc.UsagePercent(),
	}, nil
}

// Upgrade moves a Basic account to Premium.
func (e *Engine) Upgrade(ctx context.Context) (models.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.currentLocked()
	if err != nil {
		return models.Account{}, err
	}
	switch acc.Role {
	case models.RolePremium:
		return models.Account{}, common.ErrAlreadyMaxTier
	case models.RoleAdmin:
		return models.Account{}, common.ErrNotEligible
	}

	prev := acc
	acc.Role = models.RolePremium
	if err := e.saveAccount(ctx, prev, acc); err != nil {
		return models.Account{}, err
	}

	e.audit.Record(ctx, audit.KindUpgrade, "User="+acc.Username)
	return withoutSecrets(acc), nil
}

// SetMfa turns one-time code verification on or off for the session user.
func (e *Engine) SetMfa(ctx context.Context, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.currentLocked()
	if err != nil {
		return err
	}
	if acc.MfaEnabled == enabled {
		return nil
	}

	prev := acc
	acc.MfaEnabled = enabled
	if err := e.saveAccount(ctx, prev, acc); err != nil {
		return err
	}
	e.logger.Info(ctx, "mfa changed", "user", acc.Username, "enabled", enabled)
	return nil
}
