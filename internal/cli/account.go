package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudvault/internal/common"
)

func (a *App) Profile(ctx context.Context) error {
	p, err := a.vault.Profile(ctx)
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}

// Mfa switches MFA on or off. Without an argument it reports the current
// setting.
func (a *App) Mfa(ctx context.Context, args []string) error {
	p, err := a.vault.Profile(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		a.println("MFA is " + onOff(p.Account.MfaEnabled) + ". Use 'mfa on' or 'mfa off'.")
		return nil
	}

	var enable bool
	switch args[0] {
	case "on":
		enable = true
	case "off":
	default:
		return fmt.Errorf("%w: expected on or off", common.ErrInvalidInput)
	}
	if err := a.vault.SetMfa(ctx, enable); err != nil {
		return err
	}
	a.println(okText("MFA " + onOff(enable) + "."))
	return nil
}

func (a *App) Upgrade(ctx context.Context) error {
	acc, err := a.vault.Upgrade(ctx)
	if errors.Is(err, common.ErrNotEligible) {
		a.println(warnText("Administrator accounts have no storage plan to upgrade."))
	}
	if err != nil {
		return err
	}
	a.println(okText(fmt.Sprintf("Upgraded to %s. New limit: %s.", acc.Role, formatSize(acc.StorageLimitMB()))))
	return nil
}
