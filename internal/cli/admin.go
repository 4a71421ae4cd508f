package cli

import (
	"context"
	"fmt"
)

func (a *App) Users(ctx context.Context) error {
	accounts, err := a.vault.ListAccounts(ctx)
	if err != nil {
		return err
	}
	printAccounts(a.out, accounts)
	return nil
}

func (a *App) Unlock(ctx context.Context, args []string) error {
	username, err := a.argOrAsk(args, "Username to unlock")
	if err != nil {
		return err
	}
	if err := a.vault.Unlock(ctx, username); err != nil {
		return err
	}
	a.println(okText("Unlocked " + username + "."))
	return nil
}

func (a *App) SetActive(ctx context.Context, args []string, active bool) error {
	username, err := a.argOrAsk(args, "Username")
	if err != nil {
		return err
	}
	if err := a.vault.SetActive(ctx, username, active); err != nil {
		return err
	}
	verb := "Deactivated"
	if active {
		verb = "Activated"
	}
	a.println(okText(fmt.Sprintf("%s %s.", verb, username)))
	return nil
}

func (a *App) Dashboard(ctx context.Context) error {
	d, err := a.vault.SecurityDashboard(ctx)
	if err != nil {
		return err
	}
	printDashboard(a.out, d)
	return nil
}
