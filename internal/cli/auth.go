package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/engine"
)

// Register prompts for the account fields and creates a Basic account.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println("Log out before registering a new account.")
		return nil
	}

	var req engine.RegisterRequest
	var err error

	if req.Username, err = a.ask("Username"); err != nil {
		return err
	}
	pw, err := a.password("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := a.password("Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	req.Password, req.ConfirmPassword = string(pw), string(confirm)

	if req.FullName, err = a.ask("Full name"); err != nil {
		return err
	}
	ageText, err := a.ask("Age")
	if err != nil {
		return err
	}
	if req.Age, err = strconv.Atoi(ageText); err != nil {
		return common.ErrInvalidAge
	}
	if req.Gender, err = a.ask("Gender (M/F)"); err != nil {
		return err
	}

	acc, err := a.vault.Register(ctx, req)
	if err != nil {
		return err
	}
	a.println(okText(fmt.Sprintf("Account %s created (%s, %s).", acc.Username, acc.Role, formatSize(acc.StorageLimitMB()))))
	return nil
}

// Login authenticates the user named in args (or prompted for) and asks for
// a one-time code when the account has MFA enabled.
func (a *App) Login(ctx context.Context, args []string) error {
	username, err := a.argOrAsk(args, "Username")
	if err != nil {
		return err
	}
	pw, err := a.password("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	s, err := a.vault.Login(ctx, username, string(pw))
	if errors.Is(err, common.ErrMfaRequired) {
		code, cerr := a.ask("Enter the 6-digit code")
		if cerr != nil {
			return cerr
		}
		s, err = a.vault.VerifyMfa(ctx, code)
	}
	if err != nil {
		return err
	}

	a.println(okText("Logged in as " + s.Username + "."))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	a.vault.Logout(ctx)
	a.println("Logged out.")
	return nil
}

// ConsoleCodeSender delivers one-time codes by printing them to w.
func ConsoleCodeSender(w io.Writer) engine.CodeSender {
	return engine.CodeSenderFunc(func(ctx context.Context, username, code string) error {
		_, err := fmt.Fprintf(w, "[MFA] A 6-digit code was sent to %s's device (simulated).\n[MFA] Code: %s (for demo)\n", username, code)
		return err
	})
}
