package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Upload(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Public(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Mfa(ctx context.Context, args []string) error
	Upgrade(ctx context.Context) error
	Users(ctx context.Context) error
	Unlock(ctx context.Context, args []string) error
	SetActive(ctx context.Context, args []string, active bool) error
	Dashboard(ctx context.Context) error
}

const (
	helpGuest = "Available commands: register, login, help, exit"
	helpUser  = "Available commands: upload, (l)ist, search, public, delete, profile, mfa, upgrade, logout, help, exit"
	helpAdmin = "Admin commands: users, unlock, activate, deactivate, dashboard"
)

// runREPL reads one command per line and dispatches it to a. The first token
// is the command, the rest are its arguments. Errors returned by handlers are
// printed and the loop continues. The loop ends on end of input or on
// "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cv %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var err error
		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn(helpGuest)
			case a.isAdmin():
				printlnFn(helpUser)
				printlnFn(helpAdmin)
			default:
				printlnFn(helpUser)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx, args)
		case "logout":
			err = a.Logout(ctx)

		case "upload":
			err = a.Upload(ctx)
		case "l", "list":
			err = a.List(ctx)
		case "search":
			err = a.Search(ctx, args)
		case "public":
			err = a.Public(ctx)
		case "delete":
			err = a.Delete(ctx, args)

		case "profile":
			err = a.Profile(ctx)
		case "mfa":
			err = a.Mfa(ctx, args)
		case "upgrade":
			err = a.Upgrade(ctx)

		case "users":
			err = a.Users(ctx)
		case "unlock":
			err = a.Unlock(ctx, args)
		case "activate":
			err = a.SetActive(ctx, args, true)
		case "deactivate":
			err = a.SetActive(ctx, args, false)
		case "dashboard":
			err = a.Dashboard(ctx)

		case "exit", "quit":
			printlnFn("Goodbye.")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describeError(err))
		}
	}
}
