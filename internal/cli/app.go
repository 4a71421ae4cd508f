// Package cli implements the interactive CloudVault console: a line-based
// REPL that collects input and calls the account engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/cloudvault/internal/engine"
	"github.com/dmitrijs2005/cloudvault/internal/models"
)

// Vault is the engine surface the console drives.
type Vault interface {
	Register(ctx context.Context, req engine.RegisterRequest) (models.Account, error)
	Login(ctx context.Context, username, password string) (engine.Session, error)
	VerifyMfa(ctx context.Context, code string) (engine.Session, error)
	Logout(ctx context.Context)
	Session() engine.Session

	Upload(ctx context.Context, req engine.UploadRequest) (models.FileRecord, error)
	Delete(ctx context.Context, index int) (models.FileRecord, error)
	Files(ctx context.Context) ([]models.FileRecord, error)
	Search(ctx context.Context, term string) ([]models.FileRecord, error)
	PublicFiles(ctx context.Context) ([]models.FileRecord, error)

	Profile(ctx context.Context) (engine.Profile, error)
	Upgrade(ctx context.Context) (models.Account, error)
	SetMfa(ctx context.Context, enabled bool) error

	ListAccounts(ctx context.Context) ([]engine.AccountSummary, error)
	Unlock(ctx context.Context, username string) error
	SetActive(ctx context.Context, username string, active bool) error
	SecurityDashboard(ctx context.Context) (engine.Dashboard, error)
}

type App struct {
	vault   Vault
	scanner *bufio.Scanner
	out     io.Writer
	ttyFd   int // -1 unless in is a terminal
}

func NewApp(v Vault, in io.Reader, out io.Writer) *App {
	a := &App{vault: v, scanner: bufio.NewScanner(in), out: out, ttyFd: -1}
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		a.ttyFd = int(f.Fd())
	}
	return a
}

// Run shows the banner and serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, banner)
	fmt.Fprintln(a.out, "Type 'help' for commands.")
	runREPL(ctx, a, a.status, a.scanner)
}

const banner = `========================================
          SECURED CLOUD STORAGE
========================================`

func (a *App) status() string {
	s := a.vault.Session()
	if !s.LoggedIn() {
		return ""
	}
	return "(" + s.Username + ")"
}

func (a *App) isLoggedIn() bool {
	return a.vault.Session().LoggedIn()
}

func (a *App) isAdmin() bool {
	if !a.isLoggedIn() {
		return false
	}
	p, err := a.vault.Profile(context.Background())
	return err == nil && p.Account.Role == models.RoleAdmin
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.scanner, prompt, a.out)
}
