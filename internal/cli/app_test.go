package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/cloudvault/internal/engine"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/files"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registerAlice = "register\nalice\nsecret123\nsecret123\nAlice Smith\n30\nF\n"

func newEngine(t *testing.T, dir string, codes engine.CodeSender) *engine.Engine {
	t.Helper()
	e := engine.New(
		users.NewStore(users.NewFlatFileBackend(filepath.Join(dir, "cloud_users.dat"))),
		files.NewStore(files.NewFlatFileBackend(filepath.Join(dir, "cloud_data"))),
		engine.Options{Codes: codes},
	)
	require.NoError(t, e.Open(context.Background()))
	return e
}

// runScript feeds input to a fresh App and returns everything it printed.
func runScript(t *testing.T, v Vault, in io.Reader) string {
	t.Helper()
	out := capturePrintln(t)

	var w strings.Builder
	NewApp(v, in, &w).Run(context.Background())
	return w.String() + out.String()
}

func TestApp_UserSession(t *testing.T) {
	e := newEngine(t, t.TempDir(), nil)

	script := registerAlice + strings.Join([]string{
		"upload",
		"login alice",
		"secret123",
		"upload",
		"report.pdf",
		"256",
		"2",
		"quarterly numbers",
		"y",
		"",
		"list",
		"search QUARTERLY",
		"public",
		"profile",
		"delete 1",
		"list",
		"users",
		"logout",
		"exit",
	}, "\n")

	got := runScript(t, e, strings.NewReader(script))

	assert.Contains(t, got, "SECURED CLOUD STORAGE")
	assert.Contains(t, got, "Account alice created (Free User, 1.0 GiB).")
	assert.Contains(t, got, "Please log in first.")
	assert.Contains(t, got, "Logged in as alice.")
	assert.Contains(t, got, "Uploaded report.pdf (Document, 256 MiB).")
	assert.Equal(t, 3, strings.Count(got, "report.pdf  "), "list, search and public show the record")
	assert.Contains(t, got, "Welcome, Ms. Alice Smith")
	assert.Contains(t, got, "Deleted report.pdf.")
	assert.Contains(t, got, "No files.")
	assert.Contains(t, got, "Access denied: administrators only.")
	assert.Contains(t, got, "Logged out.")
	assert.Contains(t, got, "Goodbye.")
	assert.False(t, e.Session().LoggedIn())
}

func TestApp_ValidationErrors(t *testing.T) {
	e := newEngine(t, t.TempDir(), nil)

	script := strings.Join([]string{
		"register", "al", "secret123", "secret123", "Al", "30", "M",
		"register", "alice", "secret123", "secret123", "Alice", "old", "F",
		"register", "alice", "secret123", "other1234", "Alice", "30", "F",
	}, "\n") + "\n" + registerAlice + strings.Join([]string{
		"login alice", "wrong",
		"login alice", "secret123",
		"upload", "big.mkv", "2000", "1", "", "n", "n",
		"upload", "x.txt", "1", "9",
		"delete 5",
		"mfa maybe",
		"exit",
	}, "\n")

	got := runScript(t, e, strings.NewReader(script))

	assert.Contains(t, got, "Error: invalid username")
	assert.Contains(t, got, "Error: invalid age")
	assert.Contains(t, got, "Error: passwords do not match")
	assert.Contains(t, got, "Error: invalid credentials")
	assert.Contains(t, got, "Consider upgrading to Premium.")
	assert.Contains(t, got, "Error: storage limit exceeded")
	assert.Contains(t, got, `Error: invalid input: region "9"`)
	assert.Contains(t, got, "Not found: ")
	assert.Contains(t, got, "Error: invalid input: expected on or off")
}

func TestApp_AdminCommands(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	e := newEngine(t, dir, nil)
	_, err := e.Register(ctx, engine.RegisterRequest{
		Username: "root", Password: "secret123", ConfirmPassword: "secret123",
		FullName: "Root", Age: 45, Gender: "M",
	})
	require.NoError(t, err)
	require.NoError(t, e.PromoteAdmin(ctx, "root"))

	script := registerAlice + strings.Join([]string{
		"login root", "secret123",
		"help",
		"deactivate alice",
		"users",
		"activate alice",
		"unlock alice",
		"dashboard",
		"deactivate root",
		"upgrade",
		"exit",
	}, "\n")

	got := runScript(t, e, strings.NewReader(script))

	assert.Contains(t, got, helpAdmin)
	assert.Contains(t, got, "Deactivated alice.")
	assert.Contains(t, got, "inactive")
	assert.Contains(t, got, "Activated alice.")
	assert.Contains(t, got, "Unlocked alice.")
	assert.Contains(t, got, "=== SECURITY DASHBOARD ===")
	assert.Contains(t, got, "Error: invalid input")
	assert.Contains(t, got, "Administrator accounts have no storage plan to upgrade.")
}

// lineFeed is an io.Reader whose content can grow while it is being read.
type lineFeed struct {
	mu   sync.Mutex
	data []byte
}

func (f *lineFeed) push(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = append(f.data, s...)
}

func (f *lineFeed) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestApp_MfaLogin(t *testing.T) {
	ctx := context.Background()
	feed := &lineFeed{}
	e := newEngine(t, t.TempDir(), engine.CodeSenderFunc(func(ctx context.Context, username, code string) error {
		feed.push(code + "\nprofile\nexit\n")
		return nil
	}))

	_, err := e.Register(ctx, engine.RegisterRequest{
		Username: "alice", Password: "secret123", ConfirmPassword: "secret123",
		FullName: "Alice", Age: 30, Gender: "F",
	})
	require.NoError(t, err)
	_, err = e.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	require.NoError(t, e.SetMfa(ctx, true))
	e.Logout(ctx)

	feed.push("login alice\nsecret123\n")
	got := runScript(t, e, feed)

	assert.Contains(t, got, "Logged in as alice.")
	assert.Regexp(t, `MFA:\s+on`, got)
	assert.True(t, e.Session().LoggedIn())
}

func TestConsoleCodeSender(t *testing.T) {
	var out strings.Builder
	require.NoError(t, ConsoleCodeSender(&out).SendCode(context.Background(), "alice", "123456"))
	assert.Equal(t, "[MFA] A 6-digit code was sent to alice's device (simulated).\n[MFA] Code: 123456 (for demo)\n", out.String())
}
