package audit

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
}

func TestKind_Tag(t *testing.T) {
	want := map[Kind]string{
		KindSystem:       "SYSTEM",
		KindRegister:     "REGISTER",
		KindLoginSuccess: "LOGIN_SUCCESS",
		KindLoginFail:    "LOGIN_FAIL",
		KindLockout:      "LOCKOUT",
		KindLogout:       "LOGOUT",
		KindUpload:       "UPLOAD",
		KindDelete:       "DELETE",
		KindUpgrade:      "UPGRADE",
		KindAdminAction:  "ADMIN",
	}
	require.Len(t, Kinds, len(want))
	for _, k := range Kinds {
		assert.Equal(t, want[k], k.Tag(), string(k))
	}
}

func TestFileSink_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud_system.log")
	s := NewFileSink(path, logging.Discard())
	s.now = fixedNow

	ctx := context.Background()
	s.Record(ctx, KindSystem, "Application started")
	s.Record(ctx, KindLoginFail, "User=alice reason=bad_password")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"[2024-06-01 09:30:00][SYSTEM] Application started\n"+
			"[2024-06-01 09:30:00][LOGIN_FAIL] User=alice reason=bad_password\n",
		string(raw))
}

func TestFileSink_FailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "debug", Format: "json"})
	require.NoError(t, err)

	s := NewFileSink(filepath.Join(t.TempDir(), "missing", "cloud_system.log"), logger)
	s.Record(context.Background(), KindUpload, "User=alice File=a.txt")

	assert.Contains(t, buf.String(), "audit log unavailable")
}

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "info", Format: "text"})
	require.NoError(t, err)

	NewLoggerSink(logger).Record(context.Background(), KindUpgrade, "User=bob")
	out := buf.String()
	assert.Contains(t, out, "kind=upgrade")
	assert.Contains(t, out, `detail="User=bob"`)
	assert.Contains(t, out, "module=audit")
}

type recorder struct{ got []string }

func (r *recorder) Record(_ context.Context, kind Kind, detail string) {
	r.got = append(r.got, string(kind)+":"+detail)
}

func TestMultiAndNop(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, Nop{}, b}
	m.Record(context.Background(), KindLogout, "User=alice")

	assert.Equal(t, []string{"logout:User=alice"}, a.got)
	assert.Equal(t, a.got, b.got)
}

func TestSQLSink_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	require.NoError(t, migrations.Apply(ctx, db, migrations.DialectSQLite))

	s := NewSQLSink(db, "sqlite", logging.Discard())
	s.now = fixedNow
	s.Record(ctx, KindLockout, "User=alice")

	var kind, detail string
	var created int64
	require.NoError(t, db.QueryRow(`SELECT kind, detail, created_at FROM audit_log`).Scan(&kind, &detail, &created))
	assert.Equal(t, "lockout", kind)
	assert.Equal(t, "User=alice", detail)
	assert.Equal(t, fixedNow().Unix(), created)
}

func TestSQLSink_ErrorSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO audit_log \(id, kind, detail, created_at\) VALUES \(\$1, \$2, \$3, \$4\)`).
		WithArgs(sqlmock.AnyArg(), "register", "User=carol", sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "warn"})
	require.NoError(t, err)

	NewSQLSink(db, "pgx", logger).Record(context.Background(), KindRegister, "User=carol")
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), "audit insert failed")
}
