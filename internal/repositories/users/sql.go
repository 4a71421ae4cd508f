package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cloudvault/internal/dbx"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/flatfile"
)

// SQLBackend stores accounts in the accounts table. Queries are written with
// '?' placeholders and rebound for the driver.
type SQLBackend struct {
	db     *sql.DB
	driver string
}

func NewSQLBackend(db *sql.DB, driver string) *SQLBackend {
	return &SQLBackend{db: db, driver: driver}
}

func (b *SQLBackend) rebind(q string) string {
	return dbx.Rebind(b.driver, q)
}

func (b *SQLBackend) Load(ctx context.Context) ([]models.Account, error) {
	query := `SELECT username, salt, password_digest, full_name, age, gender, role,
		used_storage_mb, registered_at, active, failed_logins, locked, last_login_at, mfa_enabled
		FROM accounts ORDER BY username`

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var (
			a                     models.Account
			role                  int
			registered, lastLogin int64
		)
		err := rows.Scan(&a.Username, &a.Salt, &a.PasswordDigest, &a.FullName, &a.Age, &a.Gender, &role,
			&a.UsedStorageMB, &registered, &a.Active, &a.FailedLogins, &a.Locked, &lastLogin, &a.MfaEnabled)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.Role = models.Role(role)
		a.RegisteredAt = flatfile.FromEpoch(registered)
		a.LastLoginAt = flatfile.FromEpoch(lastLogin)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return accounts, nil
}

// Save upserts every account in one transaction. Accounts are never deleted.
func (b *SQLBackend) Save(ctx context.Context, accounts []models.Account) error {
	query := b.rebind(`INSERT INTO accounts (username, salt, password_digest, full_name, age, gender, role,
		used_storage_mb, registered_at, active, failed_logins, locked, last_login_at, mfa_enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			salt = excluded.salt,
			password_digest = excluded.password_digest,
			full_name = excluded.full_name,
			age = excluded.age,
			gender = excluded.gender,
			role = excluded.role,
			used_storage_mb = excluded.used_storage_mb,
			registered_at = excluded.registered_at,
			active = excluded.active,
			failed_logins = excluded.failed_logins,
			locked = excluded.locked,
			last_login_at = excluded.last_login_at,
			mfa_enabled = excluded.mfa_enabled`)

	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, a := range accounts {
			_, err := tx.ExecContext(ctx, query,
				a.Username, a.Salt, a.PasswordDigest, a.FullName, a.Age, a.Gender, int(a.Role),
				a.UsedStorageMB, flatfile.ToEpoch(a.RegisteredAt), a.Active, a.FailedLogins, a.Locked,
				flatfile.ToEpoch(a.LastLoginAt), a.MfaEnabled)
			if err != nil {
				return fmt.Errorf("db error: upsert %s: %w", a.Username, err)
			}
		}
		return nil
	})
}
