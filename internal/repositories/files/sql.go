package files

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cloudvault/internal/dbx"
	"github.com/dmitrijs2005/cloudvault/internal/models"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/flatfile"
)

// SQLBackend stores records in file_records, ordered by position within an
// owner.
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

func (b *SQLBackend) LoadUser(ctx context.Context, username string) ([]models.FileRecord, error) {
	query := b.rebind(`SELECT id, name, owner, region, file_type, uploaded_at, size_mb, description, public, encrypted_at_rest
		FROM file_records WHERE owner = ? ORDER BY position`)

	rows, err := b.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var records []models.FileRecord
	for rows.Next() {
		var (
			r            models.FileRecord
			region, kind int
			uploaded     int64
		)
		err := rows.Scan(&r.ID, &r.Name, &r.Owner, &region, &kind, &uploaded, &r.SizeMB, &r.Description, &r.Public, &r.EncryptedAtRest)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		r.Region, r.Type = models.Region(region), models.FileType(kind)
		r.UploadedAt = flatfile.FromEpoch(uploaded)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return records, nil
}

// SaveUser replaces the owner's list in one transaction.
func (b *SQLBackend) SaveUser(ctx context.Context, username string, records []models.FileRecord) error {
	del := b.rebind(`DELETE FROM file_records WHERE owner = ?`)
	ins := b.rebind(`INSERT INTO file_records (id, owner, position, name, region, file_type, uploaded_at, size_mb, description, public, encrypted_at_rest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, del, username); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		for i, r := range records {
			_, err := tx.ExecContext(ctx, ins, r.ID, username, i, r.Name, int(r.Region), int(r.Type),
				flatfile.ToEpoch(r.UploadedAt), r.SizeMB, r.Description, r.Public, r.EncryptedAtRest)
			if err != nil {
				return fmt.Errorf("db error: insert %s: %w", r.ID, err)
			}
		}
		return nil
	})
}
