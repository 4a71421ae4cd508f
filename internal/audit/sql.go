package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/dbx"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/google/uuid"
)

// SQLSink appends events to the audit_log table.
type SQLSink struct {
	db     *sql.DB
	query  string
	now    func() time.Time
	logger logging.Logger
}

func NewSQLSink(db *sql.DB, driver string, logger logging.Logger) *SQLSink {
	q := `INSERT INTO audit_log (id, kind, detail, created_at) VALUES (?, ?, ?, ?)`
	return &SQLSink{
		db:     db,
		query:  dbx.Rebind(driver, q),
		now:    time.Now,
		logger: logger.With("module", "audit"),
	}
}

func (s *SQLSink) Record(ctx context.Context, kind Kind, detail string) {
	_, err := s.db.ExecContext(ctx, s.query, uuid.New().String(), string(kind), detail, s.now().Unix())
	if err != nil {
		s.logger.Warn(ctx, "audit insert failed", "kind", string(kind), "error", err)
	}
}
