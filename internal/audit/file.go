package audit

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/logging"
)

const timeLayout = time.DateTime

// FileSink appends "[YYYY-MM-DD HH:MM:SS][TAG] detail" lines to a log file.
type FileSink struct {
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger logging.Logger
}

func NewFileSink(path string, logger logging.Logger) *FileSink {
	return &FileSink{path: path, now: time.Now, logger: logger.With("module", "audit")}
}

func (s *FileSink) Record(ctx context.Context, kind Kind, detail string) {
	line := fmt.Sprintf("[%s][%s] %s\n", s.now().Format(timeLayout), kind.Tag(), detail)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		s.logger.Warn(ctx, "audit log unavailable", "path", s.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		s.logger.Warn(ctx, "audit write failed", "path", s.path, "error", err)
	}
}

// LoggerSink forwards events to the structured logger.
type LoggerSink struct {
	logger logging.Logger
}

func NewLoggerSink(logger logging.Logger) *LoggerSink {
	return &LoggerSink{logger: logger.With("module", "audit")}
}

func (s *LoggerSink) Record(ctx context.Context, kind Kind, detail string) {
	s.logger.Info(ctx, "audit event", "kind", string(kind), "detail", detail)
}
