package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/itd-social/core/internal/database"
	"github.com/itd-social/core/internal/models"
	"go.uber.org/zap"
)

// maxDocEntries caps the in-document copy of the log; older entries are
// silently dropped.
const maxDocEntries = 1000

// Logger records security- and moderation-relevant actions to two sinks: a
// line-oriented append-only file (one JSON object per line) and the bounded
// admin_logs list inside the document.
type Logger struct {
	mu    sync.Mutex
	path  string
	store *database.Store
	log   *zap.Logger
	now   func() time.Time
}

// New builds an audit logger writing to the given file path.
func New(path string, store *database.Store, log *zap.Logger, now func() time.Time) *Logger {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{path: path, store: store, log: log, now: now}
}

// Record appends one audit entry. Sink failures are logged and swallowed:
// auditing must never fail the request that triggered it.
func (l *Logger) Record(userID, action, details, ip string) {
	entry := models.AuditEntry{
		Timestamp: models.At(l.now()),
		UserID:    userID,
		Action:    action,
		Details:   details,
		IP:        ip,
	}

	if err := l.appendLine(entry); err != nil {
		l.log.Warn("audit file append failed", zap.Error(err))
	}

	if l.store != nil {
		err := l.store.Update(func(doc *models.Document) error {
			doc.AdminLogs = append(doc.AdminLogs, entry)
			if len(doc.AdminLogs) > maxDocEntries {
				doc.AdminLogs = doc.AdminLogs[len(doc.AdminLogs)-maxDocEntries:]
			}
			return nil
		})
		if err != nil {
			l.log.Warn("audit document append failed", zap.Error(err))
		}
	}

	l.log.Info("audit",
		zap.String("actor", userID),
		zap.String("action", action),
		zap.String("ip", ip),
	)
}

func (l *Logger) appendLine(entry models.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}
