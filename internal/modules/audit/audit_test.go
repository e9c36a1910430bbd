package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/itd-social/core/internal/database"
	"github.com/itd-social/core/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestRecordWritesBothSinks(t *testing.T) {
	dir := t.TempDir()
	store, err := database.Open(filepath.Join(dir, "database.json"))
	require.NoError(t, err)

	logPath := filepath.Join(dir, "activity.log")
	logger := New(logPath, store, zap.NewNop(), testNow)

	logger.Record("user_1", "user_registered", "Зарегистрирован пользователь ivan", "10.0.0.1")
	logger.Record(models.SystemActor, "spam_block", "Rate limit exceeded for IP: 10.0.0.1", "10.0.0.1")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)

	var first models.AuditEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "user_1", first.UserID)
	require.Equal(t, "user_registered", first.Action)
	require.Equal(t, "10.0.0.1", first.IP)
	require.Equal(t, "2025-06-01T12:00:00.000000", first.Timestamp.String())

	var second models.AuditEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "SYSTEM", second.UserID)

	require.NoError(t, store.View(func(doc *models.Document) error {
		require.Len(t, doc.AdminLogs, 2)
		require.Equal(t, "user_registered", doc.AdminLogs[0].Action)
		require.Equal(t, "spam_block", doc.AdminLogs[1].Action)
		return nil
	}))
}

func TestDocumentLogCapped(t *testing.T) {
	dir := t.TempDir()
	store, err := database.Open(filepath.Join(dir, "database.json"))
	require.NoError(t, err)

	logger := New(filepath.Join(dir, "activity.log"), store, zap.NewNop(), testNow)

	for i := 0; i < maxDocEntries+50; i++ {
		logger.Record("user_1", "tick", fmt.Sprintf("entry %d", i), "10.0.0.1")
	}

	require.NoError(t, store.View(func(doc *models.Document) error {
		require.Len(t, doc.AdminLogs, maxDocEntries)
		require.Equal(t, "entry 50", doc.AdminLogs[0].Details, "oldest entries are dropped")
		require.Equal(t, fmt.Sprintf("entry %d", maxDocEntries+49), doc.AdminLogs[maxDocEntries-1].Details)
		return nil
	}))

	content, err := os.ReadFile(filepath.Join(dir, "activity.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, maxDocEntries+50, "the file sink is never truncated")
}

func TestRecordWithoutStore(t *testing.T) {
	dir := t.TempDir()
	logger := New(filepath.Join(dir, "activity.log"), nil, zap.NewNop(), testNow)

	logger.Record("user_1", "admin_login", "Успешный вход", "10.0.0.1")

	content, err := os.ReadFile(filepath.Join(dir, "activity.log"))
	require.NoError(t, err)
	require.Contains(t, string(content), "admin_login")
}
