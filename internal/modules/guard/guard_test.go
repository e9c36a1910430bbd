package guard

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/modules/antispam"
	"github.com/itd-social/core/internal/modules/audit"
	"github.com/itd-social/core/internal/modules/banlist"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGate(t *testing.T) (*Gate, *banlist.Registry, string) {
	t.Helper()
	dir := t.TempDir()
	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	bans, err := banlist.Open(filepath.Join(dir, "bans.json"), now)
	require.NoError(t, err)

	auditPath := filepath.Join(dir, "activity.log")
	auditLog := audit.New(auditPath, nil, zap.NewNop(), now)
	limiter := antispam.NewLimiter(now)

	return New(bans, limiter, auditLog), bans, auditPath
}

func auditActions(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var actions []string
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry models.AuditEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		actions = append(actions, entry.Action)
	}
	return actions
}

func TestAdmitAllows(t *testing.T) {
	gate, _, _ := newTestGate(t)

	d := gate.Admit("10.0.0.1", antispam.ActionRequests)
	require.True(t, d.Allowed)
}

func TestAdmitBannedIP(t *testing.T) {
	gate, bans, auditPath := newTestGate(t)
	require.NoError(t, bans.AddIPBan("10.0.0.1", "боты", "admin_1", 0))

	d := gate.Admit("10.0.0.1", antispam.ActionRequests)
	require.False(t, d.Allowed)
	require.Equal(t, http.StatusForbidden, d.Status)
	require.Equal(t, "Доступ заблокирован: боты", d.Message)

	require.Empty(t, auditActions(t, auditPath), "a ban rejection is not a rate event")
}

func TestAdmitRateLimited(t *testing.T) {
	gate, _, auditPath := newTestGate(t)

	for i := 0; i < 60; i++ {
		require.True(t, gate.Admit("10.0.0.1", antispam.ActionRequests).Allowed)
	}

	d := gate.Admit("10.0.0.1", antispam.ActionRequests)
	require.False(t, d.Allowed)
	require.Equal(t, http.StatusTooManyRequests, d.Status)
	require.Equal(t, "Слишком много запросов. Попробуйте позже.", d.Message)

	actions := auditActions(t, auditPath)
	require.Equal(t, []string{"spam_block"}, actions)
}

func TestBannedIPDoesNotConsumeRateBudget(t *testing.T) {
	gate, bans, _ := newTestGate(t)
	require.NoError(t, bans.AddIPBan("10.0.0.1", "боты", "admin_1", 0))

	for i := 0; i < 100; i++ {
		require.Equal(t, http.StatusForbidden, gate.Admit("10.0.0.1", antispam.ActionRequests).Status)
	}

	require.NoError(t, bans.RemoveIPBan("10.0.0.1"))
	for i := 0; i < 60; i++ {
		require.True(t, gate.Admit("10.0.0.1", antispam.ActionRequests).Allowed,
			"full rate budget must be available after the ban lifts")
	}
}

func TestAdmitUser(t *testing.T) {
	gate, bans, _ := newTestGate(t)

	require.True(t, gate.AdmitUser("user_1").Allowed)

	require.NoError(t, bans.AddUserBan("user_1"))
	d := gate.AdmitUser("user_1")
	require.False(t, d.Allowed)
	require.Equal(t, http.StatusForbidden, d.Status)
	require.Equal(t, "Аккаунт заблокирован", d.Message)
}

func TestCheckContent(t *testing.T) {
	gate, _, auditPath := newTestGate(t)

	clean := gate.CheckContent("user_1", "10.0.0.1", "spam_post_blocked", "Сообщение содержит признаки спама", "Привет всем")
	require.True(t, clean.Allowed)

	spam := gate.CheckContent("user_1", "10.0.0.1", "spam_post_blocked", "Сообщение содержит признаки спама",
		"Заработок казино ставки халява!!!!!")
	require.False(t, spam.Allowed)
	require.Equal(t, http.StatusForbidden, spam.Status)

	require.Equal(t, []string{"spam_post_blocked"}, auditActions(t, auditPath))
}
