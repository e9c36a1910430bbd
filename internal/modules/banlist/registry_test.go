package banlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itd-social/core/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRegistry(t *testing.T) (*Registry, *fakeClock, string) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "bans.json")
	r, err := Open(path, clock.Now)
	require.NoError(t, err)
	return r, clock, path
}

func TestOpenCreatesEmptyFile(t *testing.T) {
	r, _, path := newTestRegistry(t)

	banned, _ := r.IsBanned("10.0.0.1", "user_1")
	require.False(t, banned)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var bans models.BanFile
	require.NoError(t, json.Unmarshal(content, &bans))
	require.Empty(t, bans.IPBans)
	require.Empty(t, bans.UserBans)
	require.Empty(t, bans.TempBans)
}

func TestPermanentUserBan(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	require.NoError(t, r.AddUserBan("user_1"))
	require.NoError(t, r.AddUserBan("user_1"))

	_, userBans, _ := r.Counts()
	require.Equal(t, 1, userBans, "second ban of the same id must be a no-op")

	banned, reason := r.IsBanned("", "user_1")
	require.True(t, banned)
	require.Equal(t, "Аккаунт заблокирован", reason)

	require.NoError(t, r.RemoveUserBan("user_1"))
	banned, _ = r.IsBanned("", "user_1")
	require.False(t, banned)
}

func TestTempBanExpiryBoundary(t *testing.T) {
	r, clock, _ := newTestRegistry(t)

	require.NoError(t, r.SetTempBan("user_1", "спам", "admin_1", 24))

	clock.Advance(24*time.Hour - time.Second)
	banned, reason := r.IsBanned("", "user_1")
	require.True(t, banned, "one second before expiry the ban still holds")
	require.Contains(t, reason, "Временная блокировка до")

	clock.Advance(2 * time.Second)
	banned, _ = r.IsBanned("", "user_1")
	require.False(t, banned, "one second after expiry the ban is gone")
}

func TestTempBanLazyPurge(t *testing.T) {
	r, clock, path := newTestRegistry(t)

	require.NoError(t, r.SetTempBan("user_1", "спам", "admin_1", 1))
	clock.Advance(2 * time.Hour)

	banned, _ := r.IsBanned("", "user_1")
	require.False(t, banned)

	_, _, tempBans := r.Counts()
	require.Zero(t, tempBans, "expired entry must be purged by the lookup")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var bans models.BanFile
	require.NoError(t, json.Unmarshal(content, &bans))
	require.Empty(t, bans.TempBans, "purge must reach the file")
}

func TestIPBanPermanentAndTimed(t *testing.T) {
	r, clock, _ := newTestRegistry(t)

	require.NoError(t, r.AddIPBan("10.0.0.1", "боты", "admin_1", 0))
	require.NoError(t, r.AddIPBan("10.0.0.2", "", "admin_1", time.Hour))

	banned, reason := r.IsBanned("10.0.0.1", "")
	require.True(t, banned)
	require.Equal(t, "боты", reason)

	banned, reason = r.IsBanned("10.0.0.2", "")
	require.True(t, banned)
	require.Equal(t, "IP заблокирован", reason, "empty reason falls back to the default")

	clock.Advance(2 * time.Hour)
	banned, _ = r.IsBanned("10.0.0.2", "")
	require.False(t, banned, "timed IP ban expires")
	banned, _ = r.IsBanned("10.0.0.1", "")
	require.True(t, banned, "permanent IP ban survives")

	ipBans, _, _ := r.Counts()
	require.Equal(t, 1, ipBans, "expired IP entry must be purged")
}

func TestRegistryReload(t *testing.T) {
	r, clock, path := newTestRegistry(t)

	require.NoError(t, r.AddUserBan("user_1"))
	require.NoError(t, r.AddIPBan("10.0.0.1", "боты", "admin_1", 0))
	require.NoError(t, r.SetTempBan("user_2", "флуд", "admin_1", 48))

	reopened, err := Open(path, clock.Now)
	require.NoError(t, err)

	banned, _ := reopened.IsBanned("", "user_1")
	require.True(t, banned)
	banned, _ = reopened.IsBanned("10.0.0.1", "")
	require.True(t, banned)
	banned, _ = reopened.IsBanned("", "user_2")
	require.True(t, banned)
}

func TestIPBanCheckedBeforeUserBan(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	require.NoError(t, r.AddIPBan("10.0.0.1", "боты", "admin_1", 0))
	require.NoError(t, r.AddUserBan("user_1"))

	_, reason := r.IsBanned("10.0.0.1", "user_1")
	require.Equal(t, "боты", reason, "IP reason wins when both match")
}
