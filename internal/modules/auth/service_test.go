package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/itd-social/core/internal/database"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/modules/audit"
	"github.com/itd-social/core/internal/modules/banlist"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

func newTestService(t *testing.T) (*Service, *database.Store, *banlist.Registry) {
	t.Helper()
	dir := t.TempDir()
	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	store, err := database.Open(filepath.Join(dir, "database.json"))
	require.NoError(t, err)
	bans, err := banlist.Open(filepath.Join(dir, "bans.json"), now)
	require.NoError(t, err)
	auditLog := audit.New(filepath.Join(dir, "activity.log"), store, zap.NewNop(), now)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, store.Update(func(doc *models.Document) error {
		doc.Users = append(doc.Users,
			&models.User{
				ID:       "admin_1",
				Username: "moderator",
				Password: string(hash),
				IsAdmin:  true,
				Status:   models.UserStatusActive,
			},
			&models.User{
				ID:       "user_1",
				Username: "civilian",
				Password: string(hash),
				Status:   models.UserStatusActive,
			},
		)
		return nil
	}))

	return NewService(store, bans, auditLog, time.Hour, now), store, bans
}

func loginAttempts(t *testing.T, store *database.Store, id string) int {
	t.Helper()
	attempts := -1
	require.NoError(t, store.View(func(doc *models.Document) error {
		if u := doc.FindUserByID(id); u != nil {
			attempts = u.LoginAttempts
		}
		return nil
	}))
	return attempts
}

func TestLoginSuccess(t *testing.T) {
	svc, store, _ := newTestService(t)

	token, user, err := svc.Login("moderator", testPassword, "10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "admin_1", user.ID)
	require.Empty(t, user.Password, "password hash must not leak")

	require.NoError(t, store.View(func(doc *models.Document) error {
		u := doc.FindUserByID("admin_1")
		require.NotNil(t, u.LastLogin)
		return nil
	}))
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Login("nobody", testPassword, "10.0.0.1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginNonAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Login("civilian", testPassword, "10.0.0.1")
	require.ErrorIs(t, err, ErrNotAdmin)
}

func TestLoginWrongPasswordCountsAttempts(t *testing.T) {
	svc, store, bans := newTestService(t)

	for i := 1; i <= 4; i++ {
		_, _, err := svc.Login("moderator", "wrong", "10.0.0.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.Equal(t, i, loginAttempts(t, store, "admin_1"))
	}

	banned, _ := bans.IsBanned("", "admin_1")
	require.False(t, banned, "four failures must not ban the account")
}

func TestLoginFailureAuditReachesDocument(t *testing.T) {
	svc, store, _ := newTestService(t)

	_, _, err := svc.Login("moderator", "wrong", "10.0.0.1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, store.View(func(doc *models.Document) error {
		require.Len(t, doc.AdminLogs, 1)
		require.Equal(t, "admin_login_failed", doc.AdminLogs[0].Action)
		require.Equal(t, "admin_1", doc.AdminLogs[0].UserID)
		return nil
	}))

	// The attempt counter and the audit entry land in the same document.
	require.Equal(t, 1, loginAttempts(t, store, "admin_1"))
}

func TestLoginFifthFailureBansAccount(t *testing.T) {
	svc, store, bans := newTestService(t)

	for i := 0; i < 4; i++ {
		_, _, err := svc.Login("moderator", "wrong", "10.0.0.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err := svc.Login("moderator", "wrong", "10.0.0.1")
	var bannedErr *BannedError
	require.ErrorAs(t, err, &bannedErr)

	banned, _ := bans.IsBanned("", "admin_1")
	require.True(t, banned)

	require.NoError(t, store.View(func(doc *models.Document) error {
		require.Equal(t, models.UserStatusBanned, doc.FindUserByID("admin_1").Status)
		lockout := doc.AdminLogs[len(doc.AdminLogs)-1]
		require.Equal(t, "admin_lockout", lockout.Action)
		require.Equal(t, models.SystemActor, lockout.UserID)
		return nil
	}))
}

func TestLoginBannedAccountRejectsValidCredentials(t *testing.T) {
	svc, _, bans := newTestService(t)

	require.NoError(t, bans.AddUserBan("admin_1"))

	_, _, err := svc.Login("moderator", testPassword, "10.0.0.1")
	var bannedErr *BannedError
	require.ErrorAs(t, err, &bannedErr)
	require.Equal(t, "Аккаунт заблокирован", bannedErr.Reason)
}

func TestLoginSuccessResetsAttempts(t *testing.T) {
	svc, store, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, _, err := svc.Login("moderator", "wrong", "10.0.0.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	require.Equal(t, 3, loginAttempts(t, store, "admin_1"))

	_, _, err := svc.Login("moderator", testPassword, "10.0.0.1")
	require.NoError(t, err)
	require.Zero(t, loginAttempts(t, store, "admin_1"))

	// The counter starts over: three more failures stay short of the lockout.
	for i := 0; i < 3; i++ {
		_, _, err := svc.Login("moderator", "wrong", "10.0.0.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, _, err = svc.Login("moderator", testPassword, "10.0.0.1")
	require.NoError(t, err)
}
