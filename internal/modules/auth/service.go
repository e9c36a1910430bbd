package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/itd-social/core/internal/database"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/modules/audit"
	"github.com/itd-social/core/internal/modules/banlist"
	"github.com/itd-social/core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// maxLoginAttempts is the lockout threshold: the attempt that reaches it
// permanently bans the account.
const maxLoginAttempts = 5

// Login failure modes. The handler maps them onto HTTP statuses; the
// messages are what the console shows.
var (
	ErrInvalidCredentials = errors.New("Неверное имя пользователя или пароль")
	ErrNotAdmin           = errors.New("Доступ запрещен")
)

// BannedError is returned when the account's ban state blocks the login,
// even with valid credentials.
type BannedError struct {
	Reason string
}

func (e *BannedError) Error() string { return e.Reason }

// Service implements administrator session management: credential
// verification with a lockout counter, ban-state enforcement and token
// issuance. Sessions are stateless JWTs; logout only records the event.
type Service struct {
	store    *database.Store
	bans     *banlist.Registry
	audit    *audit.Logger
	tokenTTL time.Duration
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(store *database.Store, bans *banlist.Registry, auditLog *audit.Logger, tokenTTL time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{store: store, bans: bans, audit: auditLog, tokenTTL: tokenTTL, now: now}
}

// auditEvent is a deferred audit record. The audit logger writes into the
// document itself, so nothing may call it while the document write lock is
// held; events raised inside an Update closure are emitted after it returns.
type auditEvent struct {
	actor   string
	action  string
	details string
}

// Login verifies credentials for an administrator account and returns a
// signed session token. Failed password attempts increment a persistent
// counter; the fifth consecutive failure bans the account permanently.
// A banned account is rejected even when the password is correct.
func (s *Service) Login(username, password, ip string) (string, *models.User, error) {
	var user models.User
	var failure error
	var events []auditEvent

	err := s.store.Update(func(doc *models.Document) error {
		found := doc.FindUserByUsername(username)
		if found == nil {
			failure = ErrInvalidCredentials
			return nil
		}
		if !found.IsAdmin && !found.IsSuperAdmin {
			failure = ErrNotAdmin
			return nil
		}

		if banned, reason := s.bans.IsBanned("", found.ID); banned {
			failure = &BannedError{Reason: reason}
			return nil
		}

		if bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)) != nil {
			found.LoginAttempts++
			events = append(events, auditEvent{found.ID, "admin_login_failed",
				fmt.Sprintf("Неудачная попытка входа #%d", found.LoginAttempts)})

			if found.LoginAttempts >= maxLoginAttempts {
				found.Status = models.UserStatusBanned
				if err := s.bans.AddUserBan(found.ID); err != nil {
					return err
				}
				events = append(events, auditEvent{models.SystemActor, "admin_lockout",
					fmt.Sprintf("Аккаунт %s заблокирован после %d неудачных попыток входа", found.Username, found.LoginAttempts)})
				failure = &BannedError{Reason: "Аккаунт заблокирован"}
				return nil
			}

			failure = ErrInvalidCredentials
			return nil
		}

		found.LoginAttempts = 0
		last := models.At(s.now())
		found.LastLogin = &last
		user = *found
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	for _, ev := range events {
		s.audit.Record(ev.actor, ev.action, ev.details, ip)
	}
	if failure != nil {
		return "", nil, failure
	}

	token, err := jwt.Sign(user.ID, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	s.audit.Record(user.ID, "admin_login", "Успешный вход в админ-панель", ip)
	return token, user.Sanitized(), nil
}

// Logout records the session end. Tokens are stateless so there is nothing
// to revoke.
func (s *Service) Logout(userID, ip string) {
	s.audit.Record(userID, "admin_logout", "Выход из админ-панели", ip)
}
