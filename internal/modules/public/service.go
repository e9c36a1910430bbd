package public

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/itd-social/core/internal/database"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/modules/antispam"
	"github.com/itd-social/core/internal/modules/audit"
	"github.com/itd-social/core/internal/pkg/ids"
	"golang.org/x/crypto/bcrypt"
)

// Registration failure modes.
var (
	ErrMaintenance        = errors.New("Сервис временно недоступен. Ведутся технические работы.")
	ErrRegistrationClosed = errors.New("Регистрация временно отключена")
	ErrSuspiciousAccount  = errors.New("Регистрация отклонена")
	ErrUsernameTaken      = errors.New("Имя пользователя уже занято")
	ErrEmailTaken         = errors.New("Email уже используется")
	ErrPasswordTooShort   = errors.New("Пароль должен содержать не менее 8 символов")
)

// Content failure modes.
var ErrUserNotFound = errors.New("Пользователь не найден")

// disposableMailDomains are throwaway providers whose addresses weigh
// heavily against a registration.
var disposableMailDomains = []string{
	"temp-mail", "10minutemail", "guerrillamail", "mailinator",
}

// registrationRejectScore: a suspicion score at or above this rejects the
// registration outright.
const registrationRejectScore = 3

// Service implements the public write surface: registration, posts,
// comments and reports. Ban and rate admission happens upstream in the
// guard; the service assumes an admitted caller and owns only validation
// and document mutation.
type Service struct {
	store *database.Store
	audit *audit.Logger
	now   func() time.Time
}

// NewService builds the public service.
func NewService(store *database.Store, auditLog *audit.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, audit: auditLog, now: now}
}

// SpamProtectionEnabled reflects the shared system toggle.
func (s *Service) SpamProtectionEnabled() bool {
	enabled := true
	_ = s.store.View(func(doc *models.Document) error {
		enabled = doc.SystemSettings.SpamProtection
		return nil
	})
	return enabled
}

// RegisterInput carries the registration payload. All fields are required.
type RegisterInput struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	Emoji       string `json:"emoji"`
}

// registrationScore estimates how likely a registration is automated:
// throwaway mail domains weigh three points, a spammy username two, a
// spammy display name one.
func registrationScore(in RegisterInput) int {
	score := 0
	email := strings.ToLower(in.Email)
	for _, domain := range disposableMailDomains {
		if strings.Contains(email, domain) {
			score += 3
			break
		}
	}
	if antispam.IsSpam(in.Username) {
		score += 2
	}
	if antispam.IsSpam(in.DisplayName) {
		score++
	}
	return score
}

// Register creates a new account. Rejections never touch the document.
// Availability comes first: maintenance and closed registration win over
// every per-account verdict.
func (s *Service) Register(in RegisterInput, ip string) (*models.User, error) {
	var maintenance, closed bool
	_ = s.store.View(func(doc *models.Document) error {
		maintenance = doc.SystemSettings.Maintenance
		closed = !doc.SystemSettings.RegistrationEnabled
		return nil
	})
	if maintenance {
		return nil, ErrMaintenance
	}
	if closed {
		return nil, ErrRegistrationClosed
	}

	if score := registrationScore(in); score >= registrationRejectScore {
		s.audit.Record(models.SystemActor, "spam_registration",
			fmt.Sprintf("Подозрительная регистрация отклонена: %s (балл %d)", in.Username, score), ip)
		return nil, ErrSuspiciousAccount
	}
	if len(in.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created models.User
	err = s.store.Update(func(doc *models.Document) error {
		if doc.SystemSettings.Maintenance {
			return ErrMaintenance
		}
		if !doc.SystemSettings.RegistrationEnabled {
			return ErrRegistrationClosed
		}
		for _, u := range doc.Users {
			if u.Username == in.Username {
				return ErrUsernameTaken
			}
			if u.Email == in.Email {
				return ErrEmailTaken
			}
		}

		user := &models.User{
			ID:          ids.New("user"),
			Username:    in.Username,
			DisplayName: in.DisplayName,
			Email:       in.Email,
			Password:    string(hash),
			Emoji:       in.Emoji,
			CreatedAt:   models.At(s.now()),
			Followers:   []string{},
			Following:   []string{},
			Settings:    models.DefaultUserSettings(),
			Status:      models.UserStatusActive,
		}
		doc.Users = append(doc.Users, user)
		created = *user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(created.ID, "user_registered",
		fmt.Sprintf("Зарегистрирован пользователь %s", created.Username), ip)
	return created.Sanitized(), nil
}

// CreatePost publishes a post for the given user. New posts go to the head
// of the feed.
func (s *Service) CreatePost(userID, content string, media []string, ip string) (*models.Post, error) {
	if media == nil {
		media = []string{}
	}

	var created models.Post
	err := s.store.Update(func(doc *models.Document) error {
		author := doc.FindUserByID(userID)
		if author == nil {
			return ErrUserNotFound
		}

		post := &models.Post{
			ID:         ids.New("post"),
			UserID:     userID,
			Content:    content,
			Media:      media,
			Visibility: "public",
			CreatedAt:  models.At(s.now()),
			UpdatedAt:  models.At(s.now()),
			Likes:      []string{},
			Tags:       []string{},
		}
		doc.Posts = append([]*models.Post{post}, doc.Posts...)
		author.Stats.Posts++
		created = *post
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(userID, "post_created", fmt.Sprintf("Создан пост %s", created.ID), ip)
	return &created, nil
}

// CreateComment attaches a comment to a post or a video (exactly one) and
// bumps the parent's comment counter. A dangling parent id is tolerated: the
// comment is stored, the counter of the missing parent simply is not bumped.
func (s *Service) CreateComment(userID, text, postID, videoID, ip string) (*models.Comment, error) {
	var created models.Comment
	err := s.store.Update(func(doc *models.Document) error {
		if doc.FindUserByID(userID) == nil {
			return ErrUserNotFound
		}

		comment := &models.Comment{
			ID:        ids.New("comment"),
			UserID:    userID,
			Text:      text,
			CreatedAt: models.At(s.now()),
			Likes:     []string{},
			PostID:    postID,
			VideoID:   videoID,
		}

		if postID != "" {
			if post := doc.FindPostByID(postID); post != nil {
				post.Comments++
			}
		} else if video := doc.FindVideoByID(videoID); video != nil {
			video.Comments++
		}

		doc.Comments = append(doc.Comments, comment)
		created = *comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(userID, "comment_created", fmt.Sprintf("Создан комментарий %s", created.ID), ip)
	return &created, nil
}

// ReportInput carries a complaint payload.
type ReportInput struct {
	ReporterID string `json:"reporterId"`
	TargetID   string `json:"targetId"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
}

// CreateReport files a pending report and notifies every administrator.
func (s *Service) CreateReport(in ReportInput, ip string) (*models.Report, error) {
	var created models.Report
	err := s.store.Update(func(doc *models.Document) error {
		if doc.FindUserByID(in.ReporterID) == nil {
			return ErrUserNotFound
		}

		report := &models.Report{
			ID:         ids.New("report"),
			ReporterID: in.ReporterID,
			TargetID:   in.TargetID,
			Type:       in.Type,
			Reason:     in.Reason,
			Details:    in.Details,
			Status:     models.ReportStatusPending,
			CreatedAt:  models.At(s.now()),
		}
		doc.Reports = append(doc.Reports, report)

		for _, u := range doc.Users {
			if !u.IsAdmin && !u.IsSuperAdmin {
				continue
			}
			doc.Notifications = append(doc.Notifications, &models.Notification{
				ID:        ids.New("notif"),
				UserID:    u.ID,
				Type:      "report",
				Title:     "Новая жалоба",
				Message:   fmt.Sprintf("Поступила жалоба на %s", report.Type),
				CreatedAt: models.At(s.now()),
				Data:      map[string]any{"reportId": report.ID},
			})
			u.Notifications++
		}

		created = *report
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(in.ReporterID, "report_created",
		fmt.Sprintf("Подана жалоба %s на %s %s", created.ID, created.Type, created.TargetID), ip)
	return &created, nil
}
