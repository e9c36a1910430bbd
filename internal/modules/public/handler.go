package public

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/modules/guard"
	"github.com/itd-social/core/internal/pkg/response"
)

// Handler exposes the public write endpoints. Each mutating handler runs
// the same sequence: payload validation, user ban state, spam check, then
// the document write.
type Handler struct {
	service *Service
	gate    *guard.Gate
}

// NewHandler builds the public handler.
func NewHandler(service *Service, gate *guard.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// Register handles POST /api/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Некорректный запрос")
		return
	}
	if req.Username == "" || req.DisplayName == "" || req.Password == "" || req.Email == "" || req.Emoji == "" {
		response.BadRequest(c, "Заполните все обязательные поля")
		return
	}

	user, err := h.service.Register(req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrMaintenance):
			response.Maintenance(c, err.Error())
		case errors.Is(err, ErrRegistrationClosed), errors.Is(err, ErrSuspiciousAccount):
			response.Forbidden(c, err.Error())
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken),
			errors.Is(err, ErrPasswordTooShort):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, gin.H{"user": user})
}

type createPostRequest struct {
	UserID  string   `json:"userId"`
	Content string   `json:"content"`
	Media   []string `json:"media"`
}

// CreatePost handles POST /api/posts.
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Content == "" {
		response.BadRequest(c, "Укажите автора и текст поста")
		return
	}

	if d := h.gate.AdmitUser(req.UserID); !d.Allowed {
		guard.Reject(c, d)
		return
	}
	if h.service.SpamProtectionEnabled() {
		if d := h.gate.CheckContent(req.UserID, c.ClientIP(), "spam_post_blocked", "Сообщение содержит признаки спама", req.Content); !d.Allowed {
			guard.Reject(c, d)
			return
		}
	}

	post, err := h.service.CreatePost(req.UserID, req.Content, req.Media, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"post": post})
}

type createCommentRequest struct {
	UserID  string `json:"userId"`
	Text    string `json:"text"`
	PostID  string `json:"postId"`
	VideoID string `json:"videoId"`
}

// CreateComment handles POST /api/comments.
func (h *Handler) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Text == "" {
		response.BadRequest(c, "Укажите автора и текст комментария")
		return
	}
	if (req.PostID == "") == (req.VideoID == "") {
		response.BadRequest(c, "Укажите пост или видео")
		return
	}

	if d := h.gate.AdmitUser(req.UserID); !d.Allowed {
		guard.Reject(c, d)
		return
	}
	if h.service.SpamProtectionEnabled() {
		if d := h.gate.CheckContent(req.UserID, c.ClientIP(), "spam_comment_blocked", "Сообщение содержит признаки спама", req.Text); !d.Allowed {
			guard.Reject(c, d)
			return
		}
	}

	comment, err := h.service.CreateComment(req.UserID, req.Text, req.PostID, req.VideoID, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"comment": comment})
}

// CreateReport handles POST /api/reports.
func (h *Handler) CreateReport(c *gin.Context) {
	var req ReportInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Некорректный запрос")
		return
	}
	if req.ReporterID == "" || req.TargetID == "" || req.Type == "" || req.Reason == "" {
		response.BadRequest(c, "Заполните все обязательные поля")
		return
	}

	if d := h.gate.AdmitUser(req.ReporterID); !d.Allowed {
		guard.Reject(c, d)
		return
	}

	report, err := h.service.CreateReport(req, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"report": report})
}
