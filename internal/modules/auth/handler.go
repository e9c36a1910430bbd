package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/middleware"
	"github.com/itd-social/core/internal/pkg/response"
)

// Handler exposes the admin session endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds the auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		response.BadRequest(c, "Укажите имя пользователя и пароль")
		return
	}

	token, user, err := h.service.Login(req.Username, req.Password, c.ClientIP())
	if err != nil {
		var banned *BannedError
		switch {
		case errors.As(err, &banned):
			response.Forbidden(c, banned.Reason)
		case errors.Is(err, ErrNotAdmin):
			response.Forbidden(c, err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, gin.H{"token": token, "user": user})
}

// Logout handles POST /api/admin/logout.
func (h *Handler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user != nil {
		h.service.Logout(user.ID, c.ClientIP())
	}
	response.OK(c, gin.H{"message": "Вы вышли из системы"})
}
