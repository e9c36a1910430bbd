package admin

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/middleware"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/pkg/response"
)

// ListBans handles GET /api/admin/bans.
func (h *Handler) ListBans(c *gin.Context) {
	snapshot := h.bans.Snapshot()
	response.OK(c, gin.H{
		"ip_bans":   snapshot.IPBans,
		"user_bans": snapshot.UserBans,
		"temp_bans": snapshot.TempBans,
	})
}

type createBanRequest struct {
	Type          string `json:"type"`
	IP            string `json:"ip"`
	UserID        string `json:"userId"`
	Reason        string `json:"reason"`
	DurationHours int    `json:"duration_hours"`
}

// CreateBan handles POST /api/admin/bans. Type selects the ban shape:
// "ip" (optionally time-limited), "user" (permanent) or "temp".
func (h *Handler) CreateBan(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		response.Unauthorized(c, "Требуется авторизация")
		return
	}

	var req createBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Некорректный запрос")
		return
	}

	switch req.Type {
	case "ip":
		if req.IP == "" {
			response.BadRequest(c, "Укажите IP-адрес")
			return
		}
		duration := time.Duration(req.DurationHours) * time.Hour
		if err := h.bans.AddIPBan(req.IP, req.Reason, actor.ID, duration); err != nil {
			response.InternalError(c)
			return
		}
		h.audit.Record(actor.ID, "ip_banned",
			fmt.Sprintf("Заблокирован IP %s: %s", req.IP, req.Reason), c.ClientIP())

	case "user":
		if req.UserID == "" {
			response.BadRequest(c, "Укажите пользователя")
			return
		}
		if err := h.bans.AddUserBan(req.UserID); err != nil {
			response.InternalError(c)
			return
		}
		h.markUserBanned(req.UserID, true)
		h.audit.Record(actor.ID, "user_banned",
			fmt.Sprintf("Заблокирован пользователь %s: %s", req.UserID, req.Reason), c.ClientIP())

	case "temp":
		if req.UserID == "" || req.DurationHours <= 0 {
			response.BadRequest(c, "Укажите пользователя и срок блокировки")
			return
		}
		if err := h.bans.SetTempBan(req.UserID, req.Reason, actor.ID, req.DurationHours); err != nil {
			response.InternalError(c)
			return
		}
		h.audit.Record(actor.ID, "user_temp_banned",
			fmt.Sprintf("Временная блокировка пользователя %s на %d ч: %s", req.UserID, req.DurationHours, req.Reason), c.ClientIP())

	default:
		response.BadRequest(c, "Недопустимый тип блокировки")
		return
	}

	response.OK(c, gin.H{"message": "Блокировка добавлена"})
}

type removeBanRequest struct {
	Type   string `json:"type"`
	IP     string `json:"ip"`
	UserID string `json:"userId"`
}

// RemoveBan handles DELETE /api/admin/bans.
func (h *Handler) RemoveBan(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		response.Unauthorized(c, "Требуется авторизация")
		return
	}

	var req removeBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Некорректный запрос")
		return
	}

	switch req.Type {
	case "ip":
		if req.IP == "" {
			response.BadRequest(c, "Укажите IP-адрес")
			return
		}
		if err := h.bans.RemoveIPBan(req.IP); err != nil {
			response.InternalError(c)
			return
		}
		h.audit.Record(actor.ID, "ip_unbanned",
			fmt.Sprintf("Разблокирован IP %s", req.IP), c.ClientIP())

	case "user":
		if req.UserID == "" {
			response.BadRequest(c, "Укажите пользователя")
			return
		}
		if err := h.bans.RemoveUserBan(req.UserID); err != nil {
			response.InternalError(c)
			return
		}
		h.markUserBanned(req.UserID, false)
		h.audit.Record(actor.ID, "user_unbanned",
			fmt.Sprintf("Разблокирован пользователь %s", req.UserID), c.ClientIP())

	case "temp":
		if req.UserID == "" {
			response.BadRequest(c, "Укажите пользователя")
			return
		}
		if err := h.bans.RemoveTempBan(req.UserID); err != nil {
			response.InternalError(c)
			return
		}
		h.audit.Record(actor.ID, "user_unbanned",
			fmt.Sprintf("Снята временная блокировка пользователя %s", req.UserID), c.ClientIP())

	default:
		response.BadRequest(c, "Недопустимый тип блокировки")
		return
	}

	response.OK(c, gin.H{"message": "Блокировка снята"})
}

// markUserBanned keeps the account's status field in step with the ban
// registry. An unknown id is ignored.
func (h *Handler) markUserBanned(userID string, banned bool) {
	_ = h.store.Update(func(doc *models.Document) error {
		user := doc.FindUserByID(userID)
		if user == nil {
			return nil
		}
		if banned {
			user.Status = models.UserStatusBanned
		} else {
			user.Status = models.UserStatusActive
		}
		return nil
	})
}
