package admin

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/middleware"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/pkg/response"
)

// GetSettings handles GET /api/admin/settings.
func (h *Handler) GetSettings(c *gin.Context) {
	var settings models.SystemSettings
	_ = h.store.View(func(doc *models.Document) error {
		settings = doc.SystemSettings
		return nil
	})
	response.OK(c, gin.H{"settings": settings})
}

type updateSettingsRequest struct {
	Maintenance         *bool `json:"maintenance"`
	RegistrationEnabled *bool `json:"registration_enabled"`
	MaxFileSize         *int  `json:"max_file_size"`
	SpamProtection      *bool `json:"spam_protection"`
	ContentModeration   *bool `json:"content_moderation"`
}

// UpdateSettings handles PUT /api/admin/settings. Only the known toggles
// are writable; anything else in the payload is ignored.
func (h *Handler) UpdateSettings(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Некорректный запрос")
		return
	}
	if req.MaxFileSize != nil && *req.MaxFileSize <= 0 {
		response.BadRequest(c, "Недопустимый размер файла")
		return
	}

	var settings models.SystemSettings
	var changed []string
	err := h.store.Update(func(doc *models.Document) error {
		s := &doc.SystemSettings
		if req.Maintenance != nil && s.Maintenance != *req.Maintenance {
			s.Maintenance = *req.Maintenance
			changed = append(changed, "maintenance")
		}
		if req.RegistrationEnabled != nil && s.RegistrationEnabled != *req.RegistrationEnabled {
			s.RegistrationEnabled = *req.RegistrationEnabled
			changed = append(changed, "registration_enabled")
		}
		if req.MaxFileSize != nil && s.MaxFileSize != *req.MaxFileSize {
			s.MaxFileSize = *req.MaxFileSize
			changed = append(changed, "max_file_size")
		}
		if req.SpamProtection != nil && s.SpamProtection != *req.SpamProtection {
			s.SpamProtection = *req.SpamProtection
			changed = append(changed, "spam_protection")
		}
		if req.ContentModeration != nil && s.ContentModeration != *req.ContentModeration {
			s.ContentModeration = *req.ContentModeration
			changed = append(changed, "content_moderation")
		}
		settings = *s
		return nil
	})
	if err != nil {
		response.InternalError(c)
		return
	}

	if len(changed) > 0 && actor != nil {
		h.audit.Record(actor.ID, "settings_updated",
			"Изменены настройки: "+strings.Join(changed, ", "), c.ClientIP())
	}

	response.OK(c, gin.H{"settings": settings})
}

// ListLogs handles GET /api/admin/logs: the in-document audit trail, newest
// first, with optional action and user filters.
func (h *Handler) ListLogs(c *gin.Context) {
	action := c.Query("action")
	userID := c.Query("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	var logs []models.AuditEntry
	total := 0
	_ = h.store.View(func(doc *models.Document) error {
		for i := len(doc.AdminLogs) - 1; i >= 0; i-- {
			entry := doc.AdminLogs[i]
			if action != "" && entry.Action != action {
				continue
			}
			if userID != "" && entry.UserID != userID {
				continue
			}
			total++
			if len(logs) < limit {
				logs = append(logs, entry)
			}
		}
		return nil
	})

	response.OK(c, gin.H{
		"logs":  logs,
		"total": total,
	})
}
