package admin

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/middleware"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/pkg/response"
	"golang.org/x/crypto/bcrypt"
)

// ListUsers handles GET /api/admin/users with search, role and status
// filters plus pagination.
func (h *Handler) ListUsers(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))
	role := c.Query("role")
	status := c.Query("status")
	page, limit := pagination(c)

	var users []*models.User
	total := 0
	_ = h.store.View(func(doc *models.Document) error {
		matched := make([]*models.User, 0, len(doc.Users))
		for _, u := range doc.Users {
			if search != "" &&
				!strings.Contains(strings.ToLower(u.Username), search) &&
				!strings.Contains(strings.ToLower(u.DisplayName), search) &&
				!strings.Contains(strings.ToLower(u.Email), search) {
				continue
			}
			switch role {
			case "admin":
				if !u.IsAdmin && !u.IsSuperAdmin {
					continue
				}
			case "user":
				if u.IsAdmin || u.IsSuperAdmin {
					continue
				}
			}
			if status != "" && u.Status != status {
				continue
			}
			matched = append(matched, u)
		}

		total = len(matched)
		lo, hi := pageBounds(total, page, limit)
		for _, u := range matched[lo:hi] {
			users = append(users, u.Sanitized())
		}
		return nil
	})

	response.OK(c, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUser handles GET /api/admin/users/:id with the account's activity
// summary attached.
func (h *Handler) GetUser(c *gin.Context) {
	id := c.Param("id")

	var user *models.User
	var activity gin.H
	_ = h.store.View(func(doc *models.Document) error {
		found := doc.FindUserByID(id)
		if found == nil {
			return nil
		}
		user = found.Sanitized()

		posts, comments, reportsAgainst := 0, 0, 0
		for _, p := range doc.Posts {
			if p.UserID == id {
				posts++
			}
		}
		for _, cm := range doc.Comments {
			if cm.UserID == id {
				comments++
			}
		}
		for _, r := range doc.Reports {
			if r.TargetID == id && r.Type == models.ReportTypeUser {
				reportsAgainst++
			}
		}

		var recent []models.AuditEntry
		for i := len(doc.AdminLogs) - 1; i >= 0 && len(recent) < 10; i-- {
			if doc.AdminLogs[i].UserID == id {
				recent = append(recent, doc.AdminLogs[i])
			}
		}

		activity = gin.H{
			"posts":           posts,
			"comments":        comments,
			"reports_against": reportsAgainst,
			"recent_logs":     recent,
		}
		return nil
	})

	if user == nil {
		response.NotFound(c, "Пользователь не найден")
		return
	}

	banned, reason := h.bans.IsBanned("", id)
	response.OK(c, gin.H{
		"user":       user,
		"activity":   activity,
		"banned":     banned,
		"ban_reason": reason,
	})
}

type updateUserRequest struct {
	IsVerified  *bool               `json:"isVerified"`
	Bio         *string             `json:"bio"`
	Status      *string             `json:"status"`
	DisplayName *string             `json:"displayName"`
	Email       *string             `json:"email"`
	Emoji       *string             `json:"emoji"`
	IsAdmin     *bool               `json:"isAdmin"`
	Permissions *models.Permissions `json:"permissions"`
	Password    *string             `json:"password"`
}

// UpdateUser handles PUT /api/admin/users/:id. Regular administrators may
// change only verification, bio and status; the remaining fields need
// super-admin rights. A status flip to banned registers a permanent ban,
// and back to active lifts it.
func (h *Handler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.CurrentUser(c)

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Некорректный запрос")
		return
	}

	superOnly := req.DisplayName != nil || req.Email != nil || req.Emoji != nil ||
		req.IsAdmin != nil || req.Permissions != nil || req.Password != nil
	if superOnly && (actor == nil || !actor.IsSuperAdmin) {
		response.Forbidden(c, "Требуются права супер-администратора")
		return
	}
	if req.Status != nil && *req.Status != models.UserStatusActive && *req.Status != models.UserStatusBanned {
		response.BadRequest(c, "Недопустимый статус")
		return
	}
	if req.Password != nil && len(*req.Password) < 8 {
		response.BadRequest(c, "Пароль должен содержать не менее 8 символов")
		return
	}

	var passwordHash string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			response.InternalError(c)
			return
		}
		passwordHash = string(hash)
	}

	var updated *models.User
	var changes []string
	err := h.store.Update(func(doc *models.Document) error {
		user := doc.FindUserByID(id)
		if user == nil {
			return nil
		}

		if req.IsVerified != nil && user.IsVerified != *req.IsVerified {
			user.IsVerified = *req.IsVerified
			changes = append(changes, "isVerified")
		}
		if req.Bio != nil && user.Bio != *req.Bio {
			user.Bio = *req.Bio
			changes = append(changes, "bio")
		}
		if req.Status != nil && user.Status != *req.Status {
			user.Status = *req.Status
			changes = append(changes, "status")
		}
		if req.DisplayName != nil && user.DisplayName != *req.DisplayName {
			user.DisplayName = *req.DisplayName
			changes = append(changes, "displayName")
		}
		if req.Email != nil && user.Email != *req.Email {
			user.Email = *req.Email
			changes = append(changes, "email")
		}
		if req.Emoji != nil && user.Emoji != *req.Emoji {
			user.Emoji = *req.Emoji
			changes = append(changes, "emoji")
		}
		if req.IsAdmin != nil && user.IsAdmin != *req.IsAdmin {
			user.IsAdmin = *req.IsAdmin
			changes = append(changes, "isAdmin")
		}
		if req.Permissions != nil {
			user.Permissions = *req.Permissions
			changes = append(changes, "permissions")
		}
		if passwordHash != "" {
			user.Password = passwordHash
			user.LoginAttempts = 0
			changes = append(changes, "password")
		}

		updated = user.Sanitized()
		return nil
	})
	if err != nil {
		response.InternalError(c)
		return
	}
	if updated == nil {
		response.NotFound(c, "Пользователь не найден")
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case models.UserStatusBanned:
			if err := h.bans.AddUserBan(id); err != nil {
				response.InternalError(c)
				return
			}
		case models.UserStatusActive:
			if err := h.bans.RemoveUserBan(id); err != nil {
				response.InternalError(c)
				return
			}
		}
	}

	if len(changes) > 0 && actor != nil {
		h.audit.Record(actor.ID, "user_updated",
			fmt.Sprintf("Изменен пользователь %s: %s", updated.Username, strings.Join(changes, ", ")), c.ClientIP())
	}

	response.OK(c, gin.H{"user": updated})
}

// DeleteUser handles DELETE /api/admin/users/:id. Super-admin only; removes
// the account together with its posts and comments.
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.CurrentUser(c)

	var removed *models.User
	err := h.store.Update(func(doc *models.Document) error {
		user := doc.FindUserByID(id)
		if user == nil {
			return nil
		}
		removed = user

		users := doc.Users[:0]
		for _, u := range doc.Users {
			if u.ID != id {
				users = append(users, u)
			}
		}
		doc.Users = users

		posts := doc.Posts[:0]
		for _, p := range doc.Posts {
			if p.UserID != id {
				posts = append(posts, p)
			}
		}
		doc.Posts = posts

		comments := doc.Comments[:0]
		for _, cm := range doc.Comments {
			if cm.UserID != id {
				comments = append(comments, cm)
			}
		}
		doc.Comments = comments
		return nil
	})
	if err != nil {
		response.InternalError(c)
		return
	}
	if removed == nil {
		response.NotFound(c, "Пользователь не найден")
		return
	}

	if actor != nil {
		h.audit.Record(actor.ID, "user_deleted",
			fmt.Sprintf("Удален пользователь %s", removed.Username), c.ClientIP())
	}

	response.OK(c, gin.H{"message": "Пользователь удален"})
}
