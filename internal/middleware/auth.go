package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/database"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/modules/banlist"
	"github.com/itd-social/core/internal/pkg/jwt"
	"github.com/itd-social/core/internal/pkg/response"
)

const userContextKey = "authUser"

// RequireAdmin validates the bearer token, resolves the account and admits
// only administrators. A ban placed after token issuance invalidates the
// session immediately.
func RequireAdmin(store *database.Store, bans *banlist.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "Требуется авторизация")
			return
		}

		claims, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "Недействительный токен")
			return
		}

		var user *models.User
		_ = store.View(func(doc *models.Document) error {
			if found := doc.FindUserByID(claims.UserID); found != nil {
				copied := *found
				user = &copied
			}
			return nil
		})
		if user == nil {
			response.Unauthorized(c, "Недействительный токен")
			return
		}
		if !user.IsAdmin && !user.IsSuperAdmin {
			response.Forbidden(c, "Доступ запрещен")
			return
		}
		if banned, reason := bans.IsBanned("", user.ID); banned {
			response.Forbidden(c, reason)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireSuperAdmin runs after RequireAdmin and admits only
// super-administrators.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsSuperAdmin {
			response.Forbidden(c, "Требуются права супер-администратора")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated account set by RequireAdmin, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
