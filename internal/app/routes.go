package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/middleware"
	"github.com/itd-social/core/internal/modules/admin"
	"github.com/itd-social/core/internal/modules/antispam"
	"github.com/itd-social/core/internal/modules/audit"
	"github.com/itd-social/core/internal/modules/auth"
	"github.com/itd-social/core/internal/modules/guard"
	"github.com/itd-social/core/internal/modules/public"
	"github.com/itd-social/core/internal/pkg/redis"
	"github.com/itd-social/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *redis.Client, auditLog *audit.Logger) {
	authService := auth.NewService(a.store, a.bans, auditLog, 24*time.Hour, time.Now)
	authHandler := auth.NewHandler(authService)
	publicService := public.NewService(a.store, auditLog, time.Now)
	publicHandler := public.NewHandler(publicService, a.gate)
	adminHandler := admin.NewHandler(a.store, a.bans, auditLog, time.Now)

	a.router.GET("/api/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	api := a.router.Group("/api")
	api.Use(middleware.Idempotence(rc.Raw()))

	// One rate class per endpoint; the admin console is not rate limited.
	api.POST("/register", guard.Protect(a.gate, antispam.ActionRequests), publicHandler.Register)
	api.POST("/posts", guard.Protect(a.gate, antispam.ActionPosts), publicHandler.CreatePost)
	api.POST("/comments", guard.Protect(a.gate, antispam.ActionComments), publicHandler.CreateComment)
	api.POST("/reports", guard.Protect(a.gate, antispam.ActionRequests), publicHandler.CreateReport)

	api.POST("/admin/login", authHandler.Login)

	authorized := api.Group("/admin")
	authorized.Use(middleware.RequireAdmin(a.store, a.bans))
	{
		authorized.POST("/logout", authHandler.Logout)
		authorized.GET("/dashboard", adminHandler.Dashboard)
		authorized.GET("/stats", adminHandler.Stats)

		authorized.GET("/users", adminHandler.ListUsers)
		authorized.GET("/users/:id", adminHandler.GetUser)
		authorized.PUT("/users/:id", adminHandler.UpdateUser)
		authorized.DELETE("/users/:id", middleware.RequireSuperAdmin(), adminHandler.DeleteUser)

		authorized.GET("/posts", adminHandler.ListPosts)
		authorized.PUT("/posts/:id", adminHandler.UpdatePost)
		authorized.DELETE("/posts/:id", adminHandler.DeletePost)

		authorized.GET("/comments", adminHandler.ListComments)
		authorized.DELETE("/comments/:id", adminHandler.DeleteComment)

		authorized.GET("/reports", adminHandler.ListReports)
		authorized.POST("/reports/:id/action", adminHandler.ActOnReport)

		authorized.GET("/bans", adminHandler.ListBans)
		authorized.POST("/bans", adminHandler.CreateBan)
		authorized.DELETE("/bans", adminHandler.RemoveBan)

		authorized.GET("/settings", adminHandler.GetSettings)
		authorized.PUT("/settings", middleware.RequireSuperAdmin(), adminHandler.UpdateSettings)

		authorized.GET("/logs", adminHandler.ListLogs)
	}
}
