package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/config"
	"github.com/itd-social/core/internal/database"
	"github.com/itd-social/core/internal/middleware"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/modules/antispam"
	"github.com/itd-social/core/internal/modules/audit"
	"github.com/itd-social/core/internal/modules/banlist"
	"github.com/itd-social/core/internal/modules/guard"
	"github.com/itd-social/core/internal/pkg/ids"
	"github.com/itd-social/core/internal/pkg/jwt"
	pkgredis "github.com/itd-social/core/internal/pkg/redis"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	store  *database.Store
	bans   *banlist.Registry
	gate   *guard.Gate
	logger *zap.Logger
}

// New initializes the application: document store → ban registry → guard →
// routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	jwt.SetSecret(cfg.JWTSecret)

	store, err := database.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	bans, err := banlist.Open(cfg.BansPath(), time.Now)
	if err != nil {
		return nil, fmt.Errorf("bans: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	auditLog := audit.New(cfg.ActivityLogPath(), store, logger, time.Now)
	limiter := antispam.NewLimiter(time.Now)
	gate := guard.New(bans, limiter, auditLog)

	if err := ensureBootstrapAdmin(store, cfg.Admin); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return originAllowed(patterns, origin)
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	app := &App{
		cfg:    cfg,
		router: router,
		store:  store,
		bans:   bans,
		gate:   gate,
		logger: logger,
	}
	app.registerRoutes(rc, auditLog)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// ensureBootstrapAdmin creates the configured super-admin account when the
// document has no users yet.
func ensureBootstrapAdmin(store *database.Store, admin config.AdminConfig) error {
	return store.Update(func(doc *models.Document) error {
		if len(doc.Users) > 0 {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		doc.Users = append(doc.Users, &models.User{
			ID:           ids.New("user"),
			Username:     admin.Username,
			DisplayName:  "Администратор",
			Password:     string(hash),
			Emoji:        "👑",
			CreatedAt:    models.Now(),
			IsAdmin:      true,
			IsSuperAdmin: true,
			IsVerified:   true,
			Followers:    []string{},
			Following:    []string{},
			Settings:     models.DefaultUserSettings(),
			Status:       models.UserStatusActive,
		})
		return nil
	})
}
