package admin

import (
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/database"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/modules/audit"
	"github.com/itd-social/core/internal/modules/banlist"
	"github.com/itd-social/core/internal/pkg/response"
)

// Handler implements the moderation console. Every endpoint assumes the
// RequireAdmin middleware ran; super-only endpoints additionally sit behind
// RequireSuperAdmin in the router.
type Handler struct {
	store *database.Store
	bans  *banlist.Registry
	audit *audit.Logger
	now   func() time.Time
}

// NewHandler builds the admin handler.
func NewHandler(store *database.Store, bans *banlist.Registry, auditLog *audit.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{store: store, bans: bans, audit: auditLog, now: now}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination reads page/limit query parameters with sane bounds.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func pageBounds(total, page, limit int) (lo, hi int) {
	lo = (page - 1) * limit
	if lo > total {
		lo = total
	}
	hi = lo + limit
	if hi > total {
		hi = total
	}
	return lo, hi
}

// Dashboard handles GET /api/admin/dashboard: the summary cards plus the
// most recent log lines.
func (h *Handler) Dashboard(c *gin.Context) {
	ipBans, userBans, tempBans := h.bans.Counts()

	var payload gin.H
	_ = h.store.View(func(doc *models.Document) error {
		pending := 0
		for _, r := range doc.Reports {
			if r.Status == models.ReportStatusPending {
				pending++
			}
		}

		dayAgo := h.now().Add(-24 * time.Hour)
		weekAgo := h.now().Add(-7 * 24 * time.Hour)
		newUsersWeek, newPosts := 0, 0
		for _, u := range doc.Users {
			if u.CreatedAt.After(weekAgo) {
				newUsersWeek++
			}
		}
		for _, p := range doc.Posts {
			if p.CreatedAt.After(dayAgo) {
				newPosts++
			}
		}
		activeStories := 0
		for _, st := range doc.Stories {
			if st.CreatedAt.After(dayAgo) {
				activeStories++
			}
		}

		recent := doc.AdminLogs
		if len(recent) > 10 {
			recent = recent[len(recent)-10:]
		}
		logs := make([]models.AuditEntry, len(recent))
		for i := range recent {
			logs[i] = recent[len(recent)-1-i]
		}

		payload = gin.H{
			"stats": gin.H{
				"total_users":     len(doc.Users),
				"total_posts":     len(doc.Posts),
				"total_comments":  len(doc.Comments),
				"total_videos":    len(doc.Videos),
				"active_stories":  activeStories,
				"pending_reports": pending,
				"new_users_7d":    newUsersWeek,
				"new_posts_24h":   newPosts,
				"ip_bans":         ipBans,
				"user_bans":       userBans,
				"temp_bans":       tempBans,
			},
			"popular_posts":  popularPosts(doc, 5),
			"popular_videos": popularVideos(doc, 5),
			"recent_logs":    logs,
			"settings":       doc.SystemSettings,
		}
		return nil
	})

	response.OK(c, payload)
}

// popularPosts returns the top posts by engagement (likes plus views).
func popularPosts(doc *models.Document, n int) []*models.Post {
	posts := append([]*models.Post(nil), doc.Posts...)
	sort.SliceStable(posts, func(i, j int) bool {
		return len(posts[i].Likes)+posts[i].Views > len(posts[j].Likes)+posts[j].Views
	})
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts
}

func popularVideos(doc *models.Document, n int) []*models.Video {
	videos := append([]*models.Video(nil), doc.Videos...)
	sort.SliceStable(videos, func(i, j int) bool {
		return len(videos[i].Likes)+videos[i].Views > len(videos[j].Likes)+videos[j].Views
	})
	if len(videos) > n {
		videos = videos[:n]
	}
	return videos
}

// dailyCounts buckets timestamps into "2006-01-02" keys over the last `days`.
func dailyCounts(now time.Time, days int, at func(i int) (models.Time, bool)) map[string]int {
	cutoff := now.AddDate(0, 0, -days)
	out := map[string]int{}
	for i := 0; ; i++ {
		ts, ok := at(i)
		if !ok {
			break
		}
		if ts.After(cutoff) {
			out[ts.Format("2006-01-02")]++
		}
	}
	return out
}

// Stats handles GET /api/admin/stats: aggregate counters plus 30-day
// registration and posting series.
func (h *Handler) Stats(c *gin.Context) {
	var payload gin.H
	_ = h.store.View(func(doc *models.Document) error {
		byStatus := map[string]int{}
		for _, r := range doc.Reports {
			byStatus[r.Status]++
		}
		weekAgo := h.now().Add(-7 * 24 * time.Hour)
		admins, banned, activeUsers := 0, 0, 0
		for _, u := range doc.Users {
			if u.IsAdmin || u.IsSuperAdmin {
				admins++
			}
			if u.Status == models.UserStatusBanned {
				banned++
			}
			if u.LastActive != nil && u.LastActive.After(weekAgo) {
				activeUsers++
			}
		}

		usersByDay := dailyCounts(h.now(), 30, func(i int) (models.Time, bool) {
			if i >= len(doc.Users) {
				return models.Time{}, false
			}
			return doc.Users[i].CreatedAt, true
		})
		postsByDay := dailyCounts(h.now(), 30, func(i int) (models.Time, bool) {
			if i >= len(doc.Posts) {
				return models.Time{}, false
			}
			return doc.Posts[i].CreatedAt, true
		})

		payload = gin.H{
			"users":             len(doc.Users),
			"admins":            admins,
			"banned_users":      banned,
			"active_users_7d":   activeUsers,
			"posts":             len(doc.Posts),
			"videos":            len(doc.Videos),
			"comments":          len(doc.Comments),
			"stories":           len(doc.Stories),
			"clans":             len(doc.Clans),
			"notifications":     len(doc.Notifications),
			"users_by_day":      usersByDay,
			"posts_by_day":      postsByDay,
			"reports_by_status": byStatus,
			"admin_log_entries": len(doc.AdminLogs),
		}
		return nil
	})

	response.OK(c, payload)
}
