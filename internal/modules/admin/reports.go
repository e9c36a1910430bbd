package admin

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/middleware"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/pkg/ids"
	"github.com/itd-social/core/internal/pkg/response"
)

// ListReports handles GET /api/admin/reports filtered by status.
func (h *Handler) ListReports(c *gin.Context) {
	status := c.DefaultQuery("status", models.ReportStatusPending)
	page, limit := pagination(c)

	var reports []*models.Report
	total := 0
	_ = h.store.View(func(doc *models.Document) error {
		matched := make([]*models.Report, 0, len(doc.Reports))
		for _, r := range doc.Reports {
			if status != "all" && r.Status != status {
				continue
			}
			matched = append(matched, r)
		}
		total = len(matched)
		lo, hi := pageBounds(total, page, limit)
		reports = matched[lo:hi]
		return nil
	})

	response.OK(c, gin.H{
		"reports": reports,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

type reportActionRequest struct {
	Action        string `json:"action"`
	Reason        string `json:"reason"`
	DurationHours int    `json:"duration_hours"`
}

// resolveTargetUser maps a report target to the account being moderated.
func resolveTargetUser(doc *models.Document, report *models.Report) *models.User {
	switch report.Type {
	case models.ReportTypeUser:
		return doc.FindUserByID(report.TargetID)
	case models.ReportTypePost:
		if post := doc.FindPostByID(report.TargetID); post != nil {
			return doc.FindUserByID(post.UserID)
		}
	case models.ReportTypeComment:
		if comment := doc.FindCommentByID(report.TargetID); comment != nil {
			return doc.FindUserByID(comment.UserID)
		}
	case models.ReportTypeVideo:
		if video := doc.FindVideoByID(report.TargetID); video != nil {
			return doc.FindUserByID(video.UserID)
		}
	}
	return nil
}

// ActOnReport handles POST /api/admin/reports/:id/action. Transitions are
// one-way: a resolved or dismissed report never returns to pending.
//
//	dismiss  close the report without consequence
//	warn     close it and notify the offending account
//	ban      close it and ban the account (temporary when duration_hours
//	         is set, permanent otherwise)
func (h *Handler) ActOnReport(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.CurrentUser(c)
	if actor == nil {
		response.Unauthorized(c, "Требуется авторизация")
		return
	}

	var req reportActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Некорректный запрос")
		return
	}
	if req.Action != "dismiss" && req.Action != "warn" && req.Action != "ban" {
		response.BadRequest(c, "Недопустимое действие")
		return
	}

	var notFound, alreadyResolved bool
	var targetUserID string
	now := models.At(h.now())

	err := h.store.Update(func(doc *models.Document) error {
		report := doc.FindReportByID(id)
		if report == nil {
			notFound = true
			return nil
		}
		if report.Resolved() {
			alreadyResolved = true
			return nil
		}

		target := resolveTargetUser(doc, report)

		switch req.Action {
		case "dismiss":
			report.Status = models.ReportStatusDismissed
		case "warn":
			report.Status = models.ReportStatusResolved
			if target != nil {
				reason := req.Reason
				if reason == "" {
					reason = report.Reason
				}
				doc.Notifications = append(doc.Notifications, &models.Notification{
					ID:        ids.New("notif"),
					UserID:    target.ID,
					Type:      "warning",
					Title:     "Предупреждение от модерации",
					Message:   fmt.Sprintf("Вы получили предупреждение: %s", reason),
					CreatedAt: now,
				})
				target.Notifications++
			}
		case "ban":
			report.Status = models.ReportStatusResolved
			if target != nil {
				target.Status = models.UserStatusBanned
				targetUserID = target.ID
			}
		}

		report.ResolvedBy = actor.ID
		report.ResolvedAt = &now
		return nil
	})
	if err != nil {
		response.InternalError(c)
		return
	}
	if notFound {
		response.NotFound(c, "Жалоба не найдена")
		return
	}
	if alreadyResolved {
		response.Conflict(c, "Жалоба уже рассмотрена")
		return
	}

	if targetUserID != "" {
		var banErr error
		if req.DurationHours > 0 {
			reason := req.Reason
			if reason == "" {
				reason = "Нарушение правил"
			}
			banErr = h.bans.SetTempBan(targetUserID, reason, actor.ID, req.DurationHours)
		} else {
			banErr = h.bans.AddUserBan(targetUserID)
		}
		if banErr != nil {
			response.InternalError(c)
			return
		}
	}

	h.audit.Record(actor.ID, "report_"+req.Action,
		fmt.Sprintf("Жалоба %s: действие %s", id, req.Action), c.ClientIP())

	response.OK(c, gin.H{"message": "Жалоба рассмотрена"})
}
