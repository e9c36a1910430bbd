package admin

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/middleware"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/pkg/response"
)

// postView joins a post with its author reference for listings.
type postView struct {
	*models.Post
	Author *models.Brief `json:"author,omitempty"`
}

// ListPosts handles GET /api/admin/posts. The filter query selects all,
// reported or hidden posts.
func (h *Handler) ListPosts(c *gin.Context) {
	filter := c.DefaultQuery("filter", "all")
	page, limit := pagination(c)

	var posts []postView
	total := 0
	_ = h.store.View(func(doc *models.Document) error {
		reported := map[string]bool{}
		if filter == "reported" {
			for _, r := range doc.Reports {
				if r.Type == models.ReportTypePost && r.Status == models.ReportStatusPending {
					reported[r.TargetID] = true
				}
			}
		}

		matched := make([]*models.Post, 0, len(doc.Posts))
		for _, p := range doc.Posts {
			switch filter {
			case "reported":
				if !reported[p.ID] {
					continue
				}
			case "hidden":
				if !p.Hidden {
					continue
				}
			}
			matched = append(matched, p)
		}

		total = len(matched)
		lo, hi := pageBounds(total, page, limit)
		for _, p := range matched[lo:hi] {
			view := postView{Post: p}
			if author := doc.FindUserByID(p.UserID); author != nil {
				brief := author.Brief()
				view.Author = &brief
			}
			posts = append(posts, view)
		}
		return nil
	})

	response.OK(c, gin.H{
		"posts": posts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

type updatePostRequest struct {
	Hidden  *bool   `json:"hidden"`
	Content *string `json:"content"`
}

// UpdatePost handles PUT /api/admin/posts/:id: hide/unhide or rewrite the
// text. A rewritten post is marked moderated.
func (h *Handler) UpdatePost(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.CurrentUser(c)

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Некорректный запрос")
		return
	}
	if req.Content != nil && (actor == nil || !actor.IsSuperAdmin) {
		response.Forbidden(c, "Требуются права супер-администратора")
		return
	}

	var updated *models.Post
	err := h.store.Update(func(doc *models.Document) error {
		post := doc.FindPostByID(id)
		if post == nil {
			return nil
		}
		if req.Hidden != nil {
			post.Hidden = *req.Hidden
		}
		if req.Content != nil {
			post.Content = *req.Content
			post.Moderated = true
		}
		post.UpdatedAt = models.At(h.now())
		updated = post
		return nil
	})
	if err != nil {
		response.InternalError(c)
		return
	}
	if updated == nil {
		response.NotFound(c, "Пост не найден")
		return
	}

	if actor != nil {
		h.audit.Record(actor.ID, "post_moderated",
			fmt.Sprintf("Изменен пост %s", id), c.ClientIP())
	}

	response.OK(c, gin.H{"post": updated})
}

// DeletePost handles DELETE /api/admin/posts/:id: removes the post, its
// comments and decrements the author's counter.
func (h *Handler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.CurrentUser(c)

	found := false
	err := h.store.Update(func(doc *models.Document) error {
		post := doc.FindPostByID(id)
		if post == nil {
			return nil
		}
		found = true

		if author := doc.FindUserByID(post.UserID); author != nil && author.Stats.Posts > 0 {
			author.Stats.Posts--
		}

		posts := doc.Posts[:0]
		for _, p := range doc.Posts {
			if p.ID != id {
				posts = append(posts, p)
			}
		}
		doc.Posts = posts

		comments := doc.Comments[:0]
		for _, cm := range doc.Comments {
			if cm.PostID != id {
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
	if !found {
		response.NotFound(c, "Пост не найден")
		return
	}

	if actor != nil {
		h.audit.Record(actor.ID, "post_deleted",
			fmt.Sprintf("Удален пост %s", id), c.ClientIP())
	}

	response.OK(c, gin.H{"message": "Пост удален"})
}

// commentView joins a comment with its author reference.
type commentView struct {
	*models.Comment
	Author *models.Brief `json:"author,omitempty"`
}

// ListComments handles GET /api/admin/comments.
func (h *Handler) ListComments(c *gin.Context) {
	page, limit := pagination(c)

	var comments []commentView
	total := 0
	_ = h.store.View(func(doc *models.Document) error {
		total = len(doc.Comments)
		lo, hi := pageBounds(total, page, limit)
		for _, cm := range doc.Comments[lo:hi] {
			view := commentView{Comment: cm}
			if author := doc.FindUserByID(cm.UserID); author != nil {
				brief := author.Brief()
				view.Author = &brief
			}
			comments = append(comments, view)
		}
		return nil
	})

	response.OK(c, gin.H{
		"comments": comments,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// DeleteComment handles DELETE /api/admin/comments/:id and decrements the
// parent's comment counter.
func (h *Handler) DeleteComment(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.CurrentUser(c)

	found := false
	err := h.store.Update(func(doc *models.Document) error {
		comment := doc.FindCommentByID(id)
		if comment == nil {
			return nil
		}
		found = true

		if comment.PostID != "" {
			if post := doc.FindPostByID(comment.PostID); post != nil && post.Comments > 0 {
				post.Comments--
			}
		} else if comment.VideoID != "" {
			if video := doc.FindVideoByID(comment.VideoID); video != nil && video.Comments > 0 {
				video.Comments--
			}
		}

		comments := doc.Comments[:0]
		for _, cm := range doc.Comments {
			if cm.ID != id {
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
	if !found {
		response.NotFound(c, "Комментарий не найден")
		return
	}

	if actor != nil {
		h.audit.Record(actor.ID, "comment_deleted",
			fmt.Sprintf("Удален комментарий %s", id), c.ClientIP())
	}

	response.OK(c, gin.H{"message": "Комментарий удален"})
}
