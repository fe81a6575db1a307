// Package admin exposes the owner API: submissions inbox, visitor
// sessions, deploy history, and the content reindex trigger.
package admin

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/dsfolio/dsfolio/internal/sessions"
	"github.com/dsfolio/dsfolio/internal/storage/postgres"
	"github.com/gin-gonic/gin"
)

// SubmissionLister is the inbox read side; nil when Postgres is disabled.
type SubmissionLister interface {
	List(ctx context.Context, limit int) ([]postgres.Submission, error)
}

type Handler struct {
	submissions SubmissionLister
	sessions    *sessions.Repo
	store       *content.Store
}

func NewHandler(submissions SubmissionLister, sessionRepo *sessions.Repo, store *content.Store) *Handler {
	return &Handler{submissions: submissions, sessions: sessionRepo, store: store}
}

func Register(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/submissions", h.listSubmissions)
	rg.GET("/sessions", h.listSessions)
	rg.POST("/reindex", h.reindex)
}

func (h *Handler) listSubmissions(c *gin.Context) {
	if h.submissions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "submission store disabled"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.submissions.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "submissions": items})
}

func (h *Handler) listSessions(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "session tracking not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	items, err := h.sessions.Active(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sessions": items, "active": len(items)})
}

func (h *Handler) reindex(c *gin.Context) {
	idx, err := h.store.Rebuild()
	if err != nil {
		log.Printf("[admin] reindex failed: %v", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"projects": len(idx.Projects),
		"posts":    len(idx.Posts),
		"pages":    len(idx.Pages),
	})
}
