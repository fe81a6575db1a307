package forms

import (
	"context"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/dsfolio/dsfolio/internal/forms/antispam"
	"github.com/dsfolio/dsfolio/internal/storage/postgres"
	"github.com/gin-gonic/gin"
)

// Store persists accepted submissions. Nil-able so the server can run
// without Postgres in development; submissions then only reach the mailer.
type Store interface {
	Insert(ctx context.Context, sub *postgres.Submission, hits any) error
}

type Handler struct {
	store     Store
	mailer    Mailer
	threshold int
}

func NewHandler(store Store, mailer Mailer, spamThreshold int) *Handler {
	if spamThreshold <= 0 {
		spamThreshold = 60
	}
	return &Handler{store: store, mailer: mailer, threshold: spamThreshold}
}

func Register(rg *gin.RouterGroup, h *Handler, extra ...gin.HandlerFunc) {
	handlers := append(extra, h.submit)
	rg.POST("/contact", handlers...)
}

type contactReq struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
	// Website is the honeypot: hidden in the rendered form, so anything
	// in it came from a bot filling every field.
	Website    string `form:"website" json:"website"`
	RenderedAt int64  `form:"rendered_at" json:"rendered_at"`
}

func (h *Handler) submit(c *gin.Context) {
	var req contactReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name, email and message are required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid email address"})
		return
	}

	sub := &antispam.Submission{
		Name:       req.Name,
		Email:      req.Email,
		Message:    req.Message,
		Honeypot:   req.Website,
		ReceivedAt: time.Now(),
		RemoteIP:   c.ClientIP(),
	}
	if req.RenderedAt > 0 {
		sub.RenderedAt = time.Unix(req.RenderedAt, 0)
	}

	res := antispam.Evaluate(sub)
	if res.Score >= h.threshold {
		log.Printf("[forms] rejected submission from %s score=%d hits=%d",
			c.ClientIP(), res.Score, len(res.Hits))
		// Generic message: no point teaching bots which rule they tripped.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "submission rejected"})
		return
	}

	if h.store != nil {
		record := &postgres.Submission{
			Name:      req.Name,
			Email:     req.Email,
			Message:   req.Message,
			RemoteIP:  c.ClientIP(),
			SpamScore: res.Score,
		}
		if err := h.store.Insert(c.Request.Context(), record, res.Hits); err != nil {
			log.Printf("[forms] store insert failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not store submission"})
			return
		}
	}

	if h.mailer != nil {
		if err := h.mailer.SendContact(req.Name, req.Email, req.Message); err != nil {
			// Submission is already stored; a mail failure should not
			// look like a lost message to the visitor.
			log.Printf("[forms] mail send failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}
