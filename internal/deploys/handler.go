package deploys

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// signatureHeader carries a JWS whose claims commit to the request body,
// the scheme Netlify uses for outgoing webhooks.
const signatureHeader = "X-Webhook-Signature"

type Handler struct {
	repo   *Repo
	secret []byte
}

func NewHandler(repo *Repo, secret string) *Handler {
	return &Handler{repo: repo, secret: []byte(secret)}
}

// Register mounts the signed webhook receiver. The read endpoints are
// owner-only and mounted by the admin package.
func Register(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/hooks/deploy", h.webhook)
}

// RegisterReads mounts the deploy history endpoints on an authenticated group.
func RegisterReads(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/deploys", h.list)
	rg.GET("/deploys/:id", h.get)
}

type webhookPayload struct {
	ID          string `json:"id"`
	State       string `json:"state"`
	Branch      string `json:"branch"`
	CommitRef   string `json:"commit_ref"`
	Title       string `json:"title"`
	DeployURL   string `json:"deploy_ssl_url"`
	ErrorMsg    string `json:"error_message"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type signatureClaims struct {
	SHA256 string `json:"sha256"`
	jwt.RegisteredClaims
}

func (h *Handler) webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unreadable body"})
		return
	}

	if err := h.verifySignature(c.GetHeader(signatureHeader), body); err != nil {
		log.Printf("[deploys] webhook signature rejected: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid payload"})
		return
	}

	d := &Deploy{
		ID:        payload.ID,
		State:     payload.State,
		Branch:    payload.Branch,
		CommitSHA: payload.CommitRef,
		CommitMsg: payload.Title,
		DeployURL: payload.DeployURL,
		ErrorMsg:  payload.ErrorMsg,
		CreatedAt: parseTimeOrZero(payload.CreatedAt),
		UpdatedAt: parseTimeOrZero(payload.UpdatedAt),
	}

	if err := h.repo.Upsert(c.Request.Context(), d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	log.Printf("[deploys] recorded deploy %s state=%s branch=%s", d.ID, d.State, d.Branch)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// verifySignature checks the JWS: HS256 with the shared secret, and the
// sha256 claim must match the body hash so a captured token cannot sign a
// different payload.
func (h *Handler) verifySignature(token string, body []byte) error {
	if len(h.secret) == 0 {
		return fmt.Errorf("webhook secret not configured")
	}
	if token == "" {
		return fmt.Errorf("missing %s header", signatureHeader)
	}

	claims := &signatureClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return fmt.Errorf("token invalid")
	}

	sum := sha256.Sum256(body)
	if claims.SHA256 != hex.EncodeToString(sum[:]) {
		return fmt.Errorf("body hash mismatch")
	}
	return nil
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deploys": items})
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "deploy not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deploy": d})
}

func parseTimeOrZero(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
