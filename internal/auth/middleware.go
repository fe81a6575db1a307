package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxOwnerUID = "owner_uid"

// TokenVerifier abstracts the Firebase client so handlers can be tested
// without talking to Google.
type TokenVerifier interface {
	Verify(c *gin.Context, idToken string) (uid string, err error)
}

// OwnerOnly validates the Bearer ID token and requires the UID to be on the
// configured owner allowlist. Everything under /admin mounts this.
func OwnerOnly(verifier TokenVerifier, ownerUIDs []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(ownerUIDs))
	for _, uid := range ownerUIDs {
		allowed[uid] = true
	}

	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			return
		}

		uid, err := verifier.Verify(c, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		if !allowed[uid] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "not an owner account"})
			return
		}

		c.Set(CtxOwnerUID, uid)
		c.Next()
	}
}

// OwnerUID returns the verified owner UID set by OwnerOnly.
func OwnerUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxOwnerUID))
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
