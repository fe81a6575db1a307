package auth

import (
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// FirebaseVerifier adapts *auth.Client to the TokenVerifier interface.
type FirebaseVerifier struct {
	Client *auth.Client
}

func (v FirebaseVerifier) Verify(c *gin.Context, idToken string) (string, error) {
	decoded, err := v.Client.VerifyIDToken(c.Request.Context(), idToken)
	if err != nil {
		return "", err
	}
	return decoded.UID, nil
}
