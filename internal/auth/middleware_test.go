package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	uid string
	err error
}

func (s stubVerifier) Verify(_ *gin.Context, _ string) (string, error) {
	return s.uid, s.err
}

func adminRouter(v TokenVerifier, owners []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", OwnerOnly(v, owners), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": OwnerUID(c)})
	})
	return r
}

func get(r *gin.Engine, authz string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	r.ServeHTTP(rr, req)
	return rr
}

func TestOwnerOnlyMissingToken(t *testing.T) {
	r := adminRouter(stubVerifier{uid: "owner-1"}, []string{"owner-1"})
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
}

func TestOwnerOnlyInvalidToken(t *testing.T) {
	r := adminRouter(stubVerifier{err: fmt.Errorf("expired")}, []string{"owner-1"})
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer bad").Code)
}

func TestOwnerOnlyUnknownUID(t *testing.T) {
	r := adminRouter(stubVerifier{uid: "stranger"}, []string{"owner-1"})
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer ok").Code)
}

func TestOwnerOnlyAllowsOwner(t *testing.T) {
	r := adminRouter(stubVerifier{uid: "owner-1"}, []string{"owner-1", "owner-2"})

	rr := get(r, "Bearer ok")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "owner-1")
}

func TestOwnerOnlyRejectsNonBearerHeader(t *testing.T) {
	r := adminRouter(stubVerifier{uid: "owner-1"}, []string{"owner-1"})
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic dXNlcjpwYXNz").Code)
}
