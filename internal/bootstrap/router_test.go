package bootstrap

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dsfolio/dsfolio/config"
	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{ uid string }

func (s stubVerifier) Verify(c *gin.Context, token string) (string, error) {
	if token != "good-token" {
		return "", fmt.Errorf("invalid token")
	}
	return s.uid, nil
}

func testDeps(t *testing.T, rdb *redis.Client) RouterDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blog", "post.md"), []byte(`---
title: First
description: A post.
date: 2026-02-01
---
Body text.
`), 0o644))

	store, err := content.NewStore(content.BuildOptions{Root: root})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Site.Name = "DS Folio"
	cfg.Site.BaseURL = "https://dsfolio.dev"
	cfg.Forms.SpamThreshold = 60
	cfg.Forms.RateLimit = 100
	cfg.Hooks.DeploySecret = "router-test-secret"
	cfg.Admin.OwnerUIDs = []string{"owner-1"}

	return RouterDeps{
		Cfg:          cfg,
		Redis:        rdb,
		Store:        store,
		Verifier:     stubVerifier{uid: "owner-1"},
		TemplateGlob: "../../templates/*.html",
		StaticDir:    "../../static",
	}
}

func TestRouterServesPagesAndHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := BuildRouter(testDeps(t, rdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"up"`)
}

func TestRouterSessionCookieOnPages(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := BuildRouter(testDeps(t, rdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blog", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies(), "page routes issue a session cookie")
}

func TestRouterAdminRequiresAuth(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := BuildRouter(testDeps(t, rdb))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/sessions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/sessions", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterWithoutRedis(t *testing.T) {
	r := BuildRouter(testDeps(t, nil))

	// Pages still serve.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Webhook route is not mounted without deploy storage.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/hooks/deploy", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Admin sessions endpoint reports the gap instead of crashing.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/sessions", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
