package site

import (
	"log"
	"net/http"

	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/dsfolio/dsfolio/internal/seo"
	"github.com/gin-gonic/gin"
)

// Sitemap serves sitemap.xml built from the current index.
func (h *Handler) Sitemap(c *gin.Context) {
	out, err := seo.Sitemap(h.baseURL, h.store.Current())
	if err != nil {
		log.Printf("[site] sitemap: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", out)
}

// Robots serves robots.txt.
func (h *Handler) Robots(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", seo.Robots(h.baseURL))
}

// Feed serves the blog RSS feed.
func (h *Handler) Feed(c *gin.Context) {
	out, err := seo.Feed(h.siteName, h.baseURL, h.store.Current())
	if err != nil {
		log.Printf("[site] feed: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", out)
}

// ProjectIndex serves the machine-readable project list.
func (h *Handler) ProjectIndex(c *gin.Context) {
	idx := h.store.Current()
	projects := idx.Projects
	if projects == nil {
		projects = []*content.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": projects})
}

// PostIndex serves the machine-readable post list.
func (h *Handler) PostIndex(c *gin.Context) {
	idx := h.store.Current()
	posts := idx.Posts
	if posts == nil {
		posts = []*content.BlogPost{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "posts": posts})
}
