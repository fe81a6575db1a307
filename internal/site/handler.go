// Package site serves the rendered pages: home, projects, blog, the
// singleton pages, and the discovery artifacts (sitemap, robots, feed).
package site

import (
	"log"
	"net/http"
	"time"

	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/dsfolio/dsfolio/internal/seo"
	"github.com/gin-gonic/gin"
)

// Handler renders pages from the current content index.
type Handler struct {
	store    *content.Store
	siteName string
	baseURL  string
	author   string
}

func NewHandler(store *content.Store, siteName, baseURL, author string) *Handler {
	return &Handler{store: store, siteName: siteName, baseURL: baseURL, author: author}
}

// Register mounts the page routes on the root router group.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/", h.Home)
	r.GET("/projects", h.Projects)
	r.GET("/projects/:slug", h.Project)
	r.GET("/blog", h.Blog)
	r.GET("/blog/:slug", h.Post)
	r.GET("/about", h.page("about"))
	r.GET("/resume", h.page("resume"))
	r.GET("/contact", h.Contact)

	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/robots.txt", h.Robots)
	r.GET("/feed.xml", h.Feed)
	r.GET("/api/v1/index/projects", h.ProjectIndex)
	r.GET("/api/v1/index/posts", h.PostIndex)
}

// Home shows featured projects and the latest posts.
func (h *Handler) Home(c *gin.Context) {
	idx := h.store.Current()

	var featured []*content.Project
	for _, p := range idx.Projects {
		if p.Featured {
			featured = append(featured, p)
		}
		if len(featured) == 3 {
			break
		}
	}

	posts := idx.Posts
	if len(posts) > 3 {
		posts = posts[:3]
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"meta":     seo.PageMeta(h.siteName, h.baseURL, "/", "", "Data science projects, writing, and experiments."),
		"featured": featured,
		"posts":    posts,
	})
}

// Projects lists all projects, optionally filtered by ?tag=.
func (h *Handler) Projects(c *gin.Context) {
	idx := h.store.Current()
	projects := idx.Projects

	if tag := c.Query("tag"); tag != "" {
		var filtered []*content.Project
		for _, p := range projects {
			if hasTag(p.Tags, tag) {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}

	c.HTML(http.StatusOK, "projects.html", gin.H{
		"meta":     seo.PageMeta(h.siteName, h.baseURL, "/projects", "Projects", "Portfolio of data science and engineering projects."),
		"projects": projects,
		"tag":      c.Query("tag"),
	})
}

// Project renders a single project page.
func (h *Handler) Project(c *gin.Context) {
	idx := h.store.Current()
	p, ok := idx.ProjectBySlug(c.Param("slug"))
	if !ok {
		h.notFound(c)
		return
	}

	body, err := content.RenderHTML(p.Body)
	if err != nil {
		log.Printf("[site] render project %s: %v", p.Slug, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"meta": seo.PageMeta(h.siteName, h.baseURL, "", "Error", ""),
		})
		return
	}

	c.HTML(http.StatusOK, "project.html", gin.H{
		"meta":    seo.PageMeta(h.siteName, h.baseURL, "/projects/"+p.Slug, p.Title, p.Description),
		"project": p,
		"body":    body,
	})
}

// Blog lists all posts, optionally filtered by ?tag=.
func (h *Handler) Blog(c *gin.Context) {
	idx := h.store.Current()
	posts := idx.Posts

	if tag := c.Query("tag"); tag != "" {
		var filtered []*content.BlogPost
		for _, p := range posts {
			if hasTag(p.Tags, tag) {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	c.HTML(http.StatusOK, "blog.html", gin.H{
		"meta":  seo.PageMeta(h.siteName, h.baseURL, "/blog", "Blog", "Notes on data science, statistics, and software."),
		"posts": posts,
		"tag":   c.Query("tag"),
	})
}

// Post renders a single blog post.
func (h *Handler) Post(c *gin.Context) {
	idx := h.store.Current()
	p, ok := idx.PostBySlug(c.Param("slug"))
	if !ok {
		h.notFound(c)
		return
	}

	body, err := content.RenderHTML(p.Body)
	if err != nil {
		log.Printf("[site] render post %s: %v", p.Slug, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"meta": seo.PageMeta(h.siteName, h.baseURL, "", "Error", ""),
		})
		return
	}

	c.HTML(http.StatusOK, "post.html", gin.H{
		"meta": seo.ArticleMeta(h.siteName, h.baseURL, "/blog/"+p.Slug, p.Title, p.Description, h.author, p.Date),
		"post": p,
		"body": body,
	})
}

// page renders a singleton page like about or resume.
func (h *Handler) page(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx := h.store.Current()
		p, ok := idx.Page(slug)
		if !ok {
			h.notFound(c)
			return
		}

		body, err := content.RenderHTML(p.Body)
		if err != nil {
			log.Printf("[site] render page %s: %v", slug, err)
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{
				"meta": seo.PageMeta(h.siteName, h.baseURL, "", "Error", ""),
			})
			return
		}

		c.HTML(http.StatusOK, "page.html", gin.H{
			"meta": seo.PageMeta(h.siteName, h.baseURL, "/"+slug, p.Title, ""),
			"page": p,
			"body": body,
		})
	}
}

// Contact renders the contact form. The rendered_at timestamp feeds the
// fill-time spam check on submission.
func (h *Handler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"meta":       seo.PageMeta(h.siteName, h.baseURL, "/contact", "Contact", "Get in touch."),
		"renderedAt": time.Now().Unix(),
	})
}

// NotFound is the router's fallback for unmatched routes.
func (h *Handler) NotFound(c *gin.Context) {
	h.notFound(c)
}

func (h *Handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"meta": seo.PageMeta(h.siteName, h.baseURL, "", "Not Found", ""),
	})
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
