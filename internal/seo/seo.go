// Package seo generates discovery artifacts from the content index:
// per-page meta tags, sitemap.xml, robots.txt and the blog RSS feed.
package seo

import (
	"strings"
	"time"
)

// Meta is the tag data a page template injects into <head>. Values are
// plain text; html/template escapes them at render time.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OGType      string
	OGImage     string
	Published   string
	Author      string
}

// PageMeta assembles meta tag values for a page.
func PageMeta(siteName, baseURL, path, title, description string) Meta {
	full := title
	if full == "" {
		full = siteName
	} else if siteName != "" {
		full = full + " | " + siteName
	}

	return Meta{
		Title:       strings.TrimSpace(full),
		Description: Truncate(description, 160),
		Canonical:   CanonicalURL(baseURL, path),
		OGType:      "website",
	}
}

// ArticleMeta is PageMeta for blog posts, with OpenGraph article fields.
func ArticleMeta(siteName, baseURL, path, title, description, author string, published time.Time) Meta {
	m := PageMeta(siteName, baseURL, path, title, description)
	m.OGType = "article"
	m.Author = strings.TrimSpace(author)
	if !published.IsZero() {
		m.Published = published.UTC().Format(time.RFC3339)
	}
	return m
}

// Truncate cuts a description to max runes at a word boundary, adding an
// ellipsis when something was cut.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= max {
		return s
	}
	runes := []rune(s)[:max]
	cut := strings.LastIndex(string(runes), " ")
	if cut <= 0 {
		cut = len(string(runes))
	}
	return strings.TrimRight(string(runes)[:cut], " .,;:") + "…"
}

// CanonicalURL joins the site base URL with a request path.
func CanonicalURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if path == "" || path == "/" {
		return baseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}
