// Package content implements the markdown content pipeline: frontmatter
// parsing, schema validation, and the in-memory index the site renders from.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Collection names match the directories under the content root.
const (
	CollectionProjects = "projects"
	CollectionBlog     = "blog"
	CollectionPages    = "pages"
)

// Document is the raw parse result of a single content file.
type Document struct {
	Path        string
	Frontmatter map[string]any
	Body        string
	Hash        string
}

// Project is a validated portfolio project entry.
type Project struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags,omitempty"`
	Tech        []string  `json:"tech,omitempty"`
	RepoURL     string    `json:"repo_url,omitempty"`
	LiveURL     string    `json:"live_url,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Featured    bool      `json:"featured"`
	Draft       bool      `json:"draft"`
	Body        string    `json:"-"`
}

// BlogPost is a validated blog entry.
type BlogPost struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Updated     time.Time `json:"updated,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	ReadingTime int       `json:"reading_time_minutes"`
	Draft       bool      `json:"draft"`
	Body        string    `json:"-"`
}

// Page is a singleton page such as about or resume.
type Page struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Updated time.Time `json:"updated,omitempty"`
	Body    string    `json:"-"`
}

// ContentHash returns the hex SHA256 of raw file content, used to skip
// re-parsing unchanged files and as a stable document fingerprint.
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
