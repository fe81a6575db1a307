package content

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
)

// Frontmatter date fields accept a plain date or a full timestamp.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ProjectFromDocument validates a document against the project schema.
func ProjectFromDocument(doc *Document) (*Project, error) {
	fm := newFieldReader(doc)

	p := &Project{
		Slug:        fm.slug(),
		Title:       fm.requiredString("title"),
		Description: fm.requiredString("description"),
		Date:        fm.requiredDate("date"),
		Tags:        fm.stringList("tags"),
		Tech:        fm.stringList("tech"),
		RepoURL:     fm.optionalString("repo_url"),
		LiveURL:     fm.optionalString("live_url"),
		CoverImage:  fm.optionalString("cover_image"),
		Featured:    fm.boolean("featured"),
		Draft:       fm.boolean("draft"),
		Body:        doc.Body,
	}

	if err := fm.err(); err != nil {
		return nil, err
	}
	return p, nil
}

// PostFromDocument validates a document against the blog post schema.
func PostFromDocument(doc *Document) (*BlogPost, error) {
	fm := newFieldReader(doc)

	post := &BlogPost{
		Slug:        fm.slug(),
		Title:       fm.requiredString("title"),
		Description: fm.requiredString("description"),
		Date:        fm.requiredDate("date"),
		Updated:     fm.optionalDate("updated"),
		Tags:        fm.stringList("tags"),
		CoverImage:  fm.optionalString("cover_image"),
		Draft:       fm.boolean("draft"),
		Body:        doc.Body,
		ReadingTime: ReadingTime(doc.Body),
	}

	if err := fm.err(); err != nil {
		return nil, err
	}
	return post, nil
}

// PageFromDocument validates a singleton page (about, resume).
func PageFromDocument(doc *Document) (*Page, error) {
	fm := newFieldReader(doc)

	page := &Page{
		Slug:    fm.slug(),
		Title:   fm.requiredString("title"),
		Updated: fm.optionalDate("updated"),
		Body:    doc.Body,
	}

	if err := fm.err(); err != nil {
		return nil, err
	}
	return page, nil
}

// Slugify converts a title or filename to a URL-safe slug: lowercase
// letters and digits kept, spaces become hyphens, everything else dropped.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// ReadingTime estimates minutes to read at 200 words per minute, minimum 1.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 1
	}
	return int(math.Max(1, math.Ceil(float64(words)/200)))
}

// fieldReader accumulates schema violations while reading typed fields, so
// a single error reports everything wrong with one document.
type fieldReader struct {
	doc      *Document
	problems []string
}

func newFieldReader(doc *Document) *fieldReader {
	fr := &fieldReader{doc: doc}
	if doc.Frontmatter == nil {
		fr.problems = append(fr.problems, "missing frontmatter")
	}
	return fr
}

func (fr *fieldReader) err() error {
	if len(fr.problems) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", fr.doc.Path, strings.Join(fr.problems, "; "))
}

func (fr *fieldReader) slug() string {
	if s := fr.optionalString("slug"); s != "" {
		return Slugify(s)
	}
	base := filepath.Base(fr.doc.Path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return Slugify(base)
}

func (fr *fieldReader) requiredString(key string) string {
	s := fr.optionalString(key)
	if s == "" {
		fr.problems = append(fr.problems, fmt.Sprintf("%s is required", key))
	}
	return s
}

func (fr *fieldReader) optionalString(key string) string {
	if fr.doc.Frontmatter == nil {
		return ""
	}
	v, ok := fr.doc.Frontmatter[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		fr.problems = append(fr.problems, fmt.Sprintf("%s must be a string", key))
		return ""
	}
	return strings.TrimSpace(s)
}

func (fr *fieldReader) requiredDate(key string) time.Time {
	t := fr.optionalDate(key)
	if t.IsZero() && fr.doc.Frontmatter != nil {
		if _, present := fr.doc.Frontmatter[key]; !present {
			fr.problems = append(fr.problems, fmt.Sprintf("%s is required", key))
		}
	}
	return t
}

func (fr *fieldReader) optionalDate(key string) time.Time {
	if fr.doc.Frontmatter == nil {
		return time.Time{}
	}
	v, ok := fr.doc.Frontmatter[key]
	if !ok {
		return time.Time{}
	}

	switch d := v.(type) {
	case time.Time:
		// yaml.v3 decodes unquoted ISO dates natively
		return d
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t
			}
		}
		fr.problems = append(fr.problems, fmt.Sprintf("%s: invalid date %q", key, d))
	default:
		fr.problems = append(fr.problems, fmt.Sprintf("%s must be a date", key))
	}
	return time.Time{}
}

func (fr *fieldReader) stringList(key string) []string {
	if fr.doc.Frontmatter == nil {
		return nil
	}
	v, ok := fr.doc.Frontmatter[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		fr.problems = append(fr.problems, fmt.Sprintf("%s must be a list of strings", key))
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			fr.problems = append(fr.problems, fmt.Sprintf("%s must be a list of strings", key))
			return nil
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (fr *fieldReader) boolean(key string) bool {
	if fr.doc.Frontmatter == nil {
		return false
	}
	v, ok := fr.doc.Frontmatter[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		fr.problems = append(fr.problems, fmt.Sprintf("%s must be a boolean", key))
		return false
	}
	return b
}
