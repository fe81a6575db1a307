package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Index is the validated, sorted view of all content. It is immutable once
// built; the server swaps whole indexes on rebuild.
type Index struct {
	Projects []*Project
	Posts    []*BlogPost
	Pages    map[string]*Page
	BuiltAt  time.Time

	projectsBySlug map[string]*Project
	postsBySlug    map[string]*BlogPost
}

// BuildOptions control which documents make it into the index.
type BuildOptions struct {
	Root          string
	IncludeDrafts bool
}

// Build walks the content root and assembles a new index. Collection
// directories are projects/ and blog/; everything else at the top level is
// treated as a singleton page. Invalid documents fail the whole build so a
// bad commit never half-publishes.
func Build(opts BuildOptions) (*Index, error) {
	idx := &Index{
		Pages:          map[string]*Page{},
		BuiltAt:        time.Now().UTC(),
		projectsBySlug: map[string]*Project{},
		postsBySlug:    map[string]*BlogPost{},
	}

	err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		doc, err := Parse(path, raw)
		if err != nil {
			return err
		}

		switch collectionOf(opts.Root, path) {
		case CollectionProjects:
			p, err := ProjectFromDocument(doc)
			if err != nil {
				return err
			}
			if p.Draft && !opts.IncludeDrafts {
				return nil
			}
			if dup, ok := idx.projectsBySlug[p.Slug]; ok {
				return fmt.Errorf("%s: duplicate project slug %q (also %s)", path, p.Slug, dup.Title)
			}
			idx.projectsBySlug[p.Slug] = p
			idx.Projects = append(idx.Projects, p)
		case CollectionBlog:
			post, err := PostFromDocument(doc)
			if err != nil {
				return err
			}
			if post.Draft && !opts.IncludeDrafts {
				return nil
			}
			if dup, ok := idx.postsBySlug[post.Slug]; ok {
				return fmt.Errorf("%s: duplicate post slug %q (also %s)", path, post.Slug, dup.Title)
			}
			idx.postsBySlug[post.Slug] = post
			idx.Posts = append(idx.Posts, post)
		default:
			page, err := PageFromDocument(doc)
			if err != nil {
				return err
			}
			idx.Pages[page.Slug] = page
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Posts newest first; projects featured first, then newest.
	sort.Slice(idx.Posts, func(i, j int) bool {
		return idx.Posts[i].Date.After(idx.Posts[j].Date)
	})
	sort.Slice(idx.Projects, func(i, j int) bool {
		a, b := idx.Projects[i], idx.Projects[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		return a.Date.After(b.Date)
	})

	return idx, nil
}

// ProjectBySlug returns the project with the given slug, if any.
func (idx *Index) ProjectBySlug(slug string) (*Project, bool) {
	p, ok := idx.projectsBySlug[slug]
	return p, ok
}

// PostBySlug returns the blog post with the given slug, if any.
func (idx *Index) PostBySlug(slug string) (*BlogPost, bool) {
	p, ok := idx.postsBySlug[slug]
	return p, ok
}

// Page returns the singleton page with the given slug, if any.
func (idx *Index) Page(slug string) (*Page, bool) {
	p, ok := idx.Pages[slug]
	return p, ok
}

// WriteFiles serializes the collection indexes to JSON files under dir,
// matching the generated index artifacts the deploy pipeline consumes.
func (idx *Index) WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	files := map[string]any{
		"projects.json": idx.Projects,
		"posts.json":    idx.Posts,
	}
	for name, v := range files {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdx", ".markdown":
		return true
	}
	return false
}

func collectionOf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return CollectionPages
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return CollectionPages
	}
	switch parts[0] {
	case CollectionProjects:
		return CollectionProjects
	case CollectionBlog:
		return CollectionBlog
	}
	return CollectionPages
}

// Store holds the current index and lets the server swap it atomically when
// the watcher or an admin reindex triggers a rebuild.
type Store struct {
	mu   sync.RWMutex
	idx  *Index
	opts BuildOptions
}

// NewStore builds the initial index and returns a store around it.
func NewStore(opts BuildOptions) (*Store, error) {
	idx, err := Build(opts)
	if err != nil {
		return nil, err
	}
	return &Store{idx: idx, opts: opts}, nil
}

// Current returns the active index.
func (s *Store) Current() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}

// Rebuild constructs a fresh index and swaps it in. A failed build keeps
// the previous index serving.
func (s *Store) Rebuild() (*Index, error) {
	idx, err := Build(s.opts)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.idx = idx
	s.mu.Unlock()
	log.Printf("[content] index rebuilt: %d projects, %d posts, %d pages",
		len(idx.Projects), len(idx.Posts), len(idx.Pages))
	return idx, nil
}
