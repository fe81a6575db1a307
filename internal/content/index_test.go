package content

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContentTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func sampleTree(t *testing.T) string {
	return writeContentTree(t, map[string]string{
		"projects/churn.md": `---
title: Churn Model
description: d
date: 2024-03-10
---
body`,
		"projects/sales-dashboard.md": `---
title: Sales Dashboard
description: d
date: 2023-06-01
featured: true
---
body`,
		"projects/wip.md": `---
title: WIP
description: d
date: 2025-01-01
draft: true
---
body`,
		"blog/newest.md": `---
title: Newest
description: d
date: 2024-05-05
---
body`,
		"blog/oldest.md": `---
title: Oldest
description: d
date: 2022-01-01
---
body`,
		"about.md":  "---\ntitle: About\n---\nhi",
		"resume.md": "---\ntitle: Resume\n---\ncv",
	})
}

func TestBuildIndex(t *testing.T) {
	idx, err := Build(BuildOptions{Root: sampleTree(t)})
	require.NoError(t, err)

	// Drafts are excluded, featured project sorts first, posts newest first.
	require.Len(t, idx.Projects, 2)
	assert.Equal(t, "sales-dashboard", idx.Projects[0].Slug)
	assert.Equal(t, "churn", idx.Projects[1].Slug)

	require.Len(t, idx.Posts, 2)
	assert.Equal(t, "newest", idx.Posts[0].Slug)

	_, ok := idx.Page("about")
	assert.True(t, ok)
	_, ok = idx.Page("resume")
	assert.True(t, ok)

	_, ok = idx.ProjectBySlug("wip")
	assert.False(t, ok)
}

func TestBuildIncludesDraftsInDevelopment(t *testing.T) {
	idx, err := Build(BuildOptions{Root: sampleTree(t), IncludeDrafts: true})
	require.NoError(t, err)

	assert.Len(t, idx.Projects, 3)
	_, ok := idx.ProjectBySlug("wip")
	assert.True(t, ok)
}

func TestBuildDuplicateSlugFails(t *testing.T) {
	root := writeContentTree(t, map[string]string{
		"blog/a.md": "---\ntitle: A\ndescription: d\ndate: 2024-01-01\nslug: same\n---\nx",
		"blog/b.md": "---\ntitle: B\ndescription: d\ndate: 2024-01-02\nslug: same\n---\nx",
	})

	_, err := Build(BuildOptions{Root: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate post slug")
}

func TestBuildInvalidDocumentFailsWholeBuild(t *testing.T) {
	root := writeContentTree(t, map[string]string{
		"blog/good.md": "---\ntitle: Good\ndescription: d\ndate: 2024-01-01\n---\nx",
		"blog/bad.md":  "---\ntitle: Bad\n---\nx",
	})

	_, err := Build(BuildOptions{Root: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.md")
}

func TestWriteFiles(t *testing.T) {
	idx, err := Build(BuildOptions{Root: sampleTree(t)})
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, idx.WriteFiles(out))

	data, err := os.ReadFile(filepath.Join(out, "posts.json"))
	require.NoError(t, err)

	var posts []map[string]any
	require.NoError(t, json.Unmarshal(data, &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "newest", posts[0]["slug"])
	assert.EqualValues(t, 1, posts[0]["reading_time_minutes"])
}

func TestStoreRebuildKeepsOldIndexOnFailure(t *testing.T) {
	root := sampleTree(t)
	store, err := NewStore(BuildOptions{Root: root})
	require.NoError(t, err)

	before := store.Current()

	// Corrupt a file, rebuild must fail and keep serving the old index.
	require.NoError(t, os.WriteFile(filepath.Join(root, "blog", "newest.md"), []byte("---\ntitle: X\n---\nx"), 0o644))

	_, err = store.Rebuild()
	require.Error(t, err)
	assert.Same(t, before, store.Current())
}
