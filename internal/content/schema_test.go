package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, path, raw string) *Document {
	t.Helper()
	doc, err := Parse(path, []byte(raw))
	require.NoError(t, err)
	return doc
}

func TestProjectFromDocument(t *testing.T) {
	doc := parseDoc(t, "content/projects/churn-model.md", `---
title: Customer Churn Model
description: Predicting churn with gradient boosting
date: 2024-03-10
tags: [ml, churn]
tech: [python, xgboost]
repo_url: https://github.com/example/churn
featured: true
---
Body.
`)

	p, err := ProjectFromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, "churn-model", p.Slug)
	assert.Equal(t, "Customer Churn Model", p.Title)
	assert.Equal(t, 2024, p.Date.Year())
	assert.Equal(t, []string{"ml", "churn"}, p.Tags)
	assert.Equal(t, []string{"python", "xgboost"}, p.Tech)
	assert.True(t, p.Featured)
	assert.False(t, p.Draft)
}

func TestProjectMissingFields(t *testing.T) {
	doc := parseDoc(t, "content/projects/bad.md", "---\ntags: [x]\n---\nbody")

	_, err := ProjectFromDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "description is required")
	assert.Contains(t, err.Error(), "date is required")
}

func TestProjectNoFrontmatter(t *testing.T) {
	doc := parseDoc(t, "content/projects/plain.md", "no metadata here")

	_, err := ProjectFromDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing frontmatter")
}

func TestPostFromDocument(t *testing.T) {
	doc := parseDoc(t, "content/blog/intro-to-sql.mdx", `---
title: Intro to SQL
description: Window functions explained
date: 2023-11-02
updated: 2024-01-15
draft: false
---
`+loremWords(450))

	post, err := PostFromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, "intro-to-sql", post.Slug)
	assert.Equal(t, time.January, post.Updated.Month())
	// 450 words at 200 wpm rounds up to 3 minutes
	assert.Equal(t, 3, post.ReadingTime)
}

func TestPostInvalidDate(t *testing.T) {
	doc := parseDoc(t, "content/blog/bad-date.md", "---\ntitle: X\ndescription: Y\ndate: \"03/10/2024\"\n---\nbody")

	_, err := PostFromDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestPostExplicitSlugWins(t *testing.T) {
	doc := parseDoc(t, "content/blog/2024-01-01-some-file.md", "---\ntitle: X\ndescription: Y\ndate: 2024-01-01\nslug: Custom Slug Here\n---\nbody")

	post, err := PostFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "custom-slug-here", post.Slug)
}

func TestUnknownKeysIgnored(t *testing.T) {
	doc := parseDoc(t, "content/blog/extra.md", "---\ntitle: X\ndescription: Y\ndate: 2024-01-01\nlegacy_netlify_id: abc123\n---\nbody")

	_, err := PostFromDocument(doc)
	assert.NoError(t, err)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":        "hello-world",
		"My App 2.0!":        "my-app-20",
		"  spaced  ":         "spaced",
		"under_score_name":   "under-score-name",
		"Ünïcödé Dropped":    "ncd-dropped",
		"already-slugged-ok": "already-slugged-ok",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("three little words"))
	assert.Equal(t, 2, ReadingTime(loremWords(201)))
	assert.Equal(t, 5, ReadingTime(loremWords(1000)))
}

func loremWords(n int) string {
	out := make([]byte, 0, n*5)
	for i := 0; i < n; i++ {
		out = append(out, "word "...)
	}
	return string(out)
}
