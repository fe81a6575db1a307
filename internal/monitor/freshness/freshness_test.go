package freshness

import (
	"testing"
	"time"

	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleIndex() *content.Index {
	return &content.Index{
		Posts: []*content.BlogPost{
			{Slug: "fresh-post", Title: "Fresh", Date: day("2026-08-01")},
			{Slug: "old-post", Title: "Old", Date: day("2024-01-10")},
			{Slug: "revised-post", Title: "Revised", Date: day("2023-05-01"), Updated: day("2026-07-15")},
		},
		Projects: []*content.Project{
			{Slug: "recent-project", Title: "Recent", Date: day("2026-02-01")},
			{Slug: "abandoned-project", Title: "Abandoned", Date: day("2023-03-01")},
		},
		Pages: map[string]*content.Page{
			"about":  {Slug: "about", Title: "About", Updated: day("2026-06-01")},
			"resume": {Slug: "resume", Title: "Resume"},
		},
	}
}

func TestCheckFlagsStaleEntries(t *testing.T) {
	now := day("2026-08-27")
	report := Check(sampleIndex(), DefaultThresholds, now)

	assert.Equal(t, 7, report.Total)
	require.Len(t, report.Stale, 2)

	// Oldest first.
	assert.Equal(t, "abandoned-project", report.Stale[0].Slug)
	assert.Equal(t, "old-post", report.Stale[1].Slug)
}

func TestUpdatedDateCountsAsTouch(t *testing.T) {
	now := day("2026-08-27")
	report := Check(sampleIndex(), DefaultThresholds, now)

	for _, e := range report.Stale {
		assert.NotEqual(t, "revised-post", e.Slug)
	}
}

func TestUndatedPageSkipped(t *testing.T) {
	now := day("2030-01-01")
	report := Check(sampleIndex(), DefaultThresholds, now)

	for _, e := range report.Stale {
		assert.NotEqual(t, "resume", e.Slug)
	}
}

func TestZeroThresholdDisablesCollection(t *testing.T) {
	now := day("2026-08-27")
	th := DefaultThresholds
	th.Project = 0
	report := Check(sampleIndex(), th, now)

	require.Len(t, report.Stale, 1)
	assert.Equal(t, "old-post", report.Stale[0].Slug)
}

func TestTextReport(t *testing.T) {
	now := day("2026-08-27")
	report := Check(sampleIndex(), DefaultThresholds, now)

	text := report.Text()
	assert.Contains(t, text, "checked 7 entries, 2 stale")
	assert.Contains(t, text, "old-post")
	assert.Contains(t, text, "2024-01-10")
}

func TestJSONReport(t *testing.T) {
	now := day("2026-08-27")
	report := Check(sampleIndex(), DefaultThresholds, now)

	data, err := report.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stale"`)
	assert.Contains(t, string(data), `"abandoned-project"`)
}
