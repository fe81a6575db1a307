// Package freshness flags content that has gone stale so the site owner
// knows what to revisit before readers notice.
package freshness

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dsfolio/dsfolio/internal/content"
)

// Thresholds define how old an entry may get before it is flagged.
type Thresholds struct {
	Post    time.Duration
	Project time.Duration
	Page    time.Duration
}

// DefaultThresholds: posts age fastest, evergreen pages slowest.
var DefaultThresholds = Thresholds{
	Post:    180 * 24 * time.Hour,
	Project: 365 * 24 * time.Hour,
	Page:    365 * 24 * time.Hour,
}

// Entry is one stale item in the report.
type Entry struct {
	Collection string    `json:"collection"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	LastTouch  time.Time `json:"last_touch"`
	AgeDays    int       `json:"age_days"`
}

// Report lists stale entries, oldest first.
type Report struct {
	CheckedAt time.Time `json:"checked_at"`
	Total     int       `json:"total_entries"`
	Stale     []Entry   `json:"stale"`
}

// Check scans the index against the thresholds. A post's Updated date
// counts as its last touch when set, otherwise its publish date.
func Check(idx *content.Index, th Thresholds, now time.Time) *Report {
	report := &Report{CheckedAt: now.UTC()}

	for _, p := range idx.Posts {
		report.Total++
		touch := p.Date
		if !p.Updated.IsZero() {
			touch = p.Updated
		}
		addIfStale(report, now, th.Post, Entry{
			Collection: content.CollectionBlog,
			Slug:       p.Slug,
			Title:      p.Title,
			LastTouch:  touch,
		})
	}

	for _, p := range idx.Projects {
		report.Total++
		addIfStale(report, now, th.Project, Entry{
			Collection: content.CollectionProjects,
			Slug:       p.Slug,
			Title:      p.Title,
			LastTouch:  p.Date,
		})
	}

	for _, p := range idx.Pages {
		report.Total++
		if p.Updated.IsZero() {
			continue // no date to judge by
		}
		addIfStale(report, now, th.Page, Entry{
			Collection: content.CollectionPages,
			Slug:       p.Slug,
			Title:      p.Title,
			LastTouch:  p.Updated,
		})
	}

	sort.Slice(report.Stale, func(i, j int) bool {
		return report.Stale[i].LastTouch.Before(report.Stale[j].LastTouch)
	})
	return report
}

func addIfStale(r *Report, now time.Time, limit time.Duration, e Entry) {
	if limit <= 0 || e.LastTouch.IsZero() {
		return
	}
	age := now.Sub(e.LastTouch)
	if age <= limit {
		return
	}
	e.AgeDays = int(age.Hours() / 24)
	r.Stale = append(r.Stale, e)
}

// Text renders the report for terminal use.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "checked %d entries, %d stale\n", r.Total, len(r.Stale))
	for _, e := range r.Stale {
		fmt.Fprintf(&b, "  %-9s %-30s last touched %s (%d days ago)\n",
			e.Collection, e.Slug, e.LastTouch.Format("2006-01-02"), e.AgeDays)
	}
	return b.String()
}

// JSON renders the report for machine use.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
