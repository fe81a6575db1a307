// Package lighthouse runs the Lighthouse CLI against site URLs, records
// category scores, and flags regressions against the performance budget.
package lighthouse

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"time"

	"github.com/dsfolio/dsfolio/internal/storage/postgres"
	"golang.org/x/time/rate"
)

// Budget holds the minimum acceptable category scores (0..1).
type Budget struct {
	Performance   float64
	Accessibility float64
	BestPractices float64
	SEO           float64
}

// DefaultBudget matches the thresholds the old deploy pipeline enforced.
var DefaultBudget = Budget{
	Performance:   0.90,
	Accessibility: 0.95,
	BestPractices: 0.90,
	SEO:           0.95,
}

// Store persists runs; nil disables history.
type Store interface {
	Insert(ctx context.Context, run *postgres.LighthouseRun) error
}

// Runner invokes the CLI. URLs are audited one at a time behind a token
// bucket so a long URL list cannot hammer the target site.
type Runner struct {
	Bin     string
	Budget  Budget
	Store   Store
	Limiter *rate.Limiter

	// execCommand is swapped in tests.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewRunner(bin string, budget Budget, store Store) *Runner {
	if bin == "" {
		bin = "lighthouse"
	}
	return &Runner{
		Bin:         bin,
		Budget:      budget,
		Store:       store,
		Limiter:     rate.NewLimiter(rate.Every(10*time.Second), 1),
		execCommand: exec.CommandContext,
	}
}

// Violation is one category under budget.
type Violation struct {
	URL      string  `json:"url"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Minimum  float64 `json:"minimum"`
}

// Report summarizes one invocation over all URLs.
type Report struct {
	Runs       []postgres.LighthouseRun `json:"runs"`
	Violations []Violation              `json:"violations,omitempty"`
}

// Failed reports whether any category came in under budget.
func (r *Report) Failed() bool { return len(r.Violations) > 0 }

// Audit runs Lighthouse for each URL, stores the scores, and collects
// budget violations. A CLI failure for one URL fails the whole audit:
// partial reports hide regressions.
func (r *Runner) Audit(ctx context.Context, urls []string) (*Report, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs configured (set LIGHTHOUSE_URLS)")
	}

	report := &Report{}
	for _, url := range urls {
		if err := r.Limiter.Wait(ctx); err != nil {
			return nil, err
		}

		run, err := r.auditOne(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("lighthouse %s: %w", url, err)
		}

		violations := r.checkBudget(run)
		run.BudgetViolated = len(violations) > 0
		report.Violations = append(report.Violations, violations...)

		if r.Store != nil {
			if err := r.Store.Insert(ctx, run); err != nil {
				return nil, fmt.Errorf("store run for %s: %w", url, err)
			}
		}
		report.Runs = append(report.Runs, *run)

		log.Printf("[lighthouse] %s perf=%.2f a11y=%.2f bp=%.2f seo=%.2f",
			url, run.Performance, run.Accessibility, run.BestPractices, run.SEO)
	}

	return report, nil
}

// cliReport is the subset of the Lighthouse JSON output we consume.
type cliReport struct {
	LighthouseVersion string `json:"lighthouseVersion"`
	Categories        map[string]struct {
		Score float64 `json:"score"`
	} `json:"categories"`
}

func (r *Runner) auditOne(ctx context.Context, url string) (*postgres.LighthouseRun, error) {
	cmd := r.execCommand(ctx, r.Bin, url,
		"--output=json", "--quiet", "--chrome-flags=--headless --no-sandbox")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("run cli: %w", err)
	}

	var parsed cliReport
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}

	run := &postgres.LighthouseRun{
		URL:           url,
		LighthouseVer: parsed.LighthouseVersion,
		FetchedAt:     time.Now().UTC(),
	}
	run.Performance = parsed.Categories["performance"].Score
	run.Accessibility = parsed.Categories["accessibility"].Score
	run.BestPractices = parsed.Categories["best-practices"].Score
	run.SEO = parsed.Categories["seo"].Score
	return run, nil
}

func (r *Runner) checkBudget(run *postgres.LighthouseRun) []Violation {
	var out []Violation
	check := func(category string, score, minimum float64) {
		if minimum > 0 && score < minimum {
			out = append(out, Violation{URL: run.URL, Category: category, Score: score, Minimum: minimum})
		}
	}
	check("performance", run.Performance, r.Budget.Performance)
	check("accessibility", run.Accessibility, r.Budget.Accessibility)
	check("best-practices", run.BestPractices, r.Budget.BestPractices)
	check("seo", run.SEO, r.Budget.SEO)
	return out
}
