package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LighthouseRun is one audited URL at one point in time.
type LighthouseRun struct {
	ID             int64     `json:"id"`
	URL            string    `json:"url"`
	Performance    float64   `json:"performance"`
	Accessibility  float64   `json:"accessibility"`
	BestPractices  float64   `json:"best_practices"`
	SEO            float64   `json:"seo"`
	LighthouseVer  string    `json:"lighthouse_version"`
	FetchedAt      time.Time `json:"fetched_at"`
	BudgetViolated bool      `json:"budget_violated"`
}

type LighthouseStore struct {
	db *pgxpool.Pool
}

func NewLighthouseStore(db *pgxpool.Pool) *LighthouseStore {
	return &LighthouseStore{db: db}
}

func (s *LighthouseStore) Insert(ctx context.Context, run *LighthouseRun) error {
	if run.FetchedAt.IsZero() {
		run.FetchedAt = time.Now().UTC()
	}

	const q = `
insert into lighthouse_runs
  (url, performance, accessibility, best_practices, seo, lighthouse_version, budget_violated, fetched_at)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id;
`
	err := s.db.QueryRow(ctx, q,
		run.URL, run.Performance, run.Accessibility, run.BestPractices,
		run.SEO, run.LighthouseVer, run.BudgetViolated, run.FetchedAt).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("insert lighthouse run: %w", err)
	}
	return nil
}

// History returns recent runs for one URL, newest first, for regression
// comparison.
func (s *LighthouseStore) History(ctx context.Context, url string, limit int) ([]LighthouseRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	const q = `
select id, url, performance, accessibility, best_practices, seo, lighthouse_version, budget_violated, fetched_at
from lighthouse_runs
where url = $1
order by fetched_at desc
limit $2;
`
	rows, err := s.db.Query(ctx, q, url, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LighthouseRun, 0, limit)
	for rows.Next() {
		var r LighthouseRun
		if err := rows.Scan(&r.ID, &r.URL, &r.Performance, &r.Accessibility,
			&r.BestPractices, &r.SEO, &r.LighthouseVer, &r.BudgetViolated, &r.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
