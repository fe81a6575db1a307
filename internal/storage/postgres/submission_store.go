// Package postgres holds the durable stores: accepted contact submissions
// and Lighthouse run history.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Submission is an accepted (non-spam) contact form entry.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	RemoteIP  string    `json:"remote_ip"`
	SpamScore int       `json:"spam_score"`
	SpamHits  []byte    `json:"spam_hits,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SubmissionStore struct {
	db *pgxpool.Pool
}

func NewSubmissionStore(db *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// Insert stores an accepted submission; hits keeps the below-threshold rule
// findings for later inbox triage.
func (s *SubmissionStore) Insert(ctx context.Context, sub *Submission, hits any) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	hitsJSON, err := json.Marshal(hits)
	if err != nil {
		return fmt.Errorf("marshal spam hits: %w", err)
	}

	const q = `
insert into contact_submissions (id, name, email, message, remote_ip, spam_score, spam_hits, created_at)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8);
`
	_, err = s.db.Exec(ctx, q,
		sub.ID, sub.Name, sub.Email, sub.Message, sub.RemoteIP, sub.SpamScore, hitsJSON, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// List returns the newest submissions for the admin inbox.
func (s *SubmissionStore) List(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	const q = `
select id, name, email, message, remote_ip, spam_score, spam_hits, created_at
from contact_submissions
order by created_at desc
limit $1;
`
	rows, err := s.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Submission, 0, limit)
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Message,
			&sub.RemoteIP, &sub.SpamScore, &sub.SpamHits, &sub.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
