package deploys

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	deployKeyPrefix = "site:deploy:"      // deploy record: site:deploy:{id}
	deployListKey   = "site:deploys"      // sorted set of ids scored by receive time
	deployTTL       = 30 * 24 * time.Hour // keep a month of history
)

// Repo stores deploy records in Redis. Records expire with the TTL; the
// sorted set is trimmed on write so listings never reference dead keys.
type Repo struct {
	client *redis.Client
}

func NewRepo(client *redis.Client) *Repo {
	return &Repo{client: client}
}

// Upsert writes or updates a deploy record. Repeated webhooks for the same
// deploy id (state transitions) overwrite the record and refresh its TTL.
func (r *Repo) Upsert(ctx context.Context, d *Deploy) error {
	if d.ID == "" {
		return fmt.Errorf("deploy id required")
	}
	if d.ReceivedAt.IsZero() {
		d.ReceivedAt = time.Now().UTC()
	}
	d.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal deploy: %w", err)
	}

	cutoff := time.Now().Add(-deployTTL).UnixMilli()

	pipe := r.client.Pipeline()
	pipe.Set(ctx, deployKeyPrefix+d.ID, data, deployTTL)
	pipe.ZAdd(ctx, deployListKey, redis.Z{Score: float64(d.ReceivedAt.UnixMilli()), Member: d.ID})
	pipe.ZRemRangeByScore(ctx, deployListKey, "-inf", fmt.Sprint(cutoff))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store deploy: %w", err)
	}
	return nil
}

// Get returns one deploy record, or nil when unknown or expired.
func (r *Repo) Get(ctx context.Context, id string) (*Deploy, error) {
	data, err := r.client.Get(ctx, deployKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deploy: %w", err)
	}

	var d Deploy
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal deploy: %w", err)
	}
	return &d, nil
}

// List returns recent deploys, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]Deploy, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	ids, err := r.client.ZRevRange(ctx, deployListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list deploys: %w", err)
	}

	out := make([]Deploy, 0, len(ids))
	for _, id := range ids {
		d, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}
