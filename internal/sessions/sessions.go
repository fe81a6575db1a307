// Package sessions keeps lightweight visitor bookkeeping for the admin
// dashboard: first/last seen, page view counts, and referrer per session
// cookie. Records live in Redis with a sliding TTL.
package sessions

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	CookieName = "sid"

	sessionKeyPrefix = "site:session:" // hash per session: site:session:{sid}
	sessionSetKey    = "site:sessions" // sorted set of sids scored by last-seen
	sessionTTL       = 30 * time.Minute
)

// Session is a summarized visitor record.
type Session struct {
	ID        string    `json:"id"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	PageViews int64     `json:"page_views"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

type Repo struct {
	client *redis.Client
}

func NewRepo(client *redis.Client) *Repo {
	return &Repo{client: client}
}

// Touch records one page view, creating the session hash on first sight
// and refreshing the sliding TTL.
func (r *Repo) Touch(ctx context.Context, sid, referrer, userAgent string) error {
	now := time.Now().UTC()
	key := sessionKeyPrefix + sid

	pipe := r.client.Pipeline()
	pipe.HSetNX(ctx, key, "first_seen", now.Format(time.RFC3339))
	pipe.HSetNX(ctx, key, "referrer", truncate(referrer, 200))
	pipe.HSetNX(ctx, key, "user_agent", truncate(userAgent, 80))
	pipe.HSet(ctx, key, "last_seen", now.Format(time.RFC3339))
	pipe.HIncrBy(ctx, key, "page_views", 1)
	pipe.Expire(ctx, key, sessionTTL)
	pipe.ZAdd(ctx, sessionSetKey, redis.Z{Score: float64(now.UnixMilli()), Member: sid})
	pipe.ZRemRangeByScore(ctx, sessionSetKey, "-inf",
		fmt.Sprint(now.Add(-sessionTTL).UnixMilli()))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Active returns sessions seen within the TTL window, most recent first.
func (r *Repo) Active(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	sids, err := r.client.ZRevRange(ctx, sessionSetKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]Session, 0, len(sids))
	for _, sid := range sids {
		fields, err := r.client.HGetAll(ctx, sessionKeyPrefix+sid).Result()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue // expired between ZRANGE and HGETALL
		}

		s := Session{
			ID:        sid,
			Referrer:  fields["referrer"],
			UserAgent: fields["user_agent"],
		}
		s.FirstSeen, _ = time.Parse(time.RFC3339, fields["first_seen"])
		s.LastSeen, _ = time.Parse(time.RFC3339, fields["last_seen"])
		s.PageViews, _ = strconv.ParseInt(fields["page_views"], 10, 64)
		out = append(out, s)
	}
	return out, nil
}

// Middleware issues the session cookie and records page views. Only HTML
// page routes should mount it; API and asset routes stay untracked.
func Middleware(repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(CookieName)
		if err != nil || sid == "" {
			sid = uuid.New().String()
			c.SetCookie(CookieName, sid, int(sessionTTL.Seconds()), "/", "", false, true)
		}

		if err := repo.Touch(c.Request.Context(), sid, c.Request.Referer(), c.Request.UserAgent()); err != nil {
			// Bookkeeping must never block a page render.
			log.Printf("[sessions] touch failed: %v", err)
		}

		c.Next()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
