package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	study "github.com/theodore333/vayne-study-sub002/internal/modules/study"
	"github.com/theodore333/vayne-study-sub002/internal/platform/logger"
)

// PlanCache keeps computed daily plans in Redis so repeat requests for the
// same snapshot and day are served without replanning. A nil client disables
// caching entirely; every method is safe to call on the disabled cache.
type PlanCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewPlanCache connects to addr. Empty addr returns a disabled cache.
func NewPlanCache(log *logger.Logger, addr string, ttl time.Duration) *PlanCache {
	c := &PlanCache{ttl: ttl, log: log.With("component", "PlanCache")}
	if addr == "" {
		return c
	}
	c.rdb = redis.NewClient(&redis.Options{Addr: addr})
	return c
}

func (c *PlanCache) Enabled() bool { return c != nil && c.rdb != nil }

// Ping verifies the connection. Disabled caches report healthy.
func (c *PlanCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *PlanCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

func (c *PlanCache) Get(ctx context.Context, key string) (*study.DailyPlan, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", "error", err)
		}
		return nil, false
	}
	var plan study.DailyPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		c.log.Warn("cache entry corrupt, dropping", "key", key, "error", err)
		c.rdb.Del(ctx, key)
		return nil, false
	}
	return &plan, true
}

func (c *PlanCache) Put(ctx context.Context, key string, plan *study.DailyPlan) {
	if !c.Enabled() || plan == nil {
		return
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache put failed", "error", err)
	}
}

// PlanKey digests the planning inputs for the given day. Any change to the
// snapshot, goals, or day status produces a new key, so stale plans are never
// returned after an edit.
func PlanKey(now time.Time, in study.PlanInput) string {
	h := sha256.New()
	h.Write([]byte(now.Format("2006-01-02")))
	enc := json.NewEncoder(h)
	enc.Encode(in.Goals)
	enc.Encode(in.Status)
	enc.Encode(in.Subjects)
	return "plan:" + hex.EncodeToString(h.Sum(nil))
}
