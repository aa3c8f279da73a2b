package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis is a Ledger shared across gateway instances. Each quota day lives in
// its own counter key, which expires a day after the quota day ends.
type Redis struct {
	*calendar

	client    goredis.Cmdable
	keyPrefix string
}

var _ Ledger = (*Redis)(nil)

// consumeScript increments the day counter only while it is below the limit.
// KEYS[1] = day counter
// ARGV[1] = daily limit
// ARGV[2] = counter ttl in milliseconds
//
// Returns the new count, or -1 when the limit is already reached.
var consumeScript = goredis.NewScript(`
local used = tonumber(redis.call("GET", KEYS[1]) or "0")
local limit = tonumber(ARGV[1])
if used >= limit then
    return -1
end
used = redis.call("INCR", KEYS[1])
if used == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return used
`)

// NewRedis creates a Redis-backed ledger. The client must already be
// connected; the ledger does not close it.
func NewRedis(client goredis.Cmdable, limit int64, opts ...Option) *Redis {
	s := newSettings(opts)
	return &Redis{
		calendar:  newCalendar(s, limit),
		client:    client,
		keyPrefix: s.keyPrefix,
	}
}

func (r *Redis) dayKey(day Day) string {
	return r.keyPrefix + day.Date
}

func (r *Redis) TryConsume(ctx context.Context) (Decision, error) {
	day := r.Today()
	ttl := day.End.Sub(r.now()) + 24*time.Hour
	result, err := consumeScript.Run(ctx, r.client,
		[]string{r.dayKey(day)},
		r.DailyLimit(), ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return Denied, fmt.Errorf("quota/redis: consume: %w", err)
	}
	if result < 0 {
		return Denied, nil
	}
	return Allowed, nil
}

func (r *Redis) UsedToday(ctx context.Context) (int64, error) {
	used, err := r.client.Get(ctx, r.dayKey(r.Today())).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota/redis: used: %w", err)
	}
	return used, nil
}

func (r *Redis) Remaining(ctx context.Context) (int64, error) {
	used, err := r.UsedToday(ctx)
	if err != nil {
		return 0, err
	}
	return remainingOf(r.DailyLimit(), used), nil
}
