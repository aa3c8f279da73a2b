// Package quota accounts for the upstream pricing API's daily call budget.
// Every ledger enforces 0 <= used <= limit atomically, so N concurrent
// TryConsume calls on one day allow exactly min(N, limit-used) of them.
package quota

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultTimezone is the provider's quota-reset timezone.
const DefaultTimezone = "America/Sao_Paulo"

// Decision is the outcome of a TryConsume call.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Ledger is the shared counter of upstream calls issued today.
type Ledger interface {
	// TryConsume spends one unit if the day still has budget. It is the only
	// operation that must be linearizable.
	TryConsume(ctx context.Context) (Decision, error)
	// UsedToday reports how many units the current day has spent.
	UsedToday(ctx context.Context) (int64, error)
	// Remaining reports limit-used, floored at zero.
	Remaining(ctx context.Context) (int64, error)
	DailyLimit() int64
	SetDailyLimit(limit int64)
	// Today returns the current quota day.
	Today() Day
}

// Day is one quota period in the provider's timezone.
type Day struct {
	Date  string
	Start time.Time
	End   time.Time
}

type settings struct {
	now         func() time.Time
	location    *time.Location
	keyPrefix   string
	tablePrefix string
}

// Option configures a ledger.
type Option func(*settings)

// WithClock overrides the ledger's time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the timezone in which quota days begin.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithKeyPrefix sets the Redis key prefix (default "fipegate:quota:").
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// WithTablePrefix sets the Postgres table prefix (default "fipegate_").
func WithTablePrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" {
			s.tablePrefix = prefix
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		now:         time.Now,
		location:    ProviderLocation(DefaultTimezone),
		keyPrefix:   "fipegate:quota:",
		tablePrefix: "fipegate_",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// ProviderLocation loads name, falling back to a fixed UTC-3 zone when the
// host has no tz database entry for it.
func ProviderLocation(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*60*60)
}

// calendar is embedded by every ledger and owns the limit and the clock.
type calendar struct {
	now      func() time.Time
	location *time.Location
	limit    atomic.Int64
}

func newCalendar(s settings, limit int64) *calendar {
	c := &calendar{now: s.now, location: s.location}
	c.limit.Store(clampLimit(limit))
	return c
}

func (c *calendar) Today() Day {
	local := c.now().In(c.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.location)
	return Day{
		Date:  start.Format(time.DateOnly),
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}

func (c *calendar) DailyLimit() int64 {
	return c.limit.Load()
}

func (c *calendar) SetDailyLimit(limit int64) {
	c.limit.Store(clampLimit(limit))
}

func clampLimit(limit int64) int64 {
	if limit < 0 {
		return 0
	}
	return limit
}

func remainingOf(limit, used int64) int64 {
	if used >= limit {
		return 0
	}
	return limit - used
}
