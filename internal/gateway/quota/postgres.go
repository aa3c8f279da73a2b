package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a durable Ledger. One row per quota day holds the spent count;
// the bounded increment is a single statement, so concurrent consumers are
// serialized by the row lock.
type Postgres struct {
	*calendar

	pool        *pgxpool.Pool
	tablePrefix string
}

var _ Ledger = (*Postgres)(nil)

// NewPostgres creates a Postgres-backed ledger. Call EnsureSchema before use.
func NewPostgres(pool *pgxpool.Pool, limit int64, opts ...Option) *Postgres {
	s := newSettings(opts)
	return &Postgres{
		calendar:    newCalendar(s, limit),
		pool:        pool,
		tablePrefix: s.tablePrefix,
	}
}

func (p *Postgres) table() string { return p.tablePrefix + "quota" }

// EnsureSchema creates the counter table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			day DATE PRIMARY KEY,
			used BIGINT NOT NULL DEFAULT 0
		);
	`, p.table())
	if _, err := p.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("quota/postgres: ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) TryConsume(ctx context.Context) (Decision, error) {
	limit := p.DailyLimit()
	if limit <= 0 {
		return Denied, nil
	}
	var used int64
	err := p.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %[1]s AS q (day, used) VALUES ($1::date, 1)
			ON CONFLICT (day) DO UPDATE SET used = q.used + 1
			WHERE q.used < $2
			RETURNING q.used`, p.table()),
		p.Today().Date, limit,
	).Scan(&used)
	if errors.Is(err, pgx.ErrNoRows) {
		return Denied, nil
	}
	if err != nil {
		return Denied, fmt.Errorf("quota/postgres: consume: %w", err)
	}
	return Allowed, nil
}

func (p *Postgres) UsedToday(ctx context.Context) (int64, error) {
	var used int64
	err := p.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT used FROM %s WHERE day = $1::date`, p.table()),
		p.Today().Date,
	).Scan(&used)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota/postgres: used: %w", err)
	}
	return used, nil
}

func (p *Postgres) Remaining(ctx context.Context) (int64, error) {
	used, err := p.UsedToday(ctx)
	if err != nil {
		return 0, err
	}
	return remainingOf(p.DailyLimit(), used), nil
}

// Prune forgets counters for days before the current quota day.
func (p *Postgres) Prune(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE day < $1::date`, p.table()),
		p.Today().Date,
	)
	if err != nil {
		return 0, fmt.Errorf("quota/postgres: prune: %w", err)
	}
	return tag.RowsAffected(), nil
}
