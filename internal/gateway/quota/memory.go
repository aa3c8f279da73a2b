package quota

import (
	"context"
	"sync"
)

// Memory is a process-local Ledger. The counter resets the first time it is
// touched on a new quota day.
type Memory struct {
	*calendar

	mu   sync.Mutex
	date string
	used int64
}

var _ Ledger = (*Memory)(nil)

// NewMemory creates an in-memory ledger with the given daily limit.
func NewMemory(limit int64, opts ...Option) *Memory {
	return &Memory{calendar: newCalendar(newSettings(opts), limit)}
}

func (m *Memory) TryConsume(_ context.Context) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()
	if m.used >= m.DailyLimit() {
		return Denied, nil
	}
	m.used++
	return Allowed, nil
}

func (m *Memory) UsedToday(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()
	return m.used, nil
}

func (m *Memory) Remaining(ctx context.Context) (int64, error) {
	used, err := m.UsedToday(ctx)
	if err != nil {
		return 0, err
	}
	return remainingOf(m.DailyLimit(), used), nil
}

// rollover must be called with mu held.
func (m *Memory) rollover() {
	if today := m.Today().Date; today != m.date {
		m.date = today
		m.used = 0
	}
}
