package cache

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often Put scans for expired entries.
const sweepInterval = time.Minute

type memoryStore struct {
	now func() time.Time

	mu        sync.RWMutex
	entries   map[Key]Entry
	lastSweep time.Time
}

// NewMemory returns a process-local Store. Expired entries are evicted on
// lookup, by a sweep on Put at most once per sweepInterval, and in bulk by
// ClearAll.
func NewMemory() Store {
	return &memoryStore{now: time.Now, entries: make(map[Key]Entry)}
}

func (s *memoryStore) Get(_ context.Context, key Key) (Entry, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false, nil
	}
	if !s.now().Before(entry.ExpiresAt) {
		s.mu.Lock()
		// A concurrent Put may have refreshed the entry since the read above.
		if current, still := s.entries[key]; still && !s.now().Before(current.ExpiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return Entry{}, false, nil
	}
	return cloneEntry(entry), true, nil
}

func (s *memoryStore) Put(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := s.now().UTC()
	entry := Entry{
		Key:       key,
		Value:     append([]byte(nil), value...),
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	s.mu.Lock()
	s.entries[key] = entry
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweepLocked(now)
	}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) sweepLocked(now time.Time) {
	for key, entry := range s.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}

func (s *memoryStore) ClearAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := int64(len(s.entries))
	s.entries = make(map[Key]Entry)
	return evicted, nil
}

func (s *memoryStore) Size(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}

func cloneEntry(in Entry) Entry {
	out := in
	out.Value = append([]byte(nil), in.Value...)
	return out
}
