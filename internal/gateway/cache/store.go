package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is a cached, already-normalized upstream response. Key records the
// full identity the entry was stored under.
type Entry struct {
	Key       Key             `json:"key"`
	Value     json.RawMessage `json:"value"`
	StoredAt  time.Time       `json:"storedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Store is the gateway's key/value cache with per-entry expiry. The pricing
// table is the same for every tenant, so a store holds one global namespace.
type Store interface {
	// Get returns the entry only while it is unexpired.
	Get(ctx context.Context, key Key) (Entry, bool, error)
	// Put overwrites the entry for key and resets its expiry to now+ttl.
	Put(ctx context.Context, key Key, value []byte, ttl time.Duration) error
	// ClearAll evicts every entry and reports how many were removed.
	ClearAll(ctx context.Context) (int64, error)
	Size(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}
