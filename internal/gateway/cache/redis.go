package cache

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

const (
	defaultNamespace = "fipegate:cache:v1"
	scanBatch        = 500
)

type RedisTLSConfig struct {
	Enabled bool
	CAFile  string
}

type RedisConfig struct {
	Address   string
	Username  string
	Password  string
	DB        int
	Namespace string
	TLS       RedisTLSConfig
}

type redisStore struct {
	client    valkey.Client
	namespace string
	now       func() time.Time
}

// NewRedis connects a valkey-backed Store. Entries live under
// "<namespace>:<operation>:<digest>" and expire natively via PX.
func NewRedis(cfg RedisConfig) (Store, error) {
	if cfg.Address == "" {
		return nil, errors.New("cache: redis address required")
	}
	namespace := strings.TrimSpace(cfg.Namespace)
	if namespace == "" {
		namespace = defaultNamespace
	}

	option := valkey.ClientOption{
		InitAddress:       []string{cfg.Address},
		Username:          cfg.Username,
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		AlwaysRESP2:       true,
		ForceSingleClient: true,
		DisableCache:      true,
	}

	if cfg.TLS.Enabled {
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.TLS.CAFile != "" {
			caData, err := os.ReadFile(cfg.TLS.CAFile)
			if err != nil {
				return nil, fmt.Errorf("cache: read redis ca file: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caData) {
				return nil, errors.New("cache: redis ca file contains no certificates")
			}
			tlsConfig.RootCAs = pool
		}
		option.TLSConfig = tlsConfig
	}

	client, err := valkey.NewClient(option)
	if err != nil {
		return nil, fmt.Errorf("cache: redis client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}

	return &redisStore{client: client, namespace: namespace, now: time.Now}, nil
}

func (s *redisStore) redisKey(key Key) string {
	return s.namespace + ":" + key.String()
}

func (s *redisStore) Get(ctx context.Context, key Key) (Entry, bool, error) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.redisKey(key)).Build())
	if err := resp.Error(); err != nil {
		if errors.Is(err, valkey.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("cache: redis get: %w", err)
	}
	payload, err := resp.AsBytes()
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: redis get bytes: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("cache: redis unmarshal: %w", err)
	}
	// Digest collision or an entry written without its key.
	if entry.Key != key {
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (s *redisStore) Put(ctx context.Context, key Key, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := s.now().UTC()
	payload, err := json.Marshal(Entry{Key: key, Value: value, StoredAt: now, ExpiresAt: now.Add(ttl)})
	if err != nil {
		return fmt.Errorf("cache: redis marshal: %w", err)
	}
	cmd := s.client.B().Set().Key(s.redisKey(key)).Value(string(payload)).Px(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

func (s *redisStore) ClearAll(ctx context.Context) (int64, error) {
	var evicted int64
	err := s.scan(ctx, func(keys []string) error {
		n, err := s.client.Do(ctx, s.client.B().Unlink().Key(keys...).Build()).AsInt64()
		if err != nil {
			return fmt.Errorf("cache: redis unlink: %w", err)
		}
		evicted += n
		return nil
	})
	return evicted, err
}

func (s *redisStore) Size(ctx context.Context) (int64, error) {
	var size int64
	err := s.scan(ctx, func(keys []string) error {
		size += int64(len(keys))
		return nil
	})
	return size, err
}

// scan walks every key in the store's namespace, handing non-empty batches to fn.
func (s *redisStore) scan(ctx context.Context, fn func([]string) error) error {
	pattern := s.namespace + ":*"
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(pattern).Count(scanBatch).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return fmt.Errorf("cache: redis scan: %w", err)
		}
		if len(entry.Elements) > 0 {
			if err := fn(entry.Elements); err != nil {
				return err
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

func (s *redisStore) Close(context.Context) error {
	s.client.Close()
	return nil
}
