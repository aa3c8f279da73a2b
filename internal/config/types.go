package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds every option the gateway process reads at startup.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Cache    CacheConfig    `koanf:"cache"`
	Quota    QuotaConfig    `koanf:"quota"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Watch    bool           `koanf:"watch"`

	// Source is the config file the snapshot was read from, if any. The watcher
	// follows it.
	Source string `koanf:"-"`
}

// ServerConfig collects the HTTP listener and logging knobs.
type ServerConfig struct {
	Listen  ListenConfig  `koanf:"listen"`
	Logging LoggingConfig `koanf:"logging"`
}

// ListenConfig instructs the HTTP listener about bind address and port.
type ListenConfig struct {
	Address string `koanf:"address"`
	Port    int    `koanf:"port"`
}

// LoggingConfig expresses log level, format, and correlation ID wiring.
type LoggingConfig struct {
	Level             string `koanf:"level"`
	Format            string `koanf:"format"`
	CorrelationHeader string `koanf:"correlationHeader"`
}

type CacheConfig struct {
	Backend   string         `koanf:"backend"`
	Namespace string         `koanf:"namespace"`
	TTL       CacheTTLConfig `koanf:"ttl"`
	Redis     RedisConfig    `koanf:"redis"`
}

// CacheTTLConfig holds duration strings per lookup class.
type CacheTTLConfig struct {
	References string `koanf:"references"`
	Catalog    string `koanf:"catalog"`
	Price      string `koanf:"price"`
}

type RedisConfig struct {
	Address  string         `koanf:"address"`
	Username string         `koanf:"username"`
	Password string         `koanf:"password"`
	DB       int            `koanf:"db"`
	TLS      RedisTLSConfig `koanf:"tls"`
}

type RedisTLSConfig struct {
	Enabled bool   `koanf:"enabled"`
	CAFile  string `koanf:"caFile"`
}

// QuotaConfig selects the ledger backend and the daily allowance.
type QuotaConfig struct {
	Backend    string              `koanf:"backend"`
	DailyLimit int64               `koanf:"dailyLimit"`
	Timezone   string              `koanf:"timezone"`
	Redis      QuotaRedisConfig    `koanf:"redis"`
	Postgres   QuotaPostgresConfig `koanf:"postgres"`
}

type QuotaRedisConfig struct {
	Address   string `koanf:"address"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"keyPrefix"`
}

type QuotaPostgresConfig struct {
	DSN         string `koanf:"dsn"`
	TablePrefix string `koanf:"tablePrefix"`
}

// UpstreamConfig points the client at the pricing API.
type UpstreamConfig struct {
	BaseURL       string       `koanf:"baseURL"`
	Token         string       `koanf:"token"`
	Timeout       string       `koanf:"timeout"`
	RatePerSecond float64      `koanf:"ratePerSecond"`
	Burst         int          `koanf:"burst"`
	Routes        RoutesConfig `koanf:"routes"`
}

// RoutesConfig overrides upstream path templates. Empty entries keep the
// client's defaults.
type RoutesConfig struct {
	References  string `koanf:"references"`
	Brands      string `koanf:"brands"`
	Models      string `koanf:"models"`
	Years       string `koanf:"years"`
	VehicleInfo string `koanf:"vehicleInfo"`
	ByCode      string `koanf:"byCode"`
}

// UpstreamTimeout parses Upstream.Timeout. An empty value yields zero.
func (c Config) UpstreamTimeout() (time.Duration, error) {
	return parseDuration("upstream.timeout", c.Upstream.Timeout)
}

// Validate enforces invariants that keep the runtime predictable before serving traffic.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil")
	}
	if c.Server.Listen.Port <= 0 || c.Server.Listen.Port > 65535 {
		return fmt.Errorf("config: listen.port invalid: %d", c.Server.Listen.Port)
	}

	switch normalize(c.Cache.Backend) {
	case "", "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Address) == "" {
			return errors.New("config: cache.redis.address required for redis backend")
		}
	default:
		return fmt.Errorf("config: cache.backend unsupported: %s", c.Cache.Backend)
	}
	for name, raw := range map[string]string{
		"cache.ttl.references": c.Cache.TTL.References,
		"cache.ttl.catalog":    c.Cache.TTL.Catalog,
		"cache.ttl.price":      c.Cache.TTL.Price,
	} {
		if _, err := parseDuration(name, raw); err != nil {
			return err
		}
	}

	if c.Quota.DailyLimit < 0 {
		return fmt.Errorf("config: quota.dailyLimit invalid: %d", c.Quota.DailyLimit)
	}
	if tz := strings.TrimSpace(c.Quota.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("config: quota.timezone invalid: %w", err)
		}
	}
	switch normalize(c.Quota.Backend) {
	case "", "memory":
	case "redis":
		if strings.TrimSpace(c.Quota.Redis.Address) == "" {
			return errors.New("config: quota.redis.address required for redis backend")
		}
	case "postgres":
		if strings.TrimSpace(c.Quota.Postgres.DSN) == "" {
			return errors.New("config: quota.postgres.dsn required for postgres backend")
		}
	default:
		return fmt.Errorf("config: quota.backend unsupported: %s", c.Quota.Backend)
	}

	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return errors.New("config: upstream.baseURL required")
	}
	if _, err := c.UpstreamTimeout(); err != nil {
		return err
	}
	if c.Upstream.RatePerSecond < 0 {
		return fmt.Errorf("config: upstream.ratePerSecond invalid: %v", c.Upstream.RatePerSecond)
	}
	if c.Upstream.Burst < 0 {
		return fmt.Errorf("config: upstream.burst invalid: %d", c.Upstream.Burst)
	}
	return nil
}

// DefaultConfig returns the baseline values used when file and env are silent.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Listen: ListenConfig{
				Address: "0.0.0.0",
				Port:    8080,
			},
			Logging: LoggingConfig{
				Level:             "info",
				Format:            "json",
				CorrelationHeader: "X-Request-ID",
			},
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL: CacheTTLConfig{
				References: "6h",
				Catalog:    "24h",
				Price:      "1h",
			},
		},
		Quota: QuotaConfig{
			Backend:    "memory",
			DailyLimit: 500,
			Timezone:   "America/Sao_Paulo",
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://fipe.parallelum.com.br/api/v2",
			Timeout: "5s",
			Burst:   1,
		},
	}
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func parseDuration(name, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s invalid: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s negative: %s", name, raw)
	}
	return d, nil
}
