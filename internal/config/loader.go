package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix namespaces environment overrides (FIPEGATE_QUOTA__DAILYLIMIT).
const DefaultEnvPrefix = "FIPEGATE"

// Loader hydrates the runtime configuration while respecting env > file > default precedence.
type Loader struct {
	envPrefix string
	path      string
}

// NewLoader prepares a loader for the optional config file at path.
func NewLoader(envPrefix, path string) *Loader {
	return &Loader{
		envPrefix: envPrefix,
		path:      strings.TrimSpace(path),
	}
}

// Path returns the config file the loader reads, or "" when running on
// defaults and env only.
func (l *Loader) Path() string {
	return l.path
}

// Load assembles and validates the effective snapshot.
func (l *Loader) Load(ctx context.Context) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(structToMap(DefaultConfig()), "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if l.path != "" {
		select {
		case <-ctx.Done():
			return Config{}, ctx.Err()
		default:
		}
		if _, err := os.Stat(l.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config: file %s not found", l.path)
			}
			return Config{}, fmt.Errorf("config: stat %s: %w", l.path, err)
		}
		parser, err := parserFor(l.path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(l.path), parser); err != nil {
			return Config{}, fmt.Errorf("config: load file %s: %w", l.path, err)
		}
	}

	if l.envPrefix != "" {
		// Env keys arrive upper-cased; map them back onto the camelCase keys the
		// defaults already declare.
		canonical := make(map[string]string)
		for _, key := range k.Keys() {
			canonical[strings.ToLower(key)] = key
		}
		transform := func(s string) string {
			// Double underscores signal a nested path (QUOTA__DAILYLIMIT -> quota.dailyLimit).
			key := strings.TrimPrefix(s, l.envPrefix+"_")
			key = strings.ToLower(strings.ReplaceAll(key, "__", "."))
			if mapped, ok := canonical[key]; ok {
				return mapped
			}
			if mapped, ok := canonical[strings.ReplaceAll(key, "_", "")]; ok {
				return mapped
			}
			return key
		}
		if err := k.Load(env.Provider(l.envPrefix+"_", ".", transform), nil); err != nil {
			return Config{}, fmt.Errorf("config: load env: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Source = l.path
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	case ".toml", ".tml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("config: unsupported config file extension %q", ext)
	}
}

// structToMap converts DefaultConfig into a map for the koanf confmap provider.
// Every leaf is listed so env overrides can resolve their canonical key.
func structToMap(cfg Config) map[string]any {
	return map[string]any{
		"server": map[string]any{
			"listen": map[string]any{
				"address": cfg.Server.Listen.Address,
				"port":    cfg.Server.Listen.Port,
			},
			"logging": map[string]any{
				"level":             cfg.Server.Logging.Level,
				"format":            cfg.Server.Logging.Format,
				"correlationHeader": cfg.Server.Logging.CorrelationHeader,
			},
		},
		"cache": map[string]any{
			"backend":   cfg.Cache.Backend,
			"namespace": cfg.Cache.Namespace,
			"ttl": map[string]any{
				"references": cfg.Cache.TTL.References,
				"catalog":    cfg.Cache.TTL.Catalog,
				"price":      cfg.Cache.TTL.Price,
			},
			"redis": map[string]any{
				"address":  cfg.Cache.Redis.Address,
				"username": cfg.Cache.Redis.Username,
				"password": cfg.Cache.Redis.Password,
				"db":       cfg.Cache.Redis.DB,
				"tls": map[string]any{
					"enabled": cfg.Cache.Redis.TLS.Enabled,
					"caFile":  cfg.Cache.Redis.TLS.CAFile,
				},
			},
		},
		"quota": map[string]any{
			"backend":    cfg.Quota.Backend,
			"dailyLimit": cfg.Quota.DailyLimit,
			"timezone":   cfg.Quota.Timezone,
			"redis": map[string]any{
				"address":   cfg.Quota.Redis.Address,
				"password":  cfg.Quota.Redis.Password,
				"db":        cfg.Quota.Redis.DB,
				"keyPrefix": cfg.Quota.Redis.KeyPrefix,
			},
			"postgres": map[string]any{
				"dsn":         cfg.Quota.Postgres.DSN,
				"tablePrefix": cfg.Quota.Postgres.TablePrefix,
			},
		},
		"upstream": map[string]any{
			"baseURL":       cfg.Upstream.BaseURL,
			"token":         cfg.Upstream.Token,
			"timeout":       cfg.Upstream.Timeout,
			"ratePerSecond": cfg.Upstream.RatePerSecond,
			"burst":         cfg.Upstream.Burst,
			"routes": map[string]any{
				"references":  cfg.Upstream.Routes.References,
				"brands":      cfg.Upstream.Routes.Brands,
				"models":      cfg.Upstream.Routes.Models,
				"years":       cfg.Upstream.Routes.Years,
				"vehicleInfo": cfg.Upstream.Routes.VehicleInfo,
				"byCode":      cfg.Upstream.Routes.ByCode,
			},
		},
		"watch": cfg.Watch,
	}
}
