package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsConfigFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "fipegate.yaml")
	if err := os.WriteFile(path, []byte("quota:\n  dailyLimit: 100\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewLoader(DefaultEnvPrefix, path)
	if _, err := loader.Load(ctx); err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	changeCh := make(chan Config, 4)
	errCh := make(chan error, 4)
	watcher, err := loader.Watch(ctx, func(cfg Config) {
		changeCh <- cfg
	}, func(err error) {
		errCh <- err
	})
	if err != nil {
		t.Fatalf("watcher failed: %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(path, []byte("quota:\n  dailyLimit: 250\ncache:\n  ttl:\n    price: 10m\n"), 0o600); err != nil {
		t.Fatalf("failed to update config: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case cfg := <-changeCh:
			// A reload can observe the truncated file before the write lands.
			if cfg.Quota.DailyLimit != 250 {
				continue
			}
			if cfg.Cache.TTL.Price != "10m" {
				t.Fatalf("expected price ttl 10m, got %q", cfg.Cache.TTL.Price)
			}
			return
		case err := <-errCh:
			t.Fatalf("unexpected error: %v", err)
		case <-deadline:
			t.Fatal("timeout waiting for reload event")
		}
	}
}

func TestWatchReportsInvalidSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "fipegate.yaml")
	if err := os.WriteFile(path, []byte("quota:\n  dailyLimit: 100\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	changeCh := make(chan Config, 4)
	errCh := make(chan error, 4)
	watcher, err := NewLoader(DefaultEnvPrefix, path).Watch(ctx, func(cfg Config) {
		changeCh <- cfg
	}, func(err error) {
		errCh <- err
	})
	if err != nil {
		t.Fatalf("watcher failed: %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(path, []byte("quota:\n  dailyLimit: -1\n"), 0o600); err != nil {
		t.Fatalf("failed to update config: %v", err)
	}

	select {
	case cfg := <-changeCh:
		t.Fatalf("invalid snapshot delivered: %+v", cfg.Quota)
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected validation error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for validation error")
	}
}

func TestWatchRequiresFileAndCallback(t *testing.T) {
	if _, err := NewLoader(DefaultEnvPrefix, "").Watch(context.Background(), func(Config) {}, nil); err == nil {
		t.Fatal("expected error without config file")
	}
	if _, err := NewLoader(DefaultEnvPrefix, "fipegate.yaml").Watch(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error without callback")
	}

	var w *Watcher
	w.Stop()
}
