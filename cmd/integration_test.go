package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"

	"github.com/l0p7/fipegate/internal/config"
)

// gatewayProcess is the compiled binary running against a config file.
type gatewayProcess struct {
	cmd    *exec.Cmd
	output bytes.Buffer
	exited chan struct{}
}

// buildGatewayBinary compiles the command into dir so the run under test does
// not pay compilation time against the readiness deadline.
func buildGatewayBinary(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "fipegate")
	build := exec.Command("go", "build", "-o", bin, ".")
	build.Env = append(os.Environ(), "GOFLAGS=")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build gateway binary: %v\n%s", err, out)
	}
	return bin
}

func launchGateway(t *testing.T, bin, configPath string, env ...string) *gatewayProcess {
	t.Helper()
	proc := &gatewayProcess{exited: make(chan struct{})}
	proc.cmd = exec.Command(bin, "-config", configPath)
	proc.cmd.Env = append(os.Environ(), env...)
	proc.cmd.Stdout = &proc.output
	proc.cmd.Stderr = &proc.output
	if err := proc.cmd.Start(); err != nil {
		t.Fatalf("start gateway: %v", err)
	}
	go func() {
		_ = proc.cmd.Wait()
		close(proc.exited)
	}()
	t.Cleanup(func() { proc.shutdown(t) })
	return proc
}

// shutdown interrupts the process and kills it if it has not drained within
// a few seconds. Output is dumped only for failed tests.
func (p *gatewayProcess) shutdown(t *testing.T) {
	_ = p.cmd.Process.Signal(os.Interrupt)
	select {
	case <-p.exited:
	case <-time.After(5 * time.Second):
		_ = p.cmd.Process.Kill()
		<-p.exited
	}
	if t.Failed() {
		t.Logf("gateway output:\n%s", strings.TrimSpace(p.output.String()))
	}
}

func waitForHealthy(t *testing.T, client *http.Client, target string, timeout time.Duration) {
	t.Helper()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(timeout)
	for {
		resp, err := client.Get(target) // #nosec G107 - local test server
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < http.StatusInternalServerError {
				return
			}
		}
		select {
		case <-ticker.C:
		case <-deadline:
			t.Fatalf("gateway not healthy within %v", timeout)
		}
	}
}

func writeIntegrationConfig(t *testing.T, dir string, port int, upstreamURL string) string {
	t.Helper()
	cfg := map[string]any{
		"server": map[string]any{
			"listen": map[string]any{
				"address": "127.0.0.1",
				"port":    port,
			},
			"logging": map[string]any{
				"format":            "text",
				"level":             "warn",
				"correlationHeader": "X-Request-ID",
			},
		},
		"cache": map[string]any{
			"backend": "memory",
		},
		"quota": map[string]any{
			"backend":    "memory",
			"dailyLimit": 3,
		},
		"upstream": map[string]any{
			"baseURL": upstreamURL,
			"timeout": "2s",
			"token":   "integration-token",
		},
	}

	contents, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, "integration-config.json")
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// fakePricingAPI serves the upstream routes the integration run touches and
// counts every call it receives.
type fakePricingAPI struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakePricingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path]++
	f.mu.Unlock()

	if r.Header.Get("X-Subscription-Token") != "integration-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/references":
		_, _ = io.WriteString(w, `[{"code":"324","month":"agosto de 2025"},{"code":"323","month":"julho de 2025"}]`)
	case "/cars/brands":
		_, _ = io.WriteString(w, `[{"code":"59","name":"VW - VolksWagen"}]`)
	case "/fipe/005340-6":
		_, _ = io.WriteString(w, `[{"brand":"VW - VolksWagen","model":"Gol 1.0","modelYear":2014,"fuel":"Gasolina","price":"R$ 65.128,00","codeFipe":"005340-6","referenceMonth":"agosto de 2025"}]`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakePricingAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func allocatePort(t *testing.T) int {
	t.Helper()
	var lc net.ListenConfig
	l, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to allocate port: %v", err)
	}
	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		t.Fatalf("unexpected addr type %T", l.Addr())
	}
	port := addr.Port
	if cerr := l.Close(); cerr != nil {
		t.Fatalf("failed to close listener: %v", cerr)
	}
	return port
}

func integrationURL(port int, path string) string {
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
		Path:   path,
	}
	return u.String()
}

func TestIntegrationServerStartup(t *testing.T) {
	if os.Getenv("FIPEGATE_INTEGRATION") == "" {
		t.Skip("set FIPEGATE_INTEGRATION=1 to run integration tests")
	}
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := &fakePricingAPI{calls: map[string]int{}}
	upstreamSrv := httptest.NewServer(api)
	defer upstreamSrv.Close()

	temp := t.TempDir()
	port := allocatePort(t)
	configPath := writeIntegrationConfig(t, temp, port, upstreamSrv.URL)

	cfg, err := config.NewLoader(config.DefaultEnvPrefix, configPath).Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load integration config: %v", err)
	}
	if cfg.Quota.DailyLimit != 3 {
		t.Fatalf("expected daily limit 3, got %d", cfg.Quota.DailyLimit)
	}

	bin := buildGatewayBinary(t, temp)
	launchGateway(t, bin, configPath, "FIPEGATE_SERVER__LOGGING__LEVEL=debug")

	client := &http.Client{Timeout: 5 * time.Second}
	waitForHealthy(t, client, integrationURL(port, "/healthz"), 15*time.Second)

	expect := httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  integrationURL(port, ""),
		Reporter: httpexpect.NewRequireReporter(t),
		Client:   client,
	})

	t.Run("default reference is resolved once and shared", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			expect.GET("/fipe/cars/brands").
				Expect().
				Status(http.StatusOK).
				JSON().Array().Value(0).Object().HasValue("code", "59")
		}
		if got := api.count("/references"); got != 1 {
			t.Fatalf("expected one references call, got %d", got)
		}
		if got := api.count("/cars/brands"); got != 1 {
			t.Fatalf("expected one brands call, got %d", got)
		}
	})

	t.Run("search by code accepts array payloads", func(t *testing.T) {
		expect.GET("/fipe/search").
			WithQuery("code", "005340-6").
			Expect().
			Status(http.StatusOK).
			JSON().Object().HasValue("price", "R$ 65.128,00")
	})

	t.Run("quota exhaustion surfaces as 429", func(t *testing.T) {
		expect.GET("/fipe/usage").
			Expect().
			Status(http.StatusOK).
			JSON().Object().HasValue("remaining_calls", 0)

		expect.GET("/fipe/motorcycles/brands").
			Expect().
			Status(http.StatusTooManyRequests).
			Header("Retry-After").NotEmpty()

		expect.GET("/healthz").
			Expect().
			Status(http.StatusOK).
			JSON().Object().HasValue("status", "degraded")
	})
}
