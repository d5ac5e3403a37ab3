package rowangate

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rowangate.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigValid(t *testing.T) {
	path := writeConfig(t, `
base_url = "http://localhost:7692"
api_key = "secret"

[chat]
max_message_length = 800
context_type = "work"

[retry]
max_attempts = 4
delay = "500ms"
attempt_timeout = "3s"

[rate_limit]
max_per_window = 30
window = "1m"

[circuit_breaker]
failure_threshold = 4
cool_down = "10s"

[cache]
ttl = "5m"

[monitor]
enabled = true
interval = "10s"
probe_attempts = 2
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg.BaseURL != "http://localhost:7692" {
		t.Errorf("Expected base_url, got %q", cfg.BaseURL)
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Errorf("Expected max_attempts=4, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.Delay.Duration != 500*time.Millisecond {
		t.Errorf("Expected delay=500ms, got %v", cfg.Retry.Delay.Duration)
	}
	if cfg.RateLimit.Window.Duration != time.Minute {
		t.Errorf("Expected window=1m, got %v", cfg.RateLimit.Window.Duration)
	}
	if cfg.CircuitBreaker.CoolDown.Duration != 10*time.Second {
		t.Errorf("Expected cool_down=10s, got %v", cfg.CircuitBreaker.CoolDown.Duration)
	}
	if !cfg.Monitor.Enabled {
		t.Error("Expected monitor enabled")
	}
}

func TestLoadConfigMissingRequiredFields(t *testing.T) {
	path := writeConfig(t, `api_key = "secret"`)
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "base_url") {
		t.Errorf("Expected base_url error, got %v", err)
	}

	path = writeConfig(t, `base_url = "http://localhost:7692"`)
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Errorf("Expected api_key error, got %v", err)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := writeConfig(t, `
base_url = "http://localhost:7692"
api_key = "secret"

[retry]
delay = "not a duration"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error for bad duration")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestNewFromConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "from config"}`))
	}))
	defer server.Close()

	path := writeConfig(t, `
base_url = "`+server.URL+`"
api_key = "secret"

[retry]
max_attempts = 2
delay = "5ms"

[rate_limit]
max_per_window = 10
window = "1s"

[cache]
disabled = true
`)

	client, err := NewFromConfig(path)
	if err != nil {
		t.Fatalf("NewFromConfig() returned error: %v", err)
	}
	defer client.Close()

	if client.maxAttempts != 2 {
		t.Errorf("Expected maxAttempts=2, got %d", client.maxAttempts)
	}
	if client.cache != nil {
		t.Error("Expected cache disabled via config")
	}
	if client.rateLimiter.maxPerWindow != 10 {
		t.Errorf("Expected maxPerWindow=10, got %d", client.rateLimiter.maxPerWindow)
	}
}

func TestNewFromConfigExtraOptionsWin(t *testing.T) {
	path := writeConfig(t, `
base_url = "http://localhost:7692"
api_key = "secret"

[retry]
max_attempts = 2
`)

	client, err := NewFromConfig(path, WithMaxAttempts(7))
	if err != nil {
		t.Fatalf("NewFromConfig() returned error: %v", err)
	}
	defer client.Close()

	if client.maxAttempts != 7 {
		t.Errorf("Expected explicit option to win, got maxAttempts=%d", client.maxAttempts)
	}
}
