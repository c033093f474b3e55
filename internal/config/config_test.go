package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("APP_PORT", "")
	cfg, err := Load([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:3000/api" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.UI.RowHeight != 52 || cfg.UI.ChromeHeight != 390 {
		t.Fatalf("unexpected layout constants: %+v", cfg.UI)
	}
	if cfg.UI.MinRows != 5 || cfg.UI.MaxRows != 20 {
		t.Fatalf("unexpected row bounds: %+v", cfg.UI)
	}
	if cfg.UI.ToastDuration() != 3500*time.Millisecond {
		t.Fatalf("unexpected toast duration %s", cfg.UI.ToastDuration())
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", cfg.App.Addr())
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://env.example/api")
	t.Setenv("LOG_LEVEL", "info")
	cfg, err := Load([]string{
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--addr", "127.0.0.1:9999",
		"--api-base-url", "http://flag.example/api/",
		"--log-level", "debug",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Host != "127.0.0.1" || cfg.App.Port != "9999" {
		t.Fatalf("unexpected addr %s", cfg.App.Addr())
	}
	if cfg.API.BaseURL != "http://flag.example/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.Logger.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logger.Level)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.env")
	if err := os.WriteFile(path, []byte("UI_MAX_ROWS=30\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("UI_MAX_ROWS", "")
	os.Unsetenv("UI_MAX_ROWS")
	cfg, err := Load([]string{"--env-file", path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.UI.MaxRows != 30 {
		t.Fatalf("expected max rows from env file, got %d", cfg.UI.MaxRows)
	}
}

func TestLoadRejectsInvalidBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "not a url")
	if _, err := Load([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}); err == nil {
		t.Fatalf("expected error for invalid base url")
	}
}
