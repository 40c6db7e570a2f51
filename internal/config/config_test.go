package config_test

import (
	"errors"
	"github.com/burenotti/go_bmi_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
server:
  port: 9090
scale:
  executable: /opt/scale/read
  timeout: 3s
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Env != config.Production {
		t.Errorf("env = %q", cfg.App.Env)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Host != "localhost" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Scale.Executable != "/opt/scale/read" || cfg.Scale.Timeout != 3*time.Second {
		t.Errorf("unexpected scale config %+v", cfg.Scale)
	}
	if cfg.Scale.FallbackWeight != 53.6 || cfg.Scale.Device != "COM3" {
		t.Errorf("defaults not applied: %+v", cfg.Scale)
	}
	if cfg.Reports.Dir != "reports" {
		t.Errorf("reports dir = %q", cfg.Reports.Dir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "app:\n  env: dev\n")
	t.Setenv("SCALE_FALLBACK_WEIGHT", "61.5")
	t.Setenv("REPORTS_DIR", "/tmp/reports")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scale.FallbackWeight != 61.5 || cfg.Reports.Dir != "/tmp/reports" {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Scale, cfg.Reports)
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	path := writeConfig(t, "app:\n  env: staging\n")
	if _, err := config.Load(path); !errors.Is(err, config.ErrConfigNotLoaded) {
		t.Fatalf("expected ErrConfigNotLoaded, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, config.ErrConfigNotLoaded) {
		t.Fatalf("expected ErrConfigNotLoaded, got %v", err)
	}
}
