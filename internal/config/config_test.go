package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("want defaults, got %+v", cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracegate.yaml")
	body := `
project_name: mystack
retry:
  max_attempts: 7
  interval_ms: 100
  timeout_ms: 900
services:
  - name: srv
    health_url: http://localhost:9999/health
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectName != "mystack" {
		t.Fatalf("project_name not applied: %+v", cfg)
	}
	if cfg.Retry.MaxAttempts != 7 || cfg.Retry.Interval() != 100*time.Millisecond || cfg.Retry.Timeout() != 900*time.Millisecond {
		t.Fatalf("retry not applied: %+v", cfg.Retry)
	}
	if len(cfg.Services) != 1 || cfg.Services[0].Name != "srv" {
		t.Fatalf("services not applied: %+v", cfg.Services)
	}
	// untouched fields keep defaults
	if cfg.EnvFile != ".env" || cfg.LogDir != "logs" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TRACEGATE_MAX_ATTEMPTS", "3")
	t.Setenv("TRACEGATE_TRACING_HOST", "http://tracing.local:3001")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Fatalf("env override lost: %+v", cfg.Retry)
	}
	if cfg.TracingHost != "http://tracing.local:3001" {
		t.Fatalf("env override lost: %q", cfg.TracingHost)
	}
}

func TestEnsure_MaterializedTemplateMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracegate.yaml")

	created, err := Ensure(path)
	if err != nil || !created {
		t.Fatalf("Ensure: created=%v err=%v", created, err)
	}
	// second call must not rewrite
	if created, err = Ensure(path); err != nil || created {
		t.Fatalf("Ensure twice: created=%v err=%v", created, err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load materialized default: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("embedded template drifted from Default():\n got %+v\nwant %+v", cfg, Default())
	}
}

func TestEnsureComposeFile_WritesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yaml")

	created, err := EnsureComposeFile(path)
	if err != nil || !created {
		t.Fatalf("EnsureComposeFile: created=%v err=%v", created, err)
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		t.Fatalf("compose file empty: err=%v", err)
	}
	if created, err = EnsureComposeFile(path); err != nil || created {
		t.Fatalf("EnsureComposeFile twice: created=%v err=%v", created, err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := map[string]func(*Config){
		"zero attempts":     func(c *Config) { c.Retry.MaxAttempts = 0 },
		"negative interval": func(c *Config) { c.Retry.IntervalMS = -1 },
		"zero timeout":      func(c *Config) { c.Retry.TimeoutMS = 0 },
		"no services":       func(c *Config) { c.Services = nil },
		"unnamed service":   func(c *Config) { c.Services[0].Name = "" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: want validation error", name)
		}
	}
}
