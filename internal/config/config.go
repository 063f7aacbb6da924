package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/tracegate/internal/domain"
)

//go:embed templates/tracegate.yaml
var defaultConfigYAML []byte

//go:embed templates/docker-compose.yaml
var defaultComposeYAML []byte

// Retry is the stack-wide gate policy. Per-service overrides live on the
// service entries themselves.
type Retry struct {
	MaxAttempts int `yaml:"max_attempts" env:"TRACEGATE_MAX_ATTEMPTS"`
	IntervalMS  int `yaml:"interval_ms" env:"TRACEGATE_INTERVAL_MS"`
	TimeoutMS   int `yaml:"timeout_ms" env:"TRACEGATE_TIMEOUT_MS"`
}

func (r Retry) Interval() time.Duration { return time.Duration(r.IntervalMS) * time.Millisecond }
func (r Retry) Timeout() time.Duration  { return time.Duration(r.TimeoutMS) * time.Millisecond }

type Config struct {
	ComposeFile string           `yaml:"compose_file" env:"TRACEGATE_COMPOSE_FILE"`
	ProjectName string           `yaml:"project_name" env:"TRACEGATE_PROJECT_NAME"`
	EnvFile     string           `yaml:"env_file" env:"TRACEGATE_ENV_FILE"`
	LogDir      string           `yaml:"log_dir" env:"TRACEGATE_LOG_DIR"`
	ListenAddr  string           `yaml:"listen_addr" env:"TRACEGATE_LISTEN_ADDR"`
	TracingHost string           `yaml:"tracing_host" env:"TRACEGATE_TRACING_HOST"`
	Retry       Retry            `yaml:"retry"`
	Projects    []string         `yaml:"projects" env:"TRACEGATE_PROJECTS"`
	Services    []domain.Service `yaml:"services"`
}

// Default returns the built-in stack configuration. It matches the embedded
// template that Ensure materializes (config_test keeps them in sync).
func Default() Config {
	return Config{
		ComposeFile: "docker-compose.yaml",
		ProjectName: "tracegate",
		EnvFile:     ".env",
		LogDir:      "logs",
		ListenAddr:  "127.0.0.1:8600",
		TracingHost: "http://localhost:3001",
		Retry: Retry{
			MaxAttempts: 30,
			IntervalMS:  2000,
			TimeoutMS:   5000,
		},
		Projects: []string{"budget_claude", "budget_cursor"},
		Services: []domain.Service{
			{Name: "langfuse", HealthURL: "http://localhost:3001/api/public/health"},
		},
	}
}

// Load reads the stack config from path. A missing file falls back to the
// defaults; a present file is parsed on top of them. TRACEGATE_* environment
// variables override either source last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if uerr := yaml.Unmarshal(data, &cfg); uerr != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, uerr)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return errors.New("retry.max_attempts must be > 0")
	}
	if c.Retry.IntervalMS < 0 {
		return errors.New("retry.interval_ms must be >= 0")
	}
	if c.Retry.TimeoutMS < 1 {
		return errors.New("retry.timeout_ms must be > 0")
	}
	if len(c.Services) == 0 {
		return errors.New("at least one service is required")
	}
	for _, s := range c.Services {
		if s.Name == "" || s.HealthURL == "" {
			return fmt.Errorf("service entries need name and health_url (got %+v)", s)
		}
	}
	return nil
}

// Ensure materializes the embedded default config at path unless a file is
// already there. Reports whether it created the file.
func Ensure(path string) (bool, error) {
	return writeIfAbsent(path, defaultConfigYAML)
}

// EnsureComposeFile materializes the embedded compose template at path
// unless a file is already there.
func EnsureComposeFile(path string) (bool, error) {
	return writeIfAbsent(path, defaultComposeYAML)
}

func writeIfAbsent(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
