package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/sigguard/internal/infra/confloader"
)

// Validation errors.
var (
	ErrProgramName = errors.New("program.name is required")
	ErrTimeout     = errors.New("shutdown.timeout must be positive")
	ErrTick        = errors.New("workload.tick must be positive")
	ErrLogLevel    = errors.New("log.level must be one of debug, info, warn, error")
	ErrLogFormat   = errors.New("log.format must be json or text")
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if strings.TrimSpace(cfg.Program.Name) == "" {
		return ErrProgramName
	}
	if cfg.Shutdown.Timeout <= 0 {
		return ErrTimeout
	}
	if cfg.Workload.Tick <= 0 {
		return ErrTick
	}
	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return fmt.Errorf("metrics.addr %q: %w", cfg.Metrics.Addr, err)
		}
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ErrLogLevel
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text", "console":
	default:
		return ErrLogFormat
	}
	return nil
}

// EnvPrefix marks the environment variables Load reads, e.g.
// SIGGUARD_LOG_LEVEL for log.level.
const EnvPrefix = "SIGGUARD_"

// Load builds a configuration from defaults, the optional file, the
// environment and overrides (dotted keys), then verifies it.
func Load(path string, overrides map[string]any) (*Config, error) {
	cfg := Default()

	loader := confloader.NewLoader(
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
