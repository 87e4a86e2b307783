// Package config defines the sigguard configuration.
package config

import "time"

// Config is the root configuration for the sigguard command.
type Config struct {
	Program  ProgramSection  `koanf:"program"`
	Shutdown ShutdownSection `koanf:"shutdown"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Workload WorkloadSection `koanf:"workload"`
	Log      LogSection      `koanf:"log"`
}

// ProgramSection names the executable in diagnostics.
type ProgramSection struct {
	Name string `koanf:"name"`
}

// ShutdownSection bounds the save-exit hooks.
type ShutdownSection struct {
	Timeout time.Duration `koanf:"timeout"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// WorkloadSection configures the demo workload of the run command.
type WorkloadSection struct {
	Tick time.Duration `koanf:"tick"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
