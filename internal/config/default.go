package config

import "time"

// Default configuration values.
const (
	DefaultProgramName     = "sigguard"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsAddr     = "127.0.0.1:9464"
	DefaultTick            = time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Program: ProgramSection{
			Name: DefaultProgramName,
		},
		Shutdown: ShutdownSection{
			Timeout: DefaultShutdownTimeout,
		},
		Metrics: MetricsSection{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
		Workload: WorkloadSection{
			Tick: DefaultTick,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
