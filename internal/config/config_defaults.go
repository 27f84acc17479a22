package config

import (
	"fmt"
	"time"

	"dario.cat/mergo"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"

	defaultHTTPAddress = "localhost:8080"
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "go-delta-sync",
			TokenDuration: 24 * time.Hour,
			Version:       "dev",
		},
		Storage: Storage{
			DB: DB{
				Driver:       DriverPostgres,
				MaxOpenConns: 10,
				MaxIdleConns: 4,
			},
		},
		Server: Server{
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Sync: Sync{
			QueryConcurrency: 6,
			MaxRetries:       3,
			RetryBaseDelay:   50 * time.Millisecond,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Tracing: Tracing{
			Exporter:    TracingExporterNone,
			ServiceName: "go-delta-sync",
			SampleRatio: 1,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://" + defaultHTTPAddress,
			RequestTimeout: 15 * time.Second,
			RetryCount:     2,
		},
		Workers: Workers{
			PullInterval: 30 * time.Second,
			StateFile:    ".syncctl-state.json",
		},
	}
}

// applyDefaults fills zero fields of cfg. The HTTP listener only gets a
// default address when no transport was configured at all.
func applyDefaults(cfg *StructuredConfig) error {
	if err := mergo.Merge(cfg, defaults()); err != nil {
		return fmt.Errorf("error applying default configs: %w", err)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}

	return nil
}
