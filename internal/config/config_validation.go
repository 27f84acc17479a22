// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// server invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs)
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration <= 0 {
		return fmt.Errorf("%w: token sign key and duration are required", ErrInvalidAppConfigs)
	}

	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidServerConfigs)
	}

	if cfg.Sync.QueryConcurrency < 1 {
		return fmt.Errorf("%w: query concurrency must be at least 1", ErrInvalidSyncConfigs)
	}

	if err := cfg.Log.validate(); err != nil {
		return err
	}

	return cfg.Tracing.validate()
}

func (l Log) validate() error {
	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err)
	}
	return nil
}

func (t Tracing) validate() error {
	switch t.Exporter {
	case TracingExporterNone, TracingExporterStdout:
	case TracingExporterOTLP:
		if t.Endpoint == "" {
			return fmt.Errorf("%w: otlp exporter needs an endpoint", ErrInvalidTracingConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown exporter %q", ErrInvalidTracingConfigs, t.Exporter)
	}

	if t.SampleRatio <= 0 || t.SampleRatio > 1 {
		return fmt.Errorf("%w: sample ratio must be in (0, 1]", ErrInvalidTracingConfigs)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.PullInterval <= 0 || cfg.Workers.StateFile == "" {
		return ErrInvalidWorkerConfigs
	}

	return cfg.Log.validate()
}
