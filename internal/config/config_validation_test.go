// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergedValidConfig(t *testing.T, mutate func(*StructuredConfig)) *StructuredConfig {
	t.Helper()
	cfg := validConfig()
	require.NoError(t, applyDefaults(cfg))
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

func TestStructuredConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr error
	}{
		{name: "valid"},
		{name: "unknown driver", mutate: func(c *StructuredConfig) { c.Storage.DB.Driver = "mysql" }, wantErr: ErrInvalidStorageConfigs},
		{name: "empty dsn", mutate: func(c *StructuredConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "no sign key", mutate: func(c *StructuredConfig) { c.App.TokenSignKey = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "zero timeout", mutate: func(c *StructuredConfig) { c.Server.RequestTimeout = 0 }, wantErr: ErrInvalidServerConfigs},
		{name: "zero concurrency", mutate: func(c *StructuredConfig) { c.Sync.QueryConcurrency = 0 }, wantErr: ErrInvalidSyncConfigs},
		{name: "bad log level", mutate: func(c *StructuredConfig) { c.Log.Level = "loud" }, wantErr: ErrInvalidLogConfigs},
		{name: "bad exporter", mutate: func(c *StructuredConfig) { c.Tracing.Exporter = "jaeger" }, wantErr: ErrInvalidTracingConfigs},
		{name: "otlp without endpoint", mutate: func(c *StructuredConfig) { c.Tracing.Exporter = TracingExporterOTLP }, wantErr: ErrInvalidTracingConfigs},
		{name: "sample ratio above one", mutate: func(c *StructuredConfig) { c.Tracing.SampleRatio = 2 }, wantErr: ErrInvalidTracingConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mergedValidConfig(t, tt.mutate).validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
