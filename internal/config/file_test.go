package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jsonConfigBody = `{
		"app": {"token_sign_key": "jwt_secret", "token_issuer": "issuer", "token_duration": "1h"},
		"storage": {"db": {"driver": "sqlite", "dsn": "file:sync.db", "max_open_conns": 3}},
		"server": {"http_address": "localhost:8080", "request_timeout": "30s"},
		"sync": {"query_concurrency": 4, "max_retries": 2, "retry_base_delay": "10ms"},
		"log": {"level": "warn"},
		"tracing": {"exporter": "stdout", "sample_ratio": 0.25},
		"workers": {"pull_interval": "45s"}
	}`

	yamlConfigBody = `
app:
  token_sign_key: jwt_secret
  token_issuer: issuer
  token_duration: 1h
storage:
  db:
    driver: sqlite
    dsn: "file:sync.db"
    max_open_conns: 3
server:
  http_address: "localhost:8080"
  request_timeout: 30s
sync:
  query_concurrency: 4
  max_retries: 2
  retry_base_delay: 10ms
log:
  level: warn
tracing:
  exporter: stdout
  sample_ratio: 0.25
workers:
  pull_interval: 45s
`

	tomlConfigBody = `
[app]
token_sign_key = "jwt_secret"
token_issuer = "issuer"
token_duration = "1h"

[storage.db]
driver = "sqlite"
dsn = "file:sync.db"
max_open_conns = 3

[server]
http_address = "localhost:8080"
request_timeout = "30s"

[sync]
query_concurrency = 4
max_retries = 2
retry_base_delay = "10ms"

[log]
level = "warn"

[tracing]
exporter = "stdout"
sample_ratio = 0.25

[workers]
pull_interval = "45s"
`
)

func TestParseFile_AllFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{name: "json", file: "config.json", body: jsonConfigBody},
		{name: "yaml", file: "config.yaml", body: yamlConfigBody},
		{name: "yml", file: "config.yml", body: yamlConfigBody},
		{name: "toml", file: "config.toml", body: tomlConfigBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFile(writeTempFile(t, tt.file, tt.body))
			require.NoError(t, err)

			assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
			assert.Equal(t, "issuer", cfg.App.TokenIssuer)
			assert.Equal(t, time.Hour, cfg.App.TokenDuration)
			assert.Equal(t, "sqlite", cfg.Storage.DB.Driver)
			assert.Equal(t, "file:sync.db", cfg.Storage.DB.DSN)
			assert.Equal(t, 3, cfg.Storage.DB.MaxOpenConns)
			assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
			assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
			assert.Equal(t, 4, cfg.Sync.QueryConcurrency)
			assert.Equal(t, uint64(2), cfg.Sync.MaxRetries)
			assert.Equal(t, 10*time.Millisecond, cfg.Sync.RetryBaseDelay)
			assert.Equal(t, "warn", cfg.Log.Level)
			assert.Equal(t, "stdout", cfg.Tracing.Exporter)
			assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
			assert.Equal(t, 45*time.Second, cfg.Workers.PullInterval)
			assert.Empty(t, cfg.ConfigFilePath)
		})
	}
}

func TestParseFile_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := parseFile(writeTempFile(t, "config.ini", "x=1"))
		assert.ErrorIs(t, err, ErrUnsupportedConfigFile)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parseFile(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseFile(writeTempFile(t, "config.json", "{"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := parseFile(writeTempFile(t, "config.json", `{"server":{"request_timeout":"later"}}`))
		assert.Error(t, err)
	})
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration

	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, Duration(90*time.Second), d)

	require.NoError(t, d.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, Duration(1000), d)

	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(2 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(b))
}
