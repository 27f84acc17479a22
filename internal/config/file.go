package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of a config file. The same tags serve
// JSON, YAML and TOML.
type fileConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key" yaml:"token_sign_key" toml:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer" yaml:"token_issuer" toml:"token_issuer"`
		TokenDuration Duration `json:"token_duration" yaml:"token_duration" toml:"token_duration"`
		Version       string   `json:"version" yaml:"version" toml:"version"`
	} `json:"app" yaml:"app" toml:"app"`

	Storage struct {
		DB struct {
			Driver       string `json:"driver" yaml:"driver" toml:"driver"`
			DSN          string `json:"dsn" yaml:"dsn" toml:"dsn"`
			MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns" toml:"max_open_conns"`
			MaxIdleConns int    `json:"max_idle_conns" yaml:"max_idle_conns" toml:"max_idle_conns"`
		} `json:"db" yaml:"db" toml:"db"`
	} `json:"storage" yaml:"storage" toml:"storage"`

	Server struct {
		HTTPAddress     string   `json:"http_address" yaml:"http_address" toml:"http_address"`
		GRPCAddress     string   `json:"grpc_address" yaml:"grpc_address" toml:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	} `json:"server" yaml:"server" toml:"server"`

	Sync struct {
		QueryConcurrency int      `json:"query_concurrency" yaml:"query_concurrency" toml:"query_concurrency"`
		MaxRetries       uint64   `json:"max_retries" yaml:"max_retries" toml:"max_retries"`
		RetryBaseDelay   Duration `json:"retry_base_delay" yaml:"retry_base_delay" toml:"retry_base_delay"`
	} `json:"sync" yaml:"sync" toml:"sync"`

	Log struct {
		Level      string `json:"level" yaml:"level" toml:"level"`
		File       string `json:"file" yaml:"file" toml:"file"`
		MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb"`
		MaxBackups int    `json:"max_backups" yaml:"max_backups" toml:"max_backups"`
		MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" toml:"max_age_days"`
	} `json:"log" yaml:"log" toml:"log"`

	Tracing struct {
		Exporter    string  `json:"exporter" yaml:"exporter" toml:"exporter"`
		Endpoint    string  `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
		Insecure    bool    `json:"insecure" yaml:"insecure" toml:"insecure"`
		ServiceName string  `json:"service_name" yaml:"service_name" toml:"service_name"`
		SampleRatio float64 `json:"sample_ratio" yaml:"sample_ratio" toml:"sample_ratio"`
	} `json:"tracing" yaml:"tracing" toml:"tracing"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address" toml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" yaml:"grpc_address" toml:"grpc_address"`
		Token          string   `json:"token" yaml:"token" toml:"token"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
		RetryCount     int      `json:"retry_count" yaml:"retry_count" toml:"retry_count"`
		SchemaVersion  int      `json:"schema_version" yaml:"schema_version" toml:"schema_version"`
	} `json:"adapter" yaml:"adapter" toml:"adapter"`

	Workers struct {
		PullInterval Duration `json:"pull_interval" yaml:"pull_interval" toml:"pull_interval"`
		StateFile    string   `json:"state_file" yaml:"state_file" toml:"state_file"`
	} `json:"workers" yaml:"workers" toml:"workers"`
}

// parseFile reads a config file, picking the decoder by extension.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFile, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:  fc.App.TokenSignKey,
			TokenIssuer:   fc.App.TokenIssuer,
			TokenDuration: time.Duration(fc.App.TokenDuration),
			Version:       fc.App.Version,
		},
		Storage: Storage{
			DB: DB{
				Driver:       fc.Storage.DB.Driver,
				DSN:          fc.Storage.DB.DSN,
				MaxOpenConns: fc.Storage.DB.MaxOpenConns,
				MaxIdleConns: fc.Storage.DB.MaxIdleConns,
			},
		},
		Server: Server{
			HTTPAddress:     fc.Server.HTTPAddress,
			GRPCAddress:     fc.Server.GRPCAddress,
			RequestTimeout:  time.Duration(fc.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(fc.Server.ShutdownTimeout),
		},
		Sync: Sync{
			QueryConcurrency: fc.Sync.QueryConcurrency,
			MaxRetries:       fc.Sync.MaxRetries,
			RetryBaseDelay:   time.Duration(fc.Sync.RetryBaseDelay),
		},
		Log: Log{
			Level:      fc.Log.Level,
			File:       fc.Log.File,
			MaxSizeMB:  fc.Log.MaxSizeMB,
			MaxBackups: fc.Log.MaxBackups,
			MaxAgeDays: fc.Log.MaxAgeDays,
		},
		Tracing: Tracing{
			Exporter:    fc.Tracing.Exporter,
			Endpoint:    fc.Tracing.Endpoint,
			Insecure:    fc.Tracing.Insecure,
			ServiceName: fc.Tracing.ServiceName,
			SampleRatio: fc.Tracing.SampleRatio,
		},
		Adapter: Adapter{
			HTTPAddress:    fc.Adapter.HTTPAddress,
			GRPCAddress:    fc.Adapter.GRPCAddress,
			Token:          fc.Adapter.Token,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
			RetryCount:     fc.Adapter.RetryCount,
			SchemaVersion:  fc.Adapter.SchemaVersion,
		},
		Workers: Workers{
			PullInterval: time.Duration(fc.Workers.PullInterval),
			StateFile:    fc.Workers.StateFile,
		},
	}
}

// Duration is a wrapper around time.Duration that can be decoded from
// strings like "1h" or "30s" in every supported file format. Bare numbers
// are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalText is used by the TOML decoder.
func (d *Duration) UnmarshalText(text []byte) error {
	tmp, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	return d.UnmarshalText([]byte(s))
}
