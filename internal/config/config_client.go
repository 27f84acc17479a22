package config

import (
	"fmt"
	"time"
)

// ClientApp holds the token settings syncctl needs to mint development
// tokens.
type ClientApp struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the sync server.
	HTTPAddress string
	// GRPCAddress selects the gRPC transport when not empty.
	GRPCAddress string
	// Token is the bearer token attached to every request.
	Token string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// RetryCount is how many times a failed request is retried.
	RetryCount int
	// SchemaVersion is the schema version announced to the server.
	SchemaVersion int
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// PullInterval defines how often the pull poller runs.
	PullInterval time.Duration
	// StateFile keeps the last watermark between runs.
	StateFile string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Workers ClientWorkers
	Log     Log
}

// LoadClientConfig builds and validates the sync client configuration from
// the environment (seeded from .env) and the optional config file at
// configPath. Command-line overrides are applied by the caller.
func LoadClientConfig(configPath string) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withDotEnv().
		withEnv().
		withFile(configPath).
		merge()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the fields relevant to the client runtime out of a
// merged [StructuredConfig].
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			GRPCAddress:    cfg.Adapter.GRPCAddress,
			Token:          cfg.Adapter.Token,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
			SchemaVersion:  cfg.Adapter.SchemaVersion,
		},
		Workers: ClientWorkers{
			PullInterval: cfg.Workers.PullInterval,
			StateFile:    cfg.Workers.StateFile,
		},
		Log: cfg.Log,
	}
}

// Validate re-checks a client config after command-line overrides.
func (cfg *ClientConfig) Validate() error {
	return cfg.validate()
}
