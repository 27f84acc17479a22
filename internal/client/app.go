package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-delta-sync/internal/adapter"
	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/workers"
	"github.com/MKhiriev/go-delta-sync/models"
)

// App holds what every command needs once configuration is loaded.
type App struct {
	cfg       *config.ClientConfig
	buildInfo models.AppBuildInfo

	adapter adapter.SyncAdapter
	state   *workers.FileState

	out    io.Writer
	logger *logger.Logger
}

// overrides are the global flags; zero values leave the configuration as
// loaded.
type overrides struct {
	configPath    string
	address       string
	grpcAddress   string
	token         string
	schemaVersion int
	stateFile     string
	logLevel      string
}

func (o overrides) apply(cfg *config.ClientConfig) {
	if o.address != "" {
		cfg.Adapter.HTTPAddress = o.address
	}
	if o.grpcAddress != "" {
		cfg.Adapter.GRPCAddress = o.grpcAddress
	}
	if o.token != "" {
		cfg.Adapter.Token = o.token
	}
	if o.schemaVersion != 0 {
		cfg.Adapter.SchemaVersion = o.schemaVersion
	}
	if o.stateFile != "" {
		cfg.Workers.StateFile = o.stateFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}

// loadConfig reads the client configuration and applies the flag overrides.
func loadConfig(o overrides) (*config.ClientConfig, error) {
	cfg, err := config.LoadClientConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	o.apply(cfg)
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.ClientConfig, buildInfo models.AppBuildInfo, out io.Writer) (*App, error) {
	log, err := logger.NewForCLI("syncctl", cfg.Log)
	if err != nil {
		return nil, err
	}

	syncAdapter, err := adapter.New(cfg.Adapter, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	return &App{
		cfg:       cfg,
		buildInfo: buildInfo,
		adapter:   syncAdapter,
		state:     workers.NewFileState(cfg.Workers.StateFile),
		out:       out,
		logger:    log,
	}, nil
}

// Close releases the adapter connection and the log file.
func (a *App) Close() error {
	err := a.adapter.Close()
	if closeErr := a.logger.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (a *App) poller(handle workers.PullHandler) *workers.PullPoller {
	return workers.NewPullPoller(a.adapter, a.state, a.cfg.Workers.PullInterval, handle, a.logger)
}

// Execute runs syncctl with args until it finishes or the process is
// interrupted.
func Execute(args []string, buildInfo models.AppBuildInfo) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand(buildInfo)
	cmd.SetArgs(args)
	cmd.SetOut(os.Stdout)

	return cmd.ExecuteContext(ctx)
}
