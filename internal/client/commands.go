// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/internal/workers"
	"github.com/MKhiriev/go-delta-sync/models"
)

var errNegativeWatermark = errors.New("--since must not be negative")

type root struct {
	flags     overrides
	buildInfo models.AppBuildInfo
	app       *App
}

// NewRootCommand builds the syncctl command tree.
func NewRootCommand(buildInfo models.AppBuildInfo) *cobra.Command {
	r := &root{buildInfo: buildInfo}

	cmd := &cobra.Command{
		Use:   "syncctl",
		Short: "Pull and push changes against a delta-sync server",
		Long: `syncctl is a command-line client of the delta-sync server.

It keeps the watermark of the last pull in a state file, so every pull
returns only what changed since the previous one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return r.init(cmd.OutOrStdout())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if r.app == nil {
				return nil
			}
			return r.app.Close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&r.flags.configPath, "config", "c", "", "config file path (json, yaml or toml)")
	flags.StringVarP(&r.flags.address, "address", "a", "", "sync server HTTP base URL")
	flags.StringVar(&r.flags.grpcAddress, "grpc-address", "", "sync server gRPC address; selects the gRPC transport")
	flags.StringVarP(&r.flags.token, "token", "t", "", "bearer token")
	flags.IntVar(&r.flags.schemaVersion, "schema-version", 0, "client schema version (0 means the server's current one)")
	flags.StringVar(&r.flags.stateFile, "state-file", "", "file keeping the last pulled watermark")
	flags.StringVar(&r.flags.logLevel, "log-level", "", "log level")

	cmd.AddCommand(
		r.newPullCommand(),
		r.newPushCommand(),
		r.newWatchCommand(),
		r.newHealthCommand(),
		r.newTokenCommand(),
		r.newVersionCommand(),
	)

	return cmd
}

func (r *root) init(out io.Writer) error {
	cfg, err := loadConfig(r.flags)
	if err != nil {
		return err
	}

	r.app, err = newApp(cfg, r.buildInfo, out)
	return err
}

func (r *root) newPullCommand() *cobra.Command {
	var (
		since  int64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull changes made since the last pull",
		Long: `Pull asks the server for every change after the stored watermark, prints
them and stores the new watermark. With --since the given watermark is used
instead and the state file is left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := r.app

			if cmd.Flags().Changed("since") {
				if since < 0 {
					return errNegativeWatermark
				}
				response, err := a.adapter.Pull(ctx, models.Watermark(since))
				if err != nil {
					return err
				}
				return a.printPull(response, asJSON)
			}

			return a.poller(func(_ context.Context, response models.PullResponse) error {
				return a.printPull(response, asJSON)
			}).PullOnce(ctx)
		},
	}

	cmd.Flags().Int64Var(&since, "since", 0, "pull after this watermark (epoch ms) without touching the state file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw change set as JSON")

	return cmd
}

func (r *root) newPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push [file]",
		Short: "Push a change set read from a file or stdin",
		Long: `Push sends a change set shaped like a pull response's "changes" object:
{"<table>": {"created": [...], "updated": [...], "deleted": ["<id>", ...]}}.
Without a file, or with "-", the change set is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := r.app

			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			changes, err := models.DecodeChanges(raw)
			if err != nil {
				return fmt.Errorf("decode change set: %w", err)
			}

			state, err := a.state.Load()
			if err != nil {
				return err
			}

			if err = a.adapter.Push(ctx, state.LastPulledAt, changes); err != nil {
				return err
			}
			return a.printPush(changes)
		},
	}
}

func (r *root) newWatchCommand() *cobra.Command {
	var (
		interval time.Duration
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Pull continuously on an interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if interval > 0 {
				a.cfg.Workers.PullInterval = interval
			}

			poller := a.poller(func(_ context.Context, response models.PullResponse) error {
				return a.printPull(response, asJSON)
			})
			return workers.NewWorkers(poller).Run(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "pull interval (defaults to the configured one)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print every change set as JSON")

	return cmd
}

func (r *root) newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server can serve sync requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.app.adapter.Health(cmd.Context()); err != nil {
				return err
			}
			return r.app.printHealthy()
		},
	}
}

func (r *root) newTokenCommand() *cobra.Command {
	var (
		owner    string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for an owner with the configured sign key",
		Long: `Token signs a token the way the server does, using app.token_sign_key and
app.token_issuer from the configuration. Meant for development setups that
share the server's key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := r.app.cfg.App
			if duration <= 0 {
				duration = app.TokenDuration
			}

			token, err := utils.GenerateJWTToken(app.TokenIssuer, owner, duration, app.TokenSignKey)
			if err != nil {
				return fmt.Errorf("mint token: %w", err)
			}

			_, err = fmt.Fprintln(r.app.out, token.String())
			return err
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner id put into the sub claim")
	cmd.Flags().DurationVar(&duration, "duration", 0, "token lifetime (defaults to app.token_duration)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func (r *root) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(cmd.OutOrStdout(), r.buildInfo)
		},
	}
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read change set: %w", err)
	}
	return data, nil
}
