// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-delta-sync/internal/adapter"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/models"
)

const defaultPullInterval = 30 * time.Second

// PullHandler receives every successful pull, before the new watermark is
// stored. An error keeps the old watermark so the same changes are pulled
// again.
type PullHandler func(ctx context.Context, response models.PullResponse) error

// PullPoller pulls changes on a fixed interval and advances the stored
// watermark to the server timestamp of each pull.
type PullPoller struct {
	adapter  adapter.SyncAdapter
	state    *FileState
	interval time.Duration
	handle   PullHandler

	logger *logger.Logger
}

// NewPullPoller creates a poller. A non-positive interval means 30 seconds;
// a nil handle discards the pulled changes.
func NewPullPoller(syncAdapter adapter.SyncAdapter, state *FileState, interval time.Duration, handle PullHandler, logger *logger.Logger) *PullPoller {
	if interval <= 0 {
		interval = defaultPullInterval
	}
	if handle == nil {
		handle = func(context.Context, models.PullResponse) error { return nil }
	}

	return &PullPoller{
		adapter:  syncAdapter,
		state:    state,
		interval: interval,
		handle:   handle,
		logger:   logger,
	}
}

// Run implements [Worker]. It pulls once right away and then on every tick.
// Failures the server would repeat for the same request (bad credentials,
// rejected parameters) stop the poller; anything else is retried on the
// next tick.
func (p *PullPoller) Run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for ctx.Err() == nil {
		if err := p.PullOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if isPermanent(err) {
				return err
			}
			p.logger.Warn().Err(err).Str("func", "*PullPoller.Run").Msg("pull failed, retrying on next tick")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
	return nil
}

// PullOnce pulls everything after the stored watermark, hands the result to
// the handler and stores the new watermark.
func (p *PullPoller) PullOnce(ctx context.Context) error {
	state, err := p.state.Load()
	if err != nil {
		return err
	}

	response, err := p.adapter.Pull(ctx, state.LastPulledAt)
	if err != nil {
		return fmt.Errorf("pull after %d: %w", state.LastPulledAt, err)
	}

	if err = p.handle(ctx, response); err != nil {
		return fmt.Errorf("handle pulled changes: %w", err)
	}

	if err = p.state.Save(State{LastPulledAt: models.Watermark(response.Timestamp)}); err != nil {
		return err
	}

	p.logger.Info().
		Str("func", "*PullPoller.PullOnce").
		Int64("last_pulled_at", int64(state.LastPulledAt)).
		Int64("timestamp", response.Timestamp).
		Int("changes", response.Changes.Len()).
		Msg("pulled changes")

	return nil
}

func isPermanent(err error) bool {
	return errors.Is(err, adapter.ErrUnauthorized) ||
		errors.Is(err, adapter.ErrForbidden) ||
		errors.Is(err, adapter.ErrBadRequest) ||
		errors.Is(err, adapter.ErrNoToken)
}
