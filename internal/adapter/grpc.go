package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	grpchandler "github.com/MKhiriev/go-delta-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

type grpcSyncAdapter struct {
	conn   *grpc.ClientConn
	client *grpchandler.SyncClient
	health healthpb.HealthClient

	requestTimeout time.Duration
	schemaVersion  int
	token          string

	logger *logger.Logger
}

// NewGRPCSyncAdapter constructs the gRPC implementation of [SyncAdapter]
// for the server at cfg.GRPCAddress. The connection is plaintext.
func NewGRPCSyncAdapter(cfg config.ClientAdapter, logger *logger.Logger) (SyncAdapter, error) {
	address := strings.TrimSpace(cfg.GRPCAddress)
	if address == "" {
		return nil, fmt.Errorf("invalid adapter grpc address: empty address")
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	return newGRPCSyncAdapter(conn, cfg, logger), nil
}

func newGRPCSyncAdapter(conn *grpc.ClientConn, cfg config.ClientAdapter, logger *logger.Logger) *grpcSyncAdapter {
	a := &grpcSyncAdapter{
		conn:           conn,
		client:         grpchandler.NewSyncClient(conn),
		health:         healthpb.NewHealthClient(conn),
		requestTimeout: cfg.RequestTimeout,
		schemaVersion:  cfg.SchemaVersion,
		logger:         logger,
	}
	a.SetToken(cfg.Token)
	return a
}

func (g *grpcSyncAdapter) SetToken(token string) {
	g.token = strings.TrimSpace(token)
}

func (g *grpcSyncAdapter) Token() string {
	return g.token
}

func (g *grpcSyncAdapter) Pull(ctx context.Context, lastPulledAt models.Watermark) (models.PullResponse, error) {
	ctx, cancel, err := g.callContext(ctx)
	if err != nil {
		return models.PullResponse{}, err
	}
	defer cancel()

	resp, err := g.client.Pull(ctx, &grpchandler.PullRequest{
		LastPulledAt:  watermarkField(lastPulledAt),
		SchemaVersion: g.schemaVersion,
	})
	if err != nil {
		return models.PullResponse{}, mapGRPCError(err)
	}

	g.logger.Debug().
		Str("func", "*grpcSyncAdapter.Pull").
		Int64("last_pulled_at", int64(lastPulledAt)).
		Int64("timestamp", resp.Timestamp).
		Int("changes", resp.Changes.Len()).
		Msg("pulled changes")

	return *resp, nil
}

func (g *grpcSyncAdapter) Push(ctx context.Context, lastPulledAt models.Watermark, changes models.Changes) error {
	body, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("encode push body: %w", err)
	}

	ctx, cancel, err := g.callContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	_, err = g.client.Push(ctx, &grpchandler.PushRequest{
		LastPulledAt:  watermarkField(lastPulledAt),
		SchemaVersion: g.schemaVersion,
		Changes:       body,
	})
	return mapGRPCError(err)
}

// Health implements [SyncAdapter] with the standard gRPC health check of
// the sync service.
func (g *grpcSyncAdapter) Health(ctx context.Context) error {
	if g.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()
	}

	resp, err := g.health.Check(ctx, &healthpb.HealthCheckRequest{Service: grpchandler.ServiceName})
	if err != nil {
		return mapGRPCError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrServerUnavailable, resp.GetStatus())
	}
	return nil
}

func (g *grpcSyncAdapter) Close() error {
	return g.conn.Close()
}

func (g *grpcSyncAdapter) callContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if g.token == "" {
		return nil, nil, ErrNoToken
	}

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+g.token)
	if g.requestTimeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, g.requestTimeout)
		return ctx, cancel, nil
	}
	return ctx, func() {}, nil
}

func watermarkField(w models.Watermark) *int64 {
	if w.IsZero() {
		return nil
	}
	ms := int64(w)
	return &ms
}
