package adapter

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	grpchandler "github.com/MKhiriev/go-delta-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/models"
)

// fakeSyncServer records what the adapter sent and answers with canned
// values.
type fakeSyncServer struct {
	pullIn    *grpchandler.PullRequest
	pushIn    *grpchandler.PushRequest
	authority string
	err       error
}

func (f *fakeSyncServer) Pull(ctx context.Context, in *grpchandler.PullRequest) (*grpchandler.PullResponse, error) {
	f.pullIn = in
	f.authority = authorization(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &grpchandler.PullResponse{
		Changes: models.Changes{"profiles": {
			Created: []models.Record{{"id": "p1", "height": 180}},
			Updated: []models.Record{},
			Deleted: []string{},
		}},
		Timestamp: 1_700_000_000_000,
	}, nil
}

func (f *fakeSyncServer) Push(ctx context.Context, in *grpchandler.PushRequest) (*grpchandler.PushResponse, error) {
	f.pushIn = in
	f.authority = authorization(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &grpchandler.PushResponse{Status: models.StatusOK}, nil
}

func authorization(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if values := md.Get("authorization"); len(values) > 0 {
		return values[0]
	}
	return ""
}

func newTestGRPCAdapter(t *testing.T, fake *fakeSyncServer) (*grpcSyncAdapter, *health.Server) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	srv.RegisterService(&grpchandler.SyncServiceDesc, fake)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	a := newGRPCSyncAdapter(conn, config.ClientAdapter{
		Token:          "grpc-token",
		RequestTimeout: time.Second,
		SchemaVersion:  3,
	}, logger.Nop())
	t.Cleanup(func() { a.Close() })

	return a, healthSrv
}

func TestNewGRPCSyncAdapter_EmptyAddress(t *testing.T) {
	_, err := NewGRPCSyncAdapter(config.ClientAdapter{}, logger.Nop())
	assert.Error(t, err)
}

func TestGRPCPull(t *testing.T) {
	fake := &fakeSyncServer{}
	a, _ := newTestGRPCAdapter(t, fake)

	got, err := a.Pull(context.Background(), 1234)
	require.NoError(t, err)

	assert.Equal(t, "Bearer grpc-token", fake.authority)
	require.NotNil(t, fake.pullIn.LastPulledAt)
	assert.Equal(t, int64(1234), *fake.pullIn.LastPulledAt)
	assert.Equal(t, 3, fake.pullIn.SchemaVersion)

	assert.Equal(t, int64(1_700_000_000_000), got.Timestamp)
	require.Len(t, got.Changes["profiles"].Created, 1)
	assert.Equal(t, json.Number("180"), got.Changes["profiles"].Created[0]["height"])
}

func TestGRPCPull_ZeroWatermarkIsNull(t *testing.T) {
	fake := &fakeSyncServer{}
	a, _ := newTestGRPCAdapter(t, fake)

	_, err := a.Pull(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, fake.pullIn.LastPulledAt)
}

func TestGRPCPush(t *testing.T) {
	fake := &fakeSyncServer{}
	a, _ := newTestGRPCAdapter(t, fake)

	changes := models.Changes{"weights": {
		Created: []models.Record{},
		Updated: []models.Record{{"id": "w1", "weight": 80}},
		Deleted: []string{},
	}}
	require.NoError(t, a.Push(context.Background(), 99, changes))

	require.NotNil(t, fake.pushIn)
	assert.Equal(t, int64(99), *fake.pushIn.LastPulledAt)
	assert.JSONEq(t, `{"weights":{"created":[],"updated":[{"id":"w1","weight":80}],"deleted":[]}}`, string(fake.pushIn.Changes))
}

func TestGRPCErrors(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{code: codes.InvalidArgument, want: ErrBadRequest},
		{code: codes.Unauthenticated, want: ErrUnauthorized},
		{code: codes.PermissionDenied, want: ErrForbidden},
		{code: codes.Unavailable, want: ErrServerUnavailable},
		{code: codes.Internal, want: ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			fake := &fakeSyncServer{err: status.Error(tt.code, "rejected")}
			a, _ := newTestGRPCAdapter(t, fake)

			_, err := a.Pull(context.Background(), 0)
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "rejected")
		})
	}
}

func TestGRPCRequiresToken(t *testing.T) {
	a, _ := newTestGRPCAdapter(t, &fakeSyncServer{})
	a.SetToken("")

	_, err := a.Pull(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestGRPCHealth(t *testing.T) {
	a, healthSrv := newTestGRPCAdapter(t, &fakeSyncServer{})

	healthSrv.SetServingStatus(grpchandler.ServiceName, healthpb.HealthCheckResponse_SERVING)
	require.NoError(t, a.Health(context.Background()))

	healthSrv.SetServingStatus(grpchandler.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	assert.ErrorIs(t, a.Health(context.Background()), ErrServerUnavailable)
}
