package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MKhiriev/go-delta-sync/internal/app"
	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/mock"
	"github.com/MKhiriev/go-delta-sync/internal/service"
	"github.com/MKhiriev/go-delta-sync/internal/store"
	"github.com/MKhiriev/go-delta-sync/models"
)

const testToken = "good-token"

type testServices struct {
	sync   *mock.MockSyncService
	auth   *mock.MockAuthService
	health *mock.MockHealthService
}

type testServer struct {
	client *SyncClient
	conn   *grpc.ClientConn
	mocks  testServices
}

func newTestServer(t *testing.T, cfg config.Server) testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	mocks := testServices{
		sync:   mock.NewMockSyncService(ctrl),
		auth:   mock.NewMockAuthService(ctrl),
		health: mock.NewMockHealthService(ctrl),
	}
	h := NewHandler(&service.Services{
		SyncService:   mocks.sync,
		AuthService:   mocks.auth,
		HealthService: mocks.health,
	}, cfg, logger.Nop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(h.ServerOptions()...)
	h.Register(srv)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return testServer{client: NewSyncClient(conn), conn: conn, mocks: mocks}
}

func (s testServer) expectOwner(ownerID string) {
	s.mocks.auth.EXPECT().
		ParseToken(gomock.Any(), testToken).
		Return(models.Token{OwnerID: ownerID}, nil)
}

func authContext() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), authorizationKey, "Bearer "+testToken)
}

func ptr(v int64) *int64 { return &v }

func requireCode(t *testing.T, err error, code codes.Code, message string) {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok, "expected a gRPC status, got %v", err)
	assert.Equal(t, code, st.Code())
	assert.Equal(t, message, st.Message())
}

// ─────────────────────────────────────────────
// Pull
// ─────────────────────────────────────────────

func TestPull_Success(t *testing.T) {
	s := newTestServer(t, config.Server{})
	s.expectOwner("u1")
	s.mocks.sync.EXPECT().
		Pull(gomock.Any(), models.PullRequest{OwnerID: "u1", LastPulledAt: 1700, SchemaVersion: 2}).
		Return(models.PullResponse{
			Changes: models.Changes{"weights": {
				Created: []models.Record{{"id": "w1", "weight": 70.5}},
				Updated: []models.Record{},
				Deleted: []string{"w0"},
			}},
			Timestamp: 1800,
		}, nil)

	resp, err := s.client.Pull(authContext(), &PullRequest{LastPulledAt: ptr(1700), SchemaVersion: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(1800), resp.Timestamp)
	weights := resp.Changes["weights"]
	require.Len(t, weights.Created, 1)
	assert.Equal(t, "w1", weights.Created[0]["id"])
	assert.Equal(t, json.Number("70.5"), weights.Created[0]["weight"])
	assert.Equal(t, []string{"w0"}, weights.Deleted)
}

func TestPull_NullWatermark(t *testing.T) {
	s := newTestServer(t, config.Server{})
	s.expectOwner("u1")
	s.mocks.sync.EXPECT().
		Pull(gomock.Any(), models.PullRequest{OwnerID: "u1"}).
		Return(models.PullResponse{Changes: models.Changes{}, Timestamp: 1}, nil)

	_, err := s.client.Pull(authContext(), &PullRequest{})

	require.NoError(t, err)
}

func TestPull_NegativeWatermark(t *testing.T) {
	s := newTestServer(t, config.Server{})
	s.expectOwner("u1")

	_, err := s.client.Pull(authContext(), &PullRequest{LastPulledAt: ptr(-1)})

	requireCode(t, err, codes.InvalidArgument, app.MsgInvalidWatermark)
}

func TestPull_Unauthenticated(t *testing.T) {
	s := newTestServer(t, config.Server{})

	_, err := s.client.Pull(context.Background(), &PullRequest{})
	requireCode(t, err, codes.Unauthenticated, app.MsgMissingAuthorization)

	s.mocks.auth.EXPECT().ParseToken(gomock.Any(), testToken).
		Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)
	_, err = s.client.Pull(authContext(), &PullRequest{})
	requireCode(t, err, codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid)
}

func TestPull_RecoversFromPanic(t *testing.T) {
	s := newTestServer(t, config.Server{})
	s.expectOwner("u1")
	s.mocks.sync.EXPECT().Pull(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.PullRequest) (models.PullResponse, error) {
			panic("boom")
		})

	_, err := s.client.Pull(authContext(), &PullRequest{})

	requireCode(t, err, codes.Internal, app.MsgInternalServerError)
}

func TestPull_EchoesTraceID(t *testing.T) {
	s := newTestServer(t, config.Server{})
	s.expectOwner("u1")
	s.mocks.sync.EXPECT().Pull(gomock.Any(), gomock.Any()).
		Return(models.PullResponse{Changes: models.Changes{}}, nil)

	ctx := metadata.AppendToOutgoingContext(authContext(), traceIDKey, "trace-7")
	var header metadata.MD
	_, err := s.client.Pull(ctx, &PullRequest{}, grpc.Header(&header))

	require.NoError(t, err)
	assert.Equal(t, []string{"trace-7"}, header.Get(traceIDKey))
}

// ─────────────────────────────────────────────
// Push
// ─────────────────────────────────────────────

const pushChanges = `{"profiles":{"created":[{"id":"p1","name":"Ann"}],"updated":[],"deleted":[]}}`

func TestPush_Success(t *testing.T) {
	s := newTestServer(t, config.Server{})
	s.expectOwner("u1")
	s.mocks.sync.EXPECT().
		Push(gomock.Any(), models.PushRequest{OwnerID: "u1", LastPulledAt: 5, Body: []byte(pushChanges)}).
		Return(models.PushResult{}, nil)

	resp, err := s.client.Push(authContext(), &PushRequest{LastPulledAt: ptr(5), Changes: json.RawMessage(pushChanges)})

	require.NoError(t, err)
	assert.Equal(t, models.StatusOK, resp.Status)
}

func TestPush_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    codes.Code
		wantMessage string
	}{
		{"foreign record", fmt.Errorf("%w: profiles", service.ErrForeignRecord), codes.PermissionDenied, app.MsgAccessDenied},
		{"malformed body", service.ErrMalformedPush, codes.InvalidArgument, app.MsgMalformedPushBody},
		{"store failure", fmt.Errorf("%w: %w", service.ErrApplyingChanges, store.ErrExecutingStatement), codes.Internal, app.MsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, config.Server{})
			s.expectOwner("u1")
			s.mocks.sync.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.PushResult{}, tt.err)

			_, err := s.client.Push(authContext(), &PushRequest{Changes: json.RawMessage(pushChanges)})

			requireCode(t, err, tt.wantCode, tt.wantMessage)
		})
	}
}

// ─────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.Server{})
	health := healthpb.NewHealthClient(s.conn)

	s.mocks.health.EXPECT().Check(gomock.Any()).Return(nil)
	resp, err := health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	s.mocks.health.EXPECT().Check(gomock.Any()).Return(errors.New("db down"))
	resp, err = health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	_, err = health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "other.Service"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
