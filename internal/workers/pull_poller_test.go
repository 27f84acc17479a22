package workers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-delta-sync/internal/adapter"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/mock"
	"github.com/MKhiriev/go-delta-sync/models"
)

func newTestPoller(t *testing.T, handle PullHandler) (*PullPoller, *mock.MockSyncAdapter, *FileState) {
	t.Helper()
	ctrl := gomock.NewController(t)
	syncAdapter := mock.NewMockSyncAdapter(ctrl)
	state := NewFileState(filepath.Join(t.TempDir(), "state.json"))
	return NewPullPoller(syncAdapter, state, time.Millisecond, handle, logger.Nop()), syncAdapter, state
}

func TestNewPullPoller_Defaults(t *testing.T) {
	p := NewPullPoller(nil, nil, 0, nil, logger.Nop())
	assert.Equal(t, defaultPullInterval, p.interval)
	assert.NoError(t, p.handle(context.Background(), models.PullResponse{}))
}

func TestPullOnce_AdvancesWatermark(t *testing.T) {
	var handled models.PullResponse
	p, syncAdapter, state := newTestPoller(t, func(_ context.Context, r models.PullResponse) error {
		handled = r
		return nil
	})

	first := models.PullResponse{Changes: models.Changes{}, Timestamp: 100}
	second := models.PullResponse{Changes: models.Changes{}, Timestamp: 200}
	gomock.InOrder(
		syncAdapter.EXPECT().Pull(gomock.Any(), models.Watermark(0)).Return(first, nil),
		syncAdapter.EXPECT().Pull(gomock.Any(), models.Watermark(100)).Return(second, nil),
	)

	require.NoError(t, p.PullOnce(context.Background()))
	require.NoError(t, p.PullOnce(context.Background()))

	assert.Equal(t, second, handled)
	stored, err := state.Load()
	require.NoError(t, err)
	assert.EqualValues(t, 200, stored.LastPulledAt)
}

func TestPullOnce_FailureKeepsWatermark(t *testing.T) {
	handleErr := errors.New("local store is full")
	p, syncAdapter, state := newTestPoller(t, func(context.Context, models.PullResponse) error {
		return handleErr
	})
	require.NoError(t, state.Save(State{LastPulledAt: 50}))

	syncAdapter.EXPECT().Pull(gomock.Any(), models.Watermark(50)).
		Return(models.PullResponse{Timestamp: 60}, nil)
	assert.ErrorIs(t, p.PullOnce(context.Background()), handleErr)

	syncAdapter.EXPECT().Pull(gomock.Any(), models.Watermark(50)).
		Return(models.PullResponse{}, adapter.ErrServerUnavailable)
	assert.ErrorIs(t, p.PullOnce(context.Background()), adapter.ErrServerUnavailable)

	stored, err := state.Load()
	require.NoError(t, err)
	assert.EqualValues(t, 50, stored.LastPulledAt)
}

func TestRun_TransientErrorsAreRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, syncAdapter, state := newTestPoller(t, nil)
	gomock.InOrder(
		syncAdapter.EXPECT().Pull(gomock.Any(), models.Watermark(0)).
			Return(models.PullResponse{}, adapter.ErrServerUnavailable),
		syncAdapter.EXPECT().Pull(gomock.Any(), models.Watermark(0)).
			DoAndReturn(func(context.Context, models.Watermark) (models.PullResponse, error) {
				cancel()
				return models.PullResponse{Timestamp: 10}, nil
			}),
	)

	require.NoError(t, p.Run(ctx))

	stored, err := state.Load()
	require.NoError(t, err)
	assert.EqualValues(t, 10, stored.LastPulledAt)
}

func TestRun_PermanentErrorStops(t *testing.T) {
	p, syncAdapter, _ := newTestPoller(t, nil)
	syncAdapter.EXPECT().Pull(gomock.Any(), gomock.Any()).
		Return(models.PullResponse{}, adapter.ErrUnauthorized)

	assert.ErrorIs(t, p.Run(context.Background()), adapter.ErrUnauthorized)
}
