package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/models"
	"github.com/go-resty/resty/v2"
)

const (
	pullPath   = "/api/sync/pull"
	pushPath   = "/api/sync/push"
	healthPath = "/api/health"
)

type httpSyncAdapter struct {
	client *utils.HTTPClient

	schemaVersion int
	token         string

	logger *logger.Logger
}

// NewHTTPSyncAdapter constructs the REST implementation of [SyncAdapter].
// The base URL is taken from cfg.HTTPAddress; a missing scheme means http.
// Transport errors and 5xx responses are retried cfg.RetryCount times.
func NewHTTPSyncAdapter(cfg config.ClientAdapter, logger *logger.Logger) (SyncAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	a := &httpSyncAdapter{
		client:        utils.NewSyncHTTPClient(baseURL, cfg.RequestTimeout, cfg.RetryCount),
		schemaVersion: cfg.SchemaVersion,
		logger:        logger,
	}
	a.SetToken(cfg.Token)

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpSyncAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

func (h *httpSyncAdapter) Token() string {
	return h.token
}

// Pull implements [SyncAdapter] with GET /api/sync/pull. Numbers in the
// returned records are [json.Number].
func (h *httpSyncAdapter) Pull(ctx context.Context, lastPulledAt models.Watermark) (models.PullResponse, error) {
	req, err := h.syncRequest(ctx, lastPulledAt)
	if err != nil {
		return models.PullResponse{}, err
	}

	resp, err := req.Get(pullPath)
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("pull request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PullResponse{}, err
	}

	var pulled models.PullResponse
	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	if err = dec.Decode(&pulled); err != nil {
		return models.PullResponse{}, fmt.Errorf("decode pull response: %w", err)
	}

	h.logger.Debug().
		Str("func", "*httpSyncAdapter.Pull").
		Int64("last_pulled_at", int64(lastPulledAt)).
		Int64("timestamp", pulled.Timestamp).
		Int("changes", pulled.Changes.Len()).
		Msg("pulled changes")

	return pulled, nil
}

// Push implements [SyncAdapter] with POST /api/sync/push.
func (h *httpSyncAdapter) Push(ctx context.Context, lastPulledAt models.Watermark, changes models.Changes) error {
	body, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("encode push body: %w", err)
	}

	req, err := h.syncRequest(ctx, lastPulledAt)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(pushPath)
	if err != nil {
		return fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.logger.Debug().
		Str("func", "*httpSyncAdapter.Push").
		Int("changes", changes.Len()).
		Msg("pushed changes")

	return nil
}

// Health implements [SyncAdapter] with GET /api/health.
func (h *httpSyncAdapter) Health(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpSyncAdapter) Close() error {
	h.client.GetClient().CloseIdleConnections()
	return nil
}

func (h *httpSyncAdapter) syncRequest(ctx context.Context, lastPulledAt models.Watermark) (*resty.Request, error) {
	if h.token == "" {
		return nil, ErrNoToken
	}

	req := h.client.R().
		SetContext(ctx).
		SetAuthToken(h.token)

	if !lastPulledAt.IsZero() {
		req.SetQueryParam("last_pulled_at", strconv.FormatInt(int64(lastPulledAt), 10))
	}
	if h.schemaVersion > 0 {
		req.SetQueryParam("schema_version", strconv.Itoa(h.schemaVersion))
	}
	return req, nil
}
