// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-delta-sync/internal/app"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/service"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/models"
)

const (
	paramLastPulledAt  = "last_pulled_at"
	paramSchemaVersion = "schema_version"

	maxPushBodySize = 32 << 20
)

// pull serves GET /api/sync/pull.
func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pull").Msg("no owner ID was given")
		utils.WriteStatus(w, app.MsgNoOwnerIDProvided, http.StatusBadRequest)
		return
	}

	watermark, version, err := syncParams(r)
	if err != nil {
		h.writeError(w, r, "*Handler.pull", err)
		return
	}

	response, err := h.services.SyncService.Pull(ctx, models.PullRequest{
		OwnerID:       ownerID,
		LastPulledAt:  watermark,
		SchemaVersion: version,
	})
	if err != nil {
		h.writeError(w, r, "*Handler.pull", err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// push serves POST /api/sync/push. The body is handed to the service as
// received; its shape is checked there.
func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.push").Msg("no owner ID was given")
		utils.WriteStatus(w, app.MsgNoOwnerIDProvided, http.StatusBadRequest)
		return
	}

	watermark, version, err := syncParams(r)
	if err != nil {
		h.writeError(w, r, "*Handler.push", err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPushBodySize))
	if err != nil {
		log.Err(err).Str("func", "*Handler.push").Msg("failed to read request body")
		utils.WriteStatus(w, app.MsgMalformedPushBody, http.StatusBadRequest)
		return
	}

	_, err = h.services.SyncService.Push(ctx, models.PushRequest{
		OwnerID:       ownerID,
		LastPulledAt:  watermark,
		SchemaVersion: version,
		Body:          body,
	})
	if err != nil {
		h.writeError(w, r, "*Handler.push", err)
		return
	}

	utils.WriteStatus(w, models.StatusOK, http.StatusOK)
}

// syncParams reads the watermark and schema version from the query string.
// A missing schema_version means the current one.
func syncParams(r *http.Request) (models.Watermark, int, error) {
	query := r.URL.Query()

	watermark, err := service.ParseWatermark(query.Get(paramLastPulledAt))
	if err != nil {
		return 0, 0, err
	}

	var version int
	if raw := strings.TrimSpace(query.Get(paramSchemaVersion)); raw != "" && raw != "null" {
		version, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchemaVersion, raw)
		}
	}

	return watermark, version, nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status, message := responseFromError(err)

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", fn).Int("status", status).Msg("sync request failed")

	utils.WriteStatus(w, message, status)
}
