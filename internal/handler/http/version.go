package http

import (
	"net/http"

	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(serverVersion))
}

// checkHealth answers once the store responds to a ping.
func (h *Handler) checkHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.services.HealthService.Check(r.Context()); err != nil {
		status, message := responseFromError(err)
		logger.FromRequest(r).Err(err).Str("func", "*Handler.checkHealth").Msg("health check failed")
		utils.WriteStatus(w, message, status)
		return
	}

	utils.WriteStatus(w, models.StatusOK, http.StatusOK)
}
