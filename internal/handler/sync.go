package handler

import (
	"net/http"

	"armory-api/internal/service"
	"armory-api/pkg/apierror"
	"armory-api/pkg/response"
)

// SyncHandler exposes the inventory sync pipeline over HTTP.
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// TriggerSync handles POST /api/v1/sync. Runs one full sync and returns the
// report; a failed run keeps the structured report shape but carries a 500.
// Callers must serialize their triggers - concurrent runs are not
// coordinated here.
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	report := h.syncService.Run(r.Context())

	status := http.StatusOK
	if !report.Success {
		status = http.StatusInternalServerError
	}
	response.JSON(w, status, report)
}

// GetSyncStatus handles GET /api/v1/sync.
func (h *SyncHandler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	meta, err := h.syncService.Status(r.Context())
	if err != nil {
		response.Error(w, apierror.InternalError("failed to retrieve sync status"))
		return
	}
	response.OK(w, meta)
}
