package handler

import (
	"net/http"

	"armory-api/internal/config"
	"armory-api/pkg/response"
)

// DebugHandler reports which configuration settings are present, for
// troubleshooting deployments. Values are never echoed, only presence.
type DebugHandler struct {
	cfg *config.Config
}

// NewDebugHandler creates a new debug handler.
func NewDebugHandler(cfg *config.Config) *DebugHandler {
	return &DebugHandler{cfg: cfg}
}

// GetConfig handles GET /api/v1/debug/config.
func (h *DebugHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{
		"feed": map[string]interface{}{
			"hostSet":          h.cfg.Feed.Host != "",
			"userSet":          h.cfg.Feed.User != "",
			"passwordSet":      h.cfg.Feed.Password != "",
			"secure":           h.cfg.Feed.Secure,
			"inventoryPathSet": h.cfg.Feed.InventoryPath != "",
			"encoding":         h.cfg.Feed.Encoding,
			"maxRecords":       h.cfg.Feed.MaxRecords,
		},
		"sync": map[string]interface{}{
			"budget":              h.cfg.Sync.Budget.String(),
			"debugExposeFileList": h.cfg.Sync.DebugExposeFileList,
		},
		"store": map[string]interface{}{
			"type":      h.cfg.Store.Type,
			"batchSize": h.cfg.Store.BatchSize,
		},
	})
}
