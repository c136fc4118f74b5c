package handler

import (
	"net/http"

	"filedrop/internal/httputil"
)

// Counter reports how many records a store holds
type Counter interface {
	Len() int
}

// HealthHandler reports liveness and store sizes
type HealthHandler struct {
	folders Counter
	items   Counter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(folders, items Counter) *HealthHandler {
	return &HealthHandler{folders: folders, items: items}
}

// Health returns 200 with basic counts
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"folders": h.folders.Len(),
		"items":   h.items.Len(),
	})
}
