package handler

import (
	"net/http"
)

// Handlers bundles every route handler
type Handlers struct {
	Health  *HealthHandler
	Folders *FolderHandler
	Items   *ItemHandler
	Uploads *UploadHandler
}

// Register mounts all API routes on mux
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("GET /api/folders", h.Folders.ListFolders)
	mux.HandleFunc("GET /api/folders/tree", h.Folders.GetTree)
	mux.HandleFunc("POST /api/folders", h.Folders.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", h.Folders.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folders.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folders.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/toggle", h.Folders.ToggleExpanded)
	mux.HandleFunc("GET /api/folders/{id}/path", h.Folders.GetFolderPath)

	mux.HandleFunc("GET /api/items", h.Items.ListItems)
	mux.HandleFunc("GET /api/items/{id}", h.Items.GetItem)
	mux.HandleFunc("PATCH /api/items/{id}", h.Items.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", h.Items.DeleteItem)

	mux.HandleFunc("POST /api/uploads", h.Uploads.Upload)
	mux.HandleFunc("GET /api/uploads/inflight", h.Uploads.ListInFlight)
	mux.HandleFunc("GET /api/uploads/sessions", h.Uploads.ListSessions)
	mux.HandleFunc("GET /api/uploads/sessions/{id}", h.Uploads.GetSession)
	mux.HandleFunc("POST /api/uploads/{id}/cancel", h.Uploads.Cancel)
	mux.HandleFunc("DELETE /api/uploads/{id}", h.Uploads.Dismiss)
}
