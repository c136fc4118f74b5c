package handler

import (
	"log/slog"
	"net/http"

	"filedrop/internal/domain/models"
	"filedrop/internal/domain/services"
	"filedrop/internal/httputil"
)

// ItemHandler handles stored item requests
type ItemHandler struct {
	itemService services.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService services.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{itemService: itemService, logger: logger}
}

// ListItems lists items, optionally filtered by ?folder_id and ?status
// GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter := models.ItemFilter{FolderID: httputil.OptionalQuery(r, "folder_id")}
	if status := httputil.OptionalQuery(r, "status"); status != nil {
		s := models.ItemStatus(*status)
		filter.Status = &s
	}

	items, err := h.itemService.ListItems(r.Context(), filter)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

// GetItem retrieves one item
// GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.itemService.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// UpdateItem renames or refiles an item
// PATCH /api/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateItemRequest
	if !parseBody(w, r, &req) {
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem removes an item
// DELETE /api/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if _, err := h.itemService.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
