package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"filedrop/internal/config"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/services"
	"filedrop/internal/httputil"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk
const multipartMemory = 32 << 20

// UploadHandler handles upload batch requests
type UploadHandler struct {
	uploadService services.UploadService
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService services.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, logger: logger}
}

// Upload runs one batch. The body is either multipart form data with one or more
// "files" parts, or JSON of the form {"folder_id": ..., "items": [...]}.
// ?folder_id selects the target folder when the body does not.
// POST /api/uploads
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	folderID := httputil.OptionalQuery(r, "folder_id")

	var raws []models.RawItem
	if httputil.IsJSON(r) {
		var req services.UploadRequest
		if !parseBody(w, r, &req) {
			return
		}
		if req.FolderID != nil {
			folderID = req.FolderID
		}
		raws = req.Items
	} else {
		var ok bool
		if raws, ok = h.readMultipart(w, r); !ok {
			return
		}
		if v := r.FormValue("folder_id"); v != "" {
			folderID = &v
		}
	}

	result, err := h.uploadService.UploadBatch(r.Context(), folderID, raws)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

func (h *UploadHandler) readMultipart(w http.ResponseWriter, r *http.Request) ([]models.RawItem, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadRequestBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", config.MaxUploadRequestBytes))
			return nil, false
		}
		httputil.RespondError(w, http.StatusBadRequest, "expected multipart form data with \"files\" parts")
		return nil, false
	}

	files := r.MultipartForm.File["files"]
	raws := make([]models.RawItem, 0, len(files))
	for _, fh := range files {
		raws = append(raws, models.RawItem{
			Name: fh.Filename,
			Size: fh.Size,
			Type: fh.Header.Get("Content-Type"),
			URL:  "upload://" + url.PathEscape(fh.Filename),
		})
	}
	return raws, true
}

// ListInFlight returns uploading and failed records
// GET /api/uploads/inflight
func (h *UploadHandler) ListInFlight(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.uploadService.InFlight(r.Context()))
}

// Cancel stops one in-flight item
// POST /api/uploads/{id}/cancel
func (h *UploadHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.uploadService.CancelUpload(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Dismiss drops a failed record
// DELETE /api/uploads/{id}
func (h *UploadHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.uploadService.DismissFailed(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSessions returns every upload session
// GET /api/uploads/sessions
func (h *UploadHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.uploadService.ListSessions(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sessions)
}

// GetSession returns one upload session
// GET /api/uploads/sessions/{id}
func (h *UploadHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.uploadService.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}
