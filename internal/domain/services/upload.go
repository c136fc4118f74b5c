package services

import (
	"context"

	"filedrop/internal/domain/models"
)

// UploadService runs upload batches and exposes their progress
type UploadService interface {
	// UploadBatch validates and processes raws concurrently, storing successes in folderID.
	// Blocks until every accepted item reached a terminal state.
	UploadBatch(ctx context.Context, folderID *string, raws []models.RawItem) (*models.UploadBatchResult, error)

	// InFlight returns uploading and failed records
	InFlight(ctx context.Context) []models.InFlightUpload

	// CancelUpload stops one in-flight item
	CancelUpload(ctx context.Context, uploadID string) error

	// DismissFailed drops a retained failed record
	DismissFailed(ctx context.Context, uploadID string) error

	ListSessions(ctx context.Context) ([]models.UploadSession, error)
	GetSession(ctx context.Context, id string) (*models.UploadSession, error)
}

// UploadRequest is the JSON form of an upload batch
type UploadRequest struct {
	FolderID *string          `json:"folder_id,omitempty"`
	Items    []models.RawItem `json:"items"`
}
