package service

import (
	"context"
	"fmt"
	"log/slog"

	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/services"
	"filedrop/internal/store"
	"filedrop/internal/upload"
)

type uploadService struct {
	pipeline *upload.Pipeline
	folders  *store.FolderStore
	sessions *store.SessionStore
	logger   *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(
	pipeline *upload.Pipeline,
	folders *store.FolderStore,
	sessions *store.SessionStore,
	logger *slog.Logger,
) services.UploadService {
	return &uploadService{
		pipeline: pipeline,
		folders:  folders,
		sessions: sessions,
		logger:   logger,
	}
}

// UploadBatch runs one batch through the pipeline and records it as a session
func (s *uploadService) UploadBatch(ctx context.Context, folderID *string, raws []models.RawItem) (*models.UploadBatchResult, error) {
	if len(raws) == 0 {
		return nil, domain.NewValidation("no items to upload")
	}
	if len(raws) > config.MaxUploadBatchItems {
		return nil, domain.NewValidation("too many items: %d (max %d)", len(raws), config.MaxUploadBatchItems)
	}
	if folderID != nil && *folderID == "" {
		folderID = nil
	}
	if folderID != nil && !s.folders.Exists(*folderID) {
		return nil, domain.NewNotFound("folder", *folderID)
	}

	session, err := s.sessions.Create(ctx, folderID, len(raws))
	if err != nil {
		return nil, fmt.Errorf("failed to open upload session: %w", err)
	}

	s.logger.Info("upload batch started",
		"session_id", session.ID,
		"folder_id", folderID,
		"items", len(raws),
	)

	result := s.pipeline.Run(ctx, session.ID, folderID, raws)

	// the batch already ran; a session bookkeeping failure must not hide its result
	if _, err := s.sessions.Complete(context.WithoutCancel(ctx), session.ID,
		len(result.Stored), len(result.ValidationErrors), result.TransientFailures); err != nil {
		s.logger.Error("failed to complete upload session", "session_id", session.ID, "error", err)
	}

	if len(result.Stored) > 0 {
		s.logger.Info("upload batch stored items",
			"session_id", session.ID,
			"stored", len(result.Stored),
		)
	}
	for _, msg := range result.ValidationErrors {
		s.logger.Warn("upload item rejected", "session_id", session.ID, "reason", msg)
	}

	return &result, nil
}

// InFlight returns uploading and failed records
func (s *uploadService) InFlight(ctx context.Context) []models.InFlightUpload {
	return s.pipeline.Tracker().Snapshot()
}

// CancelUpload stops one in-flight item
func (s *uploadService) CancelUpload(ctx context.Context, uploadID string) error {
	if err := s.pipeline.Cancel(uploadID); err != nil {
		return err
	}
	s.logger.Info("upload cancelled", "upload_id", uploadID)
	return nil
}

// DismissFailed drops a retained failed record
func (s *uploadService) DismissFailed(ctx context.Context, uploadID string) error {
	return s.pipeline.Tracker().Dismiss(uploadID)
}

// ListSessions returns every upload session, oldest first
func (s *uploadService) ListSessions(ctx context.Context) ([]models.UploadSession, error) {
	return s.sessions.List()
}

// GetSession returns one upload session
func (s *uploadService) GetSession(ctx context.Context, id string) (*models.UploadSession, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
