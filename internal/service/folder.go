package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/services"
	"filedrop/internal/store"
)

type folderService struct {
	folders *store.FolderStore
	filer   *store.Filer
	paths   *PathResolver
	logger  *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folders *store.FolderStore,
	filer *store.Filer,
	paths *PathResolver,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folders: folders,
		filer:   filer,
		paths:   paths,
		logger:  logger,
	}
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, domain.NewValidation("%v", err)
	}

	// Normalize empty string to nil for root-level folders (consistent with UPDATE)
	parentID := req.FolderID
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	folder, err := s.folders.Create(ctx, req.Name, parentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return &folder, nil
}

// GetFolder retrieves a folder
func (s *folderService) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	folder, err := s.folders.Get(id)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// UpdateFolder renames, moves or expands/collapses a folder
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, domain.NewValidation("%v", err)
	}

	patch := models.FolderPatch{
		Name:       req.Name,
		IsExpanded: req.IsExpanded,
	}
	if req.FolderID.Present {
		patch.SetParent = true
		// Empty string moves to root, same as null
		if req.FolderID.Value != nil && *req.FolderID.Value != "" {
			patch.ParentID = req.FolderID.Value
		}
	}

	folder, err := s.folders.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"is_expanded", folder.IsExpanded,
	)

	return &folder, nil
}

// DeleteFolder deletes a folder with all of its subfolders.
// Items filed in any deleted folder are moved to the unfiled (null) folder.
func (s *folderService) DeleteFolder(ctx context.Context, id string) (*services.DeleteFolderResult, error) {
	deleted, unfiled, err := s.filer.DeleteFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"deleted_count", len(deleted),
		"unfiled_items", unfiled,
	)

	return &services.DeleteFolderResult{
		DeletedIDs:   deleted,
		UnfiledItems: unfiled,
	}, nil
}

// ToggleExpanded flips the expanded flag
func (s *folderService) ToggleExpanded(ctx context.Context, id string) (*models.Folder, error) {
	folder, err := s.folders.ToggleExpanded(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("folder toggled", "id", id, "is_expanded", folder.IsExpanded)
	return &folder, nil
}

// ListChildren lists the immediate children of a folder
func (s *folderService) ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error) {
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil && !s.folders.Exists(*parentID) {
		return nil, domain.NewNotFound("folder", *parentID)
	}
	return s.folders.GetByParentID(parentID)
}

// GetFolderTree builds the nested folder forest
func (s *folderService) GetFolderTree(ctx context.Context) ([]*models.FolderNode, error) {
	roots, err := s.folders.Tree()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("folder tree built", "folder_count", store.CountNodes(roots))
	return roots, nil
}

// GetFolderPath returns the display path of a folder
func (s *folderService) GetFolderPath(ctx context.Context, id string) (string, error) {
	return s.paths.Resolve(id)
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderNameLength),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	// At least one field must be provided
	if req.Name == nil && !req.FolderID.Present && req.IsExpanded == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Name == nil {
		return nil
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderNameLength),
		),
	)
}
