package services

import (
	"context"

	"filedrop/internal/domain/models"
	"filedrop/internal/httputil"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder under req.FolderID (nil = root)
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder by ID
	GetFolder(ctx context.Context, id string) (*models.Folder, error)

	// UpdateFolder renames, moves, or sets the expanded flag of a folder
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder and all of its descendants
	DeleteFolder(ctx context.Context, id string) (*DeleteFolderResult, error)

	// ToggleExpanded flips the expanded flag
	ToggleExpanded(ctx context.Context, id string) (*models.Folder, error)

	// ListChildren lists the immediate children of a folder (nil = root folders)
	ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error)

	// GetFolderTree builds the nested folder forest
	GetFolderTree(ctx context.Context) ([]*models.FolderNode, error)

	// GetFolderPath returns the " / " separated path from the root to the folder
	GetFolderPath(ctx context.Context, id string) (string, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	FolderID *string `json:"folder_id,omitempty"` // Parent folder ID (null for root)
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name       *string                 `json:"name,omitempty"`        // rename
	FolderID   httputil.OptionalString `json:"folder_id"`             // move (null = root, absent = keep)
	IsExpanded *bool                   `json:"is_expanded,omitempty"` // expand/collapse
}

// DeleteFolderResult reports what a cascading delete removed
type DeleteFolderResult struct {
	DeletedIDs   []string `json:"deleted_ids"`
	UnfiledItems int      `json:"unfiled_items"` // items whose folder_id was reset to null
}
