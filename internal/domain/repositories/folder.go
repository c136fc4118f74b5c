package repositories

import (
	"context"

	"filedrop/internal/domain/models"
)

// FolderBackend persists the flat folder collection.
// The in-memory store stays canonical; a backend only mirrors it durably.
type FolderBackend interface {
	// LoadAll returns every folder in insertion order
	LoadAll(ctx context.Context) ([]models.Folder, error)

	// Insert stores a new folder
	Insert(ctx context.Context, folder *models.Folder) error

	// Update overwrites an existing folder
	Update(ctx context.Context, folder *models.Folder) error

	// DeleteMany removes folders in the given order (deepest first) atomically
	DeleteMany(ctx context.Context, ids []string) error
}
