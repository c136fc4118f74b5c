package repositories

import (
	"context"

	"filedrop/internal/domain/models"
)

// ItemBackend persists the flat item collection
type ItemBackend interface {
	// LoadAll returns every item in insertion order
	LoadAll(ctx context.Context) ([]models.Item, error)

	// Insert stores a new item
	Insert(ctx context.Context, item *models.Item) error

	// Update overwrites an existing item
	Update(ctx context.Context, item *models.Item) error

	// Delete removes an item
	Delete(ctx context.Context, id string) error

	// ClearFolder sets folder_id to NULL for items in any of the given folders
	ClearFolder(ctx context.Context, folderIDs []string) error
}

// SessionBackend persists upload sessions
type SessionBackend interface {
	LoadAll(ctx context.Context) ([]models.UploadSession, error)
	Insert(ctx context.Context, session *models.UploadSession) error
	Update(ctx context.Context, session *models.UploadSession) error
}
