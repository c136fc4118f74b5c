package services

import (
	"context"

	"filedrop/internal/domain/models"
	"filedrop/internal/httputil"
)

// ItemService handles stored item queries and edits
type ItemService interface {
	ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	UpdateItem(ctx context.Context, id string, req *UpdateItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, id string) (*models.Item, error)
}

// UpdateItemRequest represents an item update request
type UpdateItemRequest struct {
	Name     *string                 `json:"name,omitempty"`
	FolderID httputil.OptionalString `json:"folder_id"` // null = unfile, absent = keep
}
