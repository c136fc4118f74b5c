package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/services"
	"filedrop/internal/store"
)

type itemService struct {
	items   *store.ItemStore
	folders *store.FolderStore
	logger  *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(items *store.ItemStore, folders *store.FolderStore, logger *slog.Logger) services.ItemService {
	return &itemService{
		items:   items,
		folders: folders,
		logger:  logger,
	}
}

// ListItems returns stored items, optionally narrowed to one folder and/or status
func (s *itemService) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.NewValidation("unknown item status %q", *filter.Status)
	}
	return s.items.List(filter)
}

// GetItem retrieves one item
func (s *itemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem renames an item or files it into another folder
func (s *itemService) UpdateItem(ctx context.Context, id string, req *services.UpdateItemRequest) (*models.Item, error) {
	if req.Name == nil && !req.FolderID.Present {
		return nil, domain.NewValidation("at least one field must be provided")
	}
	if req.Name != nil {
		err := validation.Validate(req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxItemNameLength),
		)
		if err != nil {
			return nil, domain.NewValidation("name: %v", err)
		}
	}

	patch := models.ItemPatch{Name: req.Name}
	if req.FolderID.Present {
		patch.SetFolder = true
		if req.FolderID.Value != nil && *req.FolderID.Value != "" {
			if !s.folders.Exists(*req.FolderID.Value) {
				return nil, domain.NewNotFound("folder", *req.FolderID.Value)
			}
			patch.FolderID = req.FolderID.Value
		}
	}

	item, err := s.items.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item updated",
		"id", item.ID,
		"name", item.Name,
		"folder_id", item.FolderID,
	)
	return &item, nil
}

// DeleteItem removes an item and returns it
func (s *itemService) DeleteItem(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.items.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item deleted", "id", item.ID, "name", item.Name)
	return &item, nil
}
