package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/repositories"
)

// ItemStore owns the canonical flat item collection.
// Same locking and write-through rules as FolderStore.
type ItemStore struct {
	mu    sync.RWMutex
	open  bool
	items map[string]*models.Item
	order []string // insertion order

	backend repositories.ItemBackend
	clock   Clock
	ids     IDGenerator
	logger  *slog.Logger
}

// NewItemStore creates an item store. backend may be nil for a memory-only store.
func NewItemStore(backend repositories.ItemBackend, opts Options) *ItemStore {
	opts = opts.withDefaults()
	return &ItemStore{
		items:   make(map[string]*models.Item),
		backend: backend,
		clock:   opts.Clock,
		ids:     opts.IDs,
		logger:  opts.Logger,
	}
}

// Open loads the persisted items, if any, and makes the store usable
func (s *ItemStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	if s.backend != nil {
		items, err := s.backend.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		for _, item := range items {
			item := item.Clone()
			s.items[item.ID] = &item
			s.order = append(s.order, item.ID)
		}
		s.logger.Info("item store loaded", "item_count", len(items))
	}

	s.open = true
	return nil
}

// Close makes the store unusable and drops the in-memory collection
func (s *ItemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	s.items = make(map[string]*models.Item)
	s.order = nil
	return nil
}

// Create stores a new item, assigning an id and UploadedAt when absent
func (s *ItemStore) Create(ctx context.Context, item models.Item) (models.Item, error) {
	item = item.Clone()
	item.Name = strings.TrimSpace(item.Name)
	if err := validateItem(item); err != nil {
		return models.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return models.Item{}, ErrClosed
	}

	if item.ID == "" {
		item.ID = s.ids.New()
	}
	if _, exists := s.items[item.ID]; exists {
		return models.Item{}, &domain.ConflictError{
			Message:      fmt.Sprintf("an item with id %q already exists", item.ID),
			ResourceType: "item",
			ResourceID:   item.ID,
		}
	}
	if item.UploadedAt.IsZero() {
		item.UploadedAt = s.clock.Now()
	}

	if s.backend != nil {
		if err := s.backend.Insert(ctx, &item); err != nil {
			return models.Item{}, fmt.Errorf("persist item: %w", err)
		}
	}

	s.items[item.ID] = &item
	s.order = append(s.order, item.ID)

	s.logger.Debug("item created", "id", item.ID, "name", item.Name, "folder_id", item.FolderID)
	return item.Clone(), nil
}

// GetByID returns a copy of one item
func (s *ItemStore) GetByID(id string) (models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return models.Item{}, ErrClosed
	}
	item, ok := s.items[id]
	if !ok {
		return models.Item{}, domain.NewNotFound("item", id)
	}
	return item.Clone(), nil
}

// GetAll returns every item in insertion order
func (s *ItemStore) GetAll() ([]models.Item, error) {
	return s.List(models.ItemFilter{})
}

// GetByStatus returns the items with the given status
func (s *ItemStore) GetByStatus(status models.ItemStatus) ([]models.Item, error) {
	return s.List(models.ItemFilter{Status: &status})
}

// List returns the items matching filter in insertion order
func (s *ItemStore) List(filter models.ItemFilter) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, ErrClosed
	}

	items := make([]models.Item, 0)
	for _, id := range s.order {
		item := s.items[id]
		if filter.Matches(item) {
			items = append(items, item.Clone())
		}
	}
	return items, nil
}

// Update merges patch into the item
func (s *ItemStore) Update(ctx context.Context, id string, patch models.ItemPatch) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return models.Item{}, ErrClosed
	}
	current, ok := s.items[id]
	if !ok {
		return models.Item{}, domain.NewNotFound("item", id)
	}

	updated := current.Clone()
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.SetFolder {
		updated.FolderID = models.CloneID(patch.FolderID)
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.Progress != nil {
		updated.Progress = *patch.Progress
	}
	if patch.URL != nil {
		updated.URL = *patch.URL
	}
	if err := validateItem(updated); err != nil {
		return models.Item{}, err
	}

	if s.backend != nil {
		if err := s.backend.Update(ctx, &updated); err != nil {
			return models.Item{}, fmt.Errorf("persist item: %w", err)
		}
	}

	*current = updated
	return updated.Clone(), nil
}

// Delete removes an item and returns it
func (s *ItemStore) Delete(ctx context.Context, id string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return models.Item{}, ErrClosed
	}
	item, ok := s.items[id]
	if !ok {
		return models.Item{}, domain.NewNotFound("item", id)
	}

	if s.backend != nil {
		if err := s.backend.Delete(ctx, id); err != nil {
			return models.Item{}, fmt.Errorf("persist item delete: %w", err)
		}
	}

	delete(s.items, id)
	for i, itemID := range s.order {
		if itemID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.logger.Debug("item deleted", "id", id, "name", item.Name)
	return item.Clone(), nil
}

// ClearFolder resets FolderID to nil for items filed in any of folderIDs.
// Returns the number of items changed.
func (s *ItemStore) ClearFolder(ctx context.Context, folderIDs []string) (int, error) {
	if len(folderIDs) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return 0, ErrClosed
	}

	affected := s.filedInLocked(folderIDs)
	if len(affected) == 0 {
		return 0, nil
	}

	if s.backend != nil {
		if err := s.backend.ClearFolder(ctx, folderIDs); err != nil {
			return 0, fmt.Errorf("persist item unfile: %w", err)
		}
	}

	for _, item := range affected {
		item.FolderID = nil
	}
	return len(affected), nil
}

// filedInLocked returns the stored items filed in any of folderIDs, in insertion order
func (s *ItemStore) filedInLocked(folderIDs []string) []*models.Item {
	targets := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		targets[id] = true
	}

	var affected []*models.Item
	for _, id := range s.order {
		item := s.items[id]
		if item.FolderID != nil && targets[*item.FolderID] {
			affected = append(affected, item)
		}
	}
	return affected
}

// Len returns the number of stored items
func (s *ItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func validateItem(item models.Item) error {
	if err := item.Validate(); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("item %q: %v", item.Name, err)}
	}
	if err := validation.Validate(item.Name, validation.RuneLength(1, config.MaxItemNameLength)); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("item name: %v", err)}
	}
	return nil
}
