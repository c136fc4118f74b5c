package store

import (
	"context"
	"fmt"

	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/repositories"
)

// Filer coordinates writes that touch both folders and items.
//
// Locks are always taken folder store first, then item store. Item creation holds the
// folder read lock, so an item is never persisted into a folder that a concurrent delete
// has already removed.
type Filer struct {
	folders *FolderStore
	items   *ItemStore
	tx      repositories.TransactionManager
}

// NewFiler creates a filer over folders and items. tx may be nil for memory-only stores;
// with durable backends it makes folder delete and item unfiling one transaction.
func NewFiler(folders *FolderStore, items *ItemStore, tx repositories.TransactionManager) *Filer {
	return &Filer{folders: folders, items: items, tx: tx}
}

// Create stores an item. An item whose folder no longer exists is stored unfiled.
func (f *Filer) Create(ctx context.Context, item models.Item) (models.Item, error) {
	f.folders.mu.RLock()
	defer f.folders.mu.RUnlock()

	if !f.folders.open {
		return models.Item{}, ErrClosed
	}
	if item.FolderID != nil {
		if _, ok := f.folders.folders[*item.FolderID]; !ok {
			f.folders.logger.Info("target folder deleted during upload, storing item unfiled",
				"item_id", item.ID,
				"folder_id", *item.FolderID,
			)
			item.FolderID = nil
		}
	}
	return f.items.Create(ctx, item)
}

// DeleteFolder removes a folder and its descendants deepest first and unfiles every item
// they held. Nothing changes in memory unless every backend write succeeds.
// Returns the deleted ids in deletion order and the number of unfiled items.
func (f *Filer) DeleteFolder(ctx context.Context, id string) ([]string, int, error) {
	f.folders.mu.Lock()
	defer f.folders.mu.Unlock()

	if !f.folders.open {
		return nil, 0, ErrClosed
	}
	if _, ok := f.folders.folders[id]; !ok {
		return nil, 0, domain.NewNotFound("folder", id)
	}
	order := f.folders.collectDeepestFirstLocked(id, make(map[string]bool), nil)

	f.items.mu.Lock()
	defer f.items.mu.Unlock()

	if !f.items.open {
		return nil, 0, ErrClosed
	}
	affected := f.items.filedInLocked(order)

	persist := func(ctx context.Context) error {
		if f.folders.backend != nil {
			if err := f.folders.backend.DeleteMany(ctx, order); err != nil {
				return fmt.Errorf("persist folder delete: %w", err)
			}
		}
		if len(affected) > 0 && f.items.backend != nil {
			if err := f.items.backend.ClearFolder(ctx, order); err != nil {
				return fmt.Errorf("persist item unfile: %w", err)
			}
		}
		return nil
	}

	var err error
	if f.tx != nil {
		err = f.tx.ExecTx(ctx, persist)
	} else {
		err = persist(ctx)
	}
	if err != nil {
		return nil, 0, err
	}

	for _, folderID := range order {
		f.folders.removeLocked(folderID)
	}
	f.folders.version.Add(1)
	for _, item := range affected {
		item.FolderID = nil
	}

	f.folders.logger.Debug("folder deleted", "id", id, "deleted_count", len(order), "unfiled_items", len(affected))
	return order, len(affected), nil
}
