package testutil

import (
	"context"
	"errors"
	"sync"

	"filedrop/internal/domain/models"
	"filedrop/internal/domain/repositories"
)

// ErrBackend is returned by backends with Fail set
var ErrBackend = errors.New("backend unavailable")

// MemoryFolderBackend records folder writes in memory. Set Fail to make every write fail.
type MemoryFolderBackend struct {
	mu      sync.Mutex
	Folders []models.Folder
	Deleted [][]string
	Fail    bool
}

func (b *MemoryFolderBackend) LoadAll(ctx context.Context) ([]models.Folder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Folder, len(b.Folders))
	copy(out, b.Folders)
	return out, nil
}

func (b *MemoryFolderBackend) Insert(ctx context.Context, folder *models.Folder) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail {
		return ErrBackend
	}
	b.Folders = append(b.Folders, folder.Clone())
	return nil
}

func (b *MemoryFolderBackend) Update(ctx context.Context, folder *models.Folder) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail {
		return ErrBackend
	}
	for i := range b.Folders {
		if b.Folders[i].ID == folder.ID {
			b.Folders[i] = folder.Clone()
		}
	}
	return nil
}

func (b *MemoryFolderBackend) DeleteMany(ctx context.Context, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail {
		return ErrBackend
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := b.Folders[:0]
	for _, f := range b.Folders {
		if !drop[f.ID] {
			kept = append(kept, f)
		}
	}
	b.Folders = kept
	b.Deleted = append(b.Deleted, append([]string(nil), ids...))
	return nil
}

// MemoryItemBackend records item writes in memory. Set Fail to make every write fail.
type MemoryItemBackend struct {
	mu      sync.Mutex
	Items   []models.Item
	Cleared [][]string
	Fail    bool
}

func (b *MemoryItemBackend) LoadAll(ctx context.Context) ([]models.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Item, len(b.Items))
	copy(out, b.Items)
	return out, nil
}

func (b *MemoryItemBackend) Insert(ctx context.Context, item *models.Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail {
		return ErrBackend
	}
	b.Items = append(b.Items, item.Clone())
	return nil
}

func (b *MemoryItemBackend) Update(ctx context.Context, item *models.Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail {
		return ErrBackend
	}
	for i := range b.Items {
		if b.Items[i].ID == item.ID {
			b.Items[i] = item.Clone()
		}
	}
	return nil
}

func (b *MemoryItemBackend) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail {
		return ErrBackend
	}
	kept := b.Items[:0]
	for _, item := range b.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	b.Items = kept
	return nil
}

func (b *MemoryItemBackend) ClearFolder(ctx context.Context, folderIDs []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail {
		return ErrBackend
	}
	b.Cleared = append(b.Cleared, append([]string(nil), folderIDs...))
	return nil
}

// RecordingTx runs functions directly and counts how each one ended
type RecordingTx struct {
	mu         sync.Mutex
	Committed  int
	RolledBack int
}

func (t *RecordingTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	err := fn(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.RolledBack++
		return err
	}
	t.Committed++
	return nil
}
