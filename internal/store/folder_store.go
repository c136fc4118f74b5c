package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/repositories"
)

// PathSeparator joins folder names in GetFolderPath
const PathSeparator = " / "

// rootKey indexes root-level folders in the children map
const rootKey = ""

type folderEntry struct {
	folder models.Folder
	seq    uint64 // insertion order
}

// FolderStore owns the canonical flat folder collection.
//
// Mutations are serialized behind one lock and, when a backend is configured, are
// persisted before memory changes. Reads take the read lock and return copies.
type FolderStore struct {
	mu       sync.RWMutex
	open     bool
	folders  map[string]*folderEntry
	children map[string][]string // parent id (rootKey for roots) -> child ids by seq
	nextSeq  uint64
	version  atomic.Uint64

	backend repositories.FolderBackend
	clock   Clock
	ids     IDGenerator
	logger  *slog.Logger
}

// NewFolderStore creates a folder store. backend may be nil for a memory-only store.
func NewFolderStore(backend repositories.FolderBackend, opts Options) *FolderStore {
	opts = opts.withDefaults()
	return &FolderStore{
		folders:  make(map[string]*folderEntry),
		children: make(map[string][]string),
		backend:  backend,
		clock:    opts.Clock,
		ids:      opts.IDs,
		logger:   opts.Logger,
	}
}

// Open loads the persisted folders, if any, and makes the store usable
func (s *FolderStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	if s.backend != nil {
		folders, err := s.backend.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load folders: %w", err)
		}
		for _, folder := range folders {
			s.insertLocked(folder.Clone())
		}
		s.logger.Info("folder store loaded", "folder_count", len(folders))
	}

	s.open = true
	s.version.Add(1)
	return nil
}

// Close makes the store unusable and drops the in-memory collection
func (s *FolderStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	s.folders = make(map[string]*folderEntry)
	s.children = make(map[string][]string)
	s.version.Add(1)
	return nil
}

// Version changes whenever a mutation may have changed a folder path
func (s *FolderStore) Version() uint64 {
	return s.version.Load()
}

// Create adds a folder under parentID (nil = root)
func (s *FolderStore) Create(ctx context.Context, name string, parentID *string) (models.Folder, error) {
	name, err := normalizeFolderName(name)
	if err != nil {
		return models.Folder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return models.Folder{}, ErrClosed
	}
	if parentID != nil {
		if _, ok := s.folders[*parentID]; !ok {
			return models.Folder{}, domain.NewNotFound("folder", *parentID)
		}
	}

	now := s.clock.Now()
	folder := models.Folder{
		ID:         s.ids.New(),
		Name:       name,
		ParentID:   models.CloneID(parentID),
		IsExpanded: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if s.backend != nil {
		if err := s.backend.Insert(ctx, &folder); err != nil {
			return models.Folder{}, fmt.Errorf("persist folder: %w", err)
		}
	}

	s.insertLocked(folder)
	s.version.Add(1)

	s.logger.Debug("folder created", "id", folder.ID, "name", folder.Name, "parent_id", folder.ParentID)
	return folder.Clone(), nil
}

// Get returns a copy of one folder
func (s *FolderStore) Get(id string) (models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return models.Folder{}, ErrClosed
	}
	entry, ok := s.folders[id]
	if !ok {
		return models.Folder{}, domain.NewNotFound("folder", id)
	}
	return entry.folder.Clone(), nil
}

// Exists reports whether id names a stored folder
func (s *FolderStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.folders[id]
	return s.open && ok
}

// All returns every folder in insertion order
func (s *FolderStore) All() ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, ErrClosed
	}
	return s.allLocked(), nil
}

// GetByParentID returns the immediate children of parentID in insertion order.
// A nil parentID returns the root folders.
func (s *FolderStore) GetByParentID(parentID *string) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, ErrClosed
	}

	ids := s.children[keyOf(parentID)]
	folders := make([]models.Folder, 0, len(ids))
	for _, id := range ids {
		folders = append(folders, s.folders[id].folder.Clone())
	}
	return folders, nil
}

// GetRootFolders returns the folders with no parent
func (s *FolderStore) GetRootFolders() ([]models.Folder, error) {
	return s.GetByParentID(nil)
}

// Update merges patch into the folder and refreshes UpdatedAt.
// Moving a folder under itself or one of its descendants fails with a CycleError.
func (s *FolderStore) Update(ctx context.Context, id string, patch models.FolderPatch) (models.Folder, error) {
	var name string
	if patch.Name != nil {
		var err error
		if name, err = normalizeFolderName(*patch.Name); err != nil {
			return models.Folder{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return models.Folder{}, ErrClosed
	}
	entry, ok := s.folders[id]
	if !ok {
		return models.Folder{}, domain.NewNotFound("folder", id)
	}

	updated := entry.folder.Clone()
	if patch.Name != nil {
		updated.Name = name
	}
	if patch.SetParent {
		if patch.ParentID != nil {
			if _, ok := s.folders[*patch.ParentID]; !ok {
				return models.Folder{}, domain.NewNotFound("folder", *patch.ParentID)
			}
			if err := s.checkAcyclicLocked(id, *patch.ParentID); err != nil {
				return models.Folder{}, err
			}
		}
		updated.ParentID = models.CloneID(patch.ParentID)
	}
	if patch.IsExpanded != nil {
		updated.IsExpanded = *patch.IsExpanded
	}
	updated.UpdatedAt = later(s.clock.Now(), entry.folder.UpdatedAt)

	if s.backend != nil {
		if err := s.backend.Update(ctx, &updated); err != nil {
			return models.Folder{}, fmt.Errorf("persist folder: %w", err)
		}
	}

	moved := !models.SameID(entry.folder.ParentID, updated.ParentID)
	if moved {
		s.removeChildLocked(keyOf(entry.folder.ParentID), id)
	}
	entry.folder = updated
	if moved {
		s.addChildLocked(keyOf(updated.ParentID), id, entry.seq)
	}
	if moved || patch.Name != nil {
		s.version.Add(1)
	}

	s.logger.Debug("folder updated", "id", id, "name", updated.Name, "parent_id", updated.ParentID, "moved", moved)
	return updated.Clone(), nil
}

// ToggleExpanded flips IsExpanded and refreshes UpdatedAt
func (s *FolderStore) ToggleExpanded(ctx context.Context, id string) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return models.Folder{}, ErrClosed
	}
	entry, ok := s.folders[id]
	if !ok {
		return models.Folder{}, domain.NewNotFound("folder", id)
	}

	updated := entry.folder
	updated.IsExpanded = !updated.IsExpanded
	updated.UpdatedAt = later(s.clock.Now(), entry.folder.UpdatedAt)

	if s.backend != nil {
		if err := s.backend.Update(ctx, &updated); err != nil {
			return models.Folder{}, fmt.Errorf("persist folder: %w", err)
		}
	}

	entry.folder = updated
	return updated.Clone(), nil
}

// Delete removes a folder and all of its descendants, deepest first.
// Returns the deleted ids in deletion order. Items are not touched.
func (s *FolderStore) Delete(ctx context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, ErrClosed
	}
	if _, ok := s.folders[id]; !ok {
		return nil, domain.NewNotFound("folder", id)
	}

	order := s.collectDeepestFirstLocked(id, make(map[string]bool), nil)

	if s.backend != nil {
		if err := s.backend.DeleteMany(ctx, order); err != nil {
			return nil, fmt.Errorf("persist folder delete: %w", err)
		}
	}

	for _, folderID := range order {
		s.removeLocked(folderID)
	}
	s.version.Add(1)

	s.logger.Debug("folder deleted", "id", id, "deleted_count", len(order))
	return order, nil
}

// Tree builds the folder forest from the current collection
func (s *FolderStore) Tree() ([]*models.FolderNode, error) {
	folders, err := s.All()
	if err != nil {
		return nil, err
	}
	return BuildFolderTree(folders), nil
}

// GetFolderPath walks parent links from id to its root and joins the names with
// PathSeparator. An unknown id fails with a NotFoundError.
func (s *FolderStore) GetFolderPath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return "", ErrClosed
	}
	entry, ok := s.folders[id]
	if !ok {
		return "", domain.NewNotFound("folder", id)
	}

	var names []string
	for steps := 0; entry != nil && steps <= len(s.folders); steps++ {
		names = append(names, entry.folder.Name)
		if entry.folder.ParentID == nil {
			break
		}
		entry = s.folders[*entry.folder.ParentID]
	}

	// collected leaf first
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, PathSeparator), nil
}

// Len returns the number of stored folders
func (s *FolderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.folders)
}

// checkAcyclicLocked walks ancestors of newParentID and fails if folderID is among them
func (s *FolderStore) checkAcyclicLocked(folderID, newParentID string) error {
	current := &newParentID
	for steps := 0; current != nil && steps <= len(s.folders); steps++ {
		if *current == folderID {
			return &domain.CycleError{FolderID: folderID, ParentID: newParentID}
		}
		entry, ok := s.folders[*current]
		if !ok {
			return nil
		}
		current = entry.folder.ParentID
	}
	return nil
}

// collectDeepestFirstLocked returns id and its descendants in post-order
func (s *FolderStore) collectDeepestFirstLocked(id string, seen map[string]bool, out []string) []string {
	if seen[id] {
		return out
	}
	seen[id] = true
	for _, childID := range s.children[id] {
		out = s.collectDeepestFirstLocked(childID, seen, out)
	}
	return append(out, id)
}

func (s *FolderStore) allLocked() []models.Folder {
	entries := make([]*folderEntry, 0, len(s.folders))
	for _, entry := range s.folders {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	folders := make([]models.Folder, len(entries))
	for i, entry := range entries {
		folders[i] = entry.folder.Clone()
	}
	return folders
}

func (s *FolderStore) insertLocked(folder models.Folder) {
	s.nextSeq++
	entry := &folderEntry{folder: folder, seq: s.nextSeq}
	s.folders[folder.ID] = entry
	s.addChildLocked(keyOf(folder.ParentID), folder.ID, entry.seq)
}

func (s *FolderStore) removeLocked(id string) {
	entry, ok := s.folders[id]
	if !ok {
		return
	}
	s.removeChildLocked(keyOf(entry.folder.ParentID), id)
	delete(s.children, id)
	delete(s.folders, id)
}

func (s *FolderStore) addChildLocked(key, id string, seq uint64) {
	list := s.children[key]
	idx := sort.Search(len(list), func(i int) bool {
		return s.folders[list[i]].seq > seq
	})
	list = append(list, "")
	copy(list[idx+1:], list[idx:])
	list[idx] = id
	s.children[key] = list
}

func (s *FolderStore) removeChildLocked(key, id string) {
	list := s.children[key]
	for i, childID := range list {
		if childID == id {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.children, key)
		return
	}
	s.children[key] = list
}

func keyOf(parentID *string) string {
	if parentID == nil {
		return rootKey
	}
	return *parentID
}

// normalizeFolderName trims and validates a folder name
func normalizeFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidation("folder name is required")
	}
	if err := validation.Validate(name, validation.RuneLength(1, config.MaxFolderNameLength)); err != nil {
		return "", domain.NewValidation("folder name: %v", err)
	}
	return name, nil
}
