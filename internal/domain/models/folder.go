package models

import (
	"time"
)

// Folder is a node in the folder hierarchy. The parent relation forms a forest.
type Folder struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	ParentID   *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	IsExpanded bool      `json:"is_expanded" db:"is_expanded"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Clone returns a copy that shares no memory with f
func (f Folder) Clone() Folder {
	f.ParentID = CloneID(f.ParentID)
	return f
}

// IsRoot reports whether the folder sits at the top level
func (f Folder) IsRoot() bool {
	return f.ParentID == nil
}

// FolderNode is a folder with its nested children, built on demand and never persisted
type FolderNode struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	ParentID   *string       `json:"parent_id"`
	IsExpanded bool          `json:"is_expanded"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Children   []*FolderNode `json:"children"` // Pointers for proper nesting
}

// Count returns the number of nodes in the subtree rooted at n, n included
func (n *FolderNode) Count() int {
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}

// FolderPatch describes a partial folder update.
// SetParent distinguishes "leave parent alone" from "move to root" (ParentID nil).
type FolderPatch struct {
	Name       *string
	SetParent  bool
	ParentID   *string
	IsExpanded *bool
}

// CloneID copies an optional id
func CloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// SameID reports whether two optional ids refer to the same folder (nil == nil)
func SameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
