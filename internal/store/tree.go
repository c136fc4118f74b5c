package store

import (
	"filedrop/internal/domain/models"
)

// BuildFolderTree reconstructs a forest from flat parent pointers in two passes.
//
// Records whose parent does not resolve are dropped silently, and so is everything
// beneath them. Every call returns freshly allocated nodes; the input is not modified.
// Children keep the relative order of the input slice.
func BuildFolderTree(folders []models.Folder) []*models.FolderNode {
	nodes := make(map[string]*models.FolderNode, len(folders))

	// First pass: create all nodes with empty children
	for _, folder := range folders {
		nodes[folder.ID] = &models.FolderNode{
			ID:         folder.ID,
			Name:       folder.Name,
			ParentID:   models.CloneID(folder.ParentID),
			IsExpanded: folder.IsExpanded,
			CreatedAt:  folder.CreatedAt,
			UpdatedAt:  folder.UpdatedAt,
			Children:   []*models.FolderNode{},
		}
	}

	// Second pass: attach each node to its parent or to the root list
	roots := make([]*models.FolderNode, 0)
	for _, folder := range folders {
		node := nodes[folder.ID]
		if folder.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, exists := nodes[*folder.ParentID]; exists {
			parent.Children = append(parent.Children, node)
		}
	}

	return roots
}

// CountNodes returns the total number of nodes in a forest
func CountNodes(roots []*models.FolderNode) int {
	total := 0
	for _, root := range roots {
		total += root.Count()
	}
	return total
}
