package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/domain/models"
)

func folder(id, name string, parentID *string) models.Folder {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Folder{ID: id, Name: name, ParentID: parentID, CreatedAt: ts, UpdatedAt: ts}
}

func TestBuildFolderTree(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		roots := BuildFolderTree(nil)
		require.NotNil(t, roots)
		assert.Empty(t, roots)
	})

	t.Run("nested", func(t *testing.T) {
		folders := []models.Folder{
			folder("a", "A", nil),
			folder("b", "B", ptr("a")),
			folder("c", "C", ptr("b")),
			folder("d", "D", nil),
			folder("e", "E", ptr("a")),
		}

		roots := BuildFolderTree(folders)
		require.Len(t, roots, 2)
		assert.Equal(t, "a", roots[0].ID)
		assert.Equal(t, "d", roots[1].ID)

		a := roots[0]
		require.Len(t, a.Children, 2)
		assert.Equal(t, "b", a.Children[0].ID)
		assert.Equal(t, "e", a.Children[1].ID)
		require.Len(t, a.Children[0].Children, 1)
		assert.Equal(t, "c", a.Children[0].Children[0].ID)

		assert.NotNil(t, roots[1].Children)
		assert.Empty(t, roots[1].Children)
		assert.Equal(t, 5, CountNodes(roots))
	})

	t.Run("child listed before parent", func(t *testing.T) {
		roots := BuildFolderTree([]models.Folder{
			folder("c", "C", ptr("p")),
			folder("p", "P", nil),
		})
		require.Len(t, roots, 1)
		require.Len(t, roots[0].Children, 1)
		assert.Equal(t, "c", roots[0].Children[0].ID)
	})

	t.Run("orphans and their subtrees are dropped", func(t *testing.T) {
		roots := BuildFolderTree([]models.Folder{
			folder("a", "A", nil),
			folder("o", "Orphan", ptr("gone")),
			folder("oc", "Orphan child", ptr("o")),
		})
		require.Len(t, roots, 1)
		assert.Equal(t, "a", roots[0].ID)
		assert.Equal(t, 1, CountNodes(roots))
	})
}

func TestBuildFolderTree_ParentReferences(t *testing.T) {
	folders := []models.Folder{
		folder("a", "A", nil),
		folder("b", "B", ptr("a")),
		folder("c", "C", ptr("b")),
		folder("d", "D", ptr("a")),
	}

	var walk func(nodes []*models.FolderNode, parent *string)
	walk = func(nodes []*models.FolderNode, parent *string) {
		for _, n := range nodes {
			if parent == nil {
				assert.Nil(t, n.ParentID, "root %s", n.ID)
			} else {
				require.NotNil(t, n.ParentID)
				assert.Equal(t, *parent, *n.ParentID)
			}
			id := n.ID
			walk(n.Children, &id)
		}
	}
	walk(BuildFolderTree(folders), nil)
}

func TestBuildFolderTree_Idempotent(t *testing.T) {
	folders := []models.Folder{
		folder("a", "A", nil),
		folder("b", "B", ptr("a")),
	}

	first := BuildFolderTree(folders)
	second := BuildFolderTree(folders)
	assert.Equal(t, first, second)

	// fresh nodes each call
	first[0].Name = "changed"
	first[0].Children = nil
	assert.Equal(t, "A", second[0].Name)
	assert.Len(t, second[0].Children, 1)
}

func TestBuildFolderTree_DoesNotMutateInput(t *testing.T) {
	folders := []models.Folder{
		folder("a", "A", nil),
		folder("b", "B", ptr("a")),
	}

	roots := BuildFolderTree(folders)
	*roots[0].Children[0].ParentID = "x"

	assert.Equal(t, "a", *folders[1].ParentID)
	assert.Len(t, folders, 2)
}
