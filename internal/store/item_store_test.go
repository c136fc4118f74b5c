package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/testutil"
)

func newTestItemStore(t *testing.T) *ItemStore {
	t.Helper()
	s := NewItemStore(nil, Options{
		Clock:  testutil.FixedClock(),
		IDs:    testutil.NewStubIDGenerator("i"),
		Logger: testutil.DiscardLogger(),
	})
	require.NoError(t, s.Open(context.Background()))
	return s
}

func completedItem(name string, folderID *string) models.Item {
	return models.Item{
		Name:     name,
		Size:     1024,
		Type:     "image/png",
		Status:   models.StatusCompleted,
		Progress: 100,
		FolderID: folderID,
	}
}

func TestItemStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		s := newTestItemStore(t)

		item, err := s.Create(ctx, completedItem("cat.png", nil))
		require.NoError(t, err)
		assert.Equal(t, "i-1", item.ID)
		assert.False(t, item.UploadedAt.IsZero())
	})

	t.Run("keeps given id", func(t *testing.T) {
		s := newTestItemStore(t)
		in := completedItem("cat.png", nil)
		in.ID = "upload-7"

		item, err := s.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "upload-7", item.ID)

		_, err = s.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	tests := []struct {
		name   string
		mutate func(*models.Item)
	}{
		{"empty name", func(i *models.Item) { i.Name = " " }},
		{"negative size", func(i *models.Item) { i.Size = -1 }},
		{"progress over 100", func(i *models.Item) { i.Progress = 101 }},
		{"unknown status", func(i *models.Item) { i.Status = "paused" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestItemStore(t)
			in := completedItem("cat.png", nil)
			tt.mutate(&in)

			_, err := s.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestItemStore_ListAndFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)
	f1 := "folder-1"

	a, err := s.Create(ctx, completedItem("a.png", &f1))
	require.NoError(t, err)
	b, err := s.Create(ctx, completedItem("b.png", nil))
	require.NoError(t, err)
	failed := completedItem("c.png", &f1)
	failed.Status = models.StatusFailed
	failed.Progress = 40
	c, err := s.Create(ctx, failed)
	require.NoError(t, err)

	all, err := s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, itemIDs(all))

	inFolder, err := s.List(models.ItemFilter{FolderID: &f1})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID}, itemIDs(inFolder))

	byStatus, err := s.GetByStatus(models.StatusFailed)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, itemIDs(byStatus))
}

func TestItemStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)
	f1 := "folder-1"
	item, err := s.Create(ctx, completedItem("a.png", nil))
	require.NoError(t, err)

	name := "renamed.png"
	updated, err := s.Update(ctx, item.ID, models.ItemPatch{Name: &name, SetFolder: true, FolderID: &f1})
	require.NoError(t, err)
	assert.Equal(t, "renamed.png", updated.Name)
	require.NotNil(t, updated.FolderID)
	assert.Equal(t, f1, *updated.FolderID)

	bad := 150
	_, err = s.Update(ctx, item.ID, models.ItemPatch{Progress: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)

	deleted, err := s.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed.png", deleted.Name)
	assert.Equal(t, 0, s.Len())

	_, err = s.Delete(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Update(ctx, item.ID, models.ItemPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStore_ClearFolder(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)
	f1, f2, f3 := "f1", "f2", "f3"

	a, err := s.Create(ctx, completedItem("a.png", &f1))
	require.NoError(t, err)
	b, err := s.Create(ctx, completedItem("b.png", &f2))
	require.NoError(t, err)
	c, err := s.Create(ctx, completedItem("c.png", &f3))
	require.NoError(t, err)

	n, err := s.ClearFolder(ctx, []string{f1, f2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{a.ID, b.ID} {
		got, err := s.GetByID(id)
		require.NoError(t, err)
		assert.Nil(t, got.FolderID)
	}
	got, err := s.GetByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, f3, *got.FolderID)

	n, err = s.ClearFolder(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestItemStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)
	f1 := "f1"
	item, err := s.Create(ctx, completedItem("a.png", &f1))
	require.NoError(t, err)

	*item.FolderID = "tampered"
	all, err := s.GetAll()
	require.NoError(t, err)
	all[0].Name = "tampered"

	got, err := s.GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.png", got.Name)
	assert.Equal(t, "f1", *got.FolderID)
}

func TestItemStore_Closed(t *testing.T) {
	s := NewItemStore(nil, Options{Logger: testutil.DiscardLogger()})

	_, err := s.Create(context.Background(), completedItem("a.png", nil))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.GetAll()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := testutil.FixedClock()
	s := NewSessionStore(nil, Options{Clock: clock, IDs: testutil.NewStubIDGenerator("s"), Logger: testutil.DiscardLogger()})

	_, err := s.Create(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrClosed)

	require.NoError(t, s.Open(ctx))
	folderID := "f1"
	session, err := s.Create(ctx, &folderID, 5)
	require.NoError(t, err)
	assert.Equal(t, "s-1", session.ID)
	assert.False(t, session.Completed)
	assert.Nil(t, session.EndTime)

	clock.Advance(3 * time.Second)
	done, err := s.Complete(ctx, session.ID, 3, 2, 0)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.EndTime)
	assert.False(t, done.EndTime.Before(done.StartTime))
	assert.Equal(t, 3, done.Stored)
	assert.Equal(t, 2, done.Rejected)

	listed, err := s.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, done, listed[0])

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Complete(ctx, "missing", 0, 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func itemIDs(items []models.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
