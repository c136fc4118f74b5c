package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/store"
	"filedrop/internal/testutil"
)

// ============================================================================
// UNIT TESTS
// ============================================================================

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")

	assert.Equal(t, "dev_folders", tables.Folders)
	assert.Equal(t, "dev_items", tables.Items)
	assert.Equal(t, "dev_upload_sessions", tables.UploadSessions)
	assert.Equal(t, []string{"dev_folders", "dev_items", "dev_upload_sessions"}, tables.All())
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"duplicate", &pgconn.PgError{Code: "23505"}, domain.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(fmt.Errorf("wrapped: %w", tt.err), "insert", "folder", "f-1")
			assert.ErrorIs(t, err, tt.target)
		})
	}

	plain := errors.New("connection refused")
	err := translateError(plain, "insert", "folder", "f-1")
	assert.ErrorIs(t, err, plain)
	assert.Equal(t, "insert folder: connection refused", err.Error())

	assert.NoError(t, translateError(nil, "insert", "folder", "f-1"))
}

func TestExpectOne(t *testing.T) {
	assert.ErrorIs(t, expectOne(pgconn.NewCommandTag("UPDATE 0"), "item", "i-1"), domain.ErrNotFound)
	assert.NoError(t, expectOne(pgconn.NewCommandTag("UPDATE 1"), "item", "i-1"))
}

// ============================================================================
// INTEGRATION TESTS - require TEST_DATABASE_URL
// ============================================================================

func openTestDB(t *testing.T) *RepositoryConfig {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := CreateConnectionPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tables := NewTableNames(fmt.Sprintf("test_%d_", time.Now().UnixNano()))
	require.NoError(t, EnsureSchema(ctx, pool, tables))
	t.Cleanup(func() { _ = DropAll(context.Background(), pool, tables) })

	return &RepositoryConfig{Pool: pool, Tables: tables, Logger: testutil.DiscardLogger()}
}

func TestFolderBackend_RoundTrip(t *testing.T) {
	cfg := openTestDB(t)
	ctx := context.Background()
	backend := NewFolderBackend(cfg, NewTransactionManager(cfg.Pool, cfg.Logger))
	opts := store.Options{IDs: testutil.NewStubIDGenerator("f"), Logger: cfg.Logger}

	s := store.NewFolderStore(backend, opts)
	require.NoError(t, s.Open(ctx))
	a, err := s.Create(ctx, "A", nil)
	require.NoError(t, err)
	b, err := s.Create(ctx, "B", &a.ID)
	require.NoError(t, err)
	c, err := s.Create(ctx, "C", &b.ID)
	require.NoError(t, err)
	_, err = s.ToggleExpanded(ctx, b.ID)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := store.NewFolderStore(backend, opts)
	require.NoError(t, reopened.Open(ctx))
	path, err := reopened.GetFolderPath(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "A / B / C", path)

	got, err := reopened.Get(b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsExpanded)

	deleted, err := reopened.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, deleted)

	left, err := backend.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestItemBackend_ClearFolder(t *testing.T) {
	cfg := openTestDB(t)
	ctx := context.Background()
	backend := NewItemBackend(cfg)
	folderID := "f-1"

	item := &models.Item{
		ID: "i-1", Name: "a.png", Size: 10, Type: "image/png",
		Status: models.StatusCompleted, Progress: 100, FolderID: &folderID,
		UploadedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, backend.Insert(ctx, item))
	assert.ErrorIs(t, backend.Insert(ctx, item), domain.ErrConflict)

	require.NoError(t, backend.ClearFolder(ctx, []string{folderID}))

	items, err := backend.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].FolderID)
	assert.Equal(t, models.StatusCompleted, items[0].Status)

	assert.ErrorIs(t, backend.Delete(ctx, "missing"), domain.ErrNotFound)
}
