package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"filedrop/internal/domain/services"
	"filedrop/internal/store"
	"filedrop/internal/testutil"
	"filedrop/internal/upload"
)

type fixture struct {
	folders  *store.FolderStore
	items    *store.ItemStore
	sessions *store.SessionStore
	filer    *store.Filer
	paths    *PathResolver
	pipeline *upload.Pipeline

	folderSvc services.FolderService
	itemSvc   services.ItemService
	uploadSvc services.UploadService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := testutil.DiscardLogger()
	opts := store.Options{Clock: testutil.FixedClock(), IDs: testutil.NewStubIDGenerator("f"), Logger: logger}

	f := &fixture{
		folders:  store.NewFolderStore(nil, opts),
		items:    store.NewItemStore(nil, store.Options{Clock: testutil.FixedClock(), IDs: testutil.NewStubIDGenerator("i"), Logger: logger}),
		sessions: store.NewSessionStore(nil, store.Options{Clock: testutil.FixedClock(), IDs: testutil.NewStubIDGenerator("s"), Logger: logger}),
	}
	require.NoError(t, f.folders.Open(ctx))
	require.NoError(t, f.items.Open(ctx))
	require.NoError(t, f.sessions.Open(ctx))

	f.filer = store.NewFiler(f.folders, f.items, nil)

	var err error
	f.paths, err = NewPathResolver(f.folders, 16)
	require.NoError(t, err)

	f.pipeline = upload.NewPipeline(f.filer, upload.Options{
		Transfer: upload.NewSimulatedTransfer(25, 0),
		NewID:    testutil.NewStubIDGenerator("u").New,
		Logger:   logger,
	})

	f.folderSvc = NewFolderService(f.folders, f.filer, f.paths, logger)
	f.itemSvc = NewItemService(f.items, f.folders, logger)
	f.uploadSvc = NewUploadService(f.pipeline, f.folders, f.sessions, logger)
	return f
}

func strPtr(s string) *string { return &s }
