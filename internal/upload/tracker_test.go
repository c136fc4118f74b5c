package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/testutil"
)

func TestTracker_ProgressIsMonotonic(t *testing.T) {
	tr := NewTracker(testutil.FixedClock().Now)
	tr.Register("u-1", "s-1", models.RawItem{Name: "a.png"}, nil)

	_, changed := tr.SetProgress("u-1", 30)
	assert.True(t, changed)
	_, changed = tr.SetProgress("u-1", 20)
	assert.False(t, changed)
	_, changed = tr.SetProgress("u-1", 30)
	assert.False(t, changed)

	rec, ok := tr.Get("u-1")
	require.True(t, ok)
	assert.Equal(t, 30, rec.Progress)
	assert.Equal(t, models.StatusUploading, rec.Status)
}

func TestTracker_IgnoresProgressAboveHundred(t *testing.T) {
	tr := NewTracker(nil)
	tr.Register("u-1", "s-1", models.RawItem{Name: "a.png"}, nil)

	tr.SetProgress("u-1", 90)
	_, changed := tr.SetProgress("u-1", 150)
	assert.False(t, changed)

	rec, _ := tr.Get("u-1")
	assert.Equal(t, 90, rec.Progress)

	_, changed = tr.SetProgress("u-1", 100)
	assert.True(t, changed)
}

func TestTracker_UpdatesAreScopedByID(t *testing.T) {
	tr := NewTracker(nil)
	tr.Register("u-1", "s-1", models.RawItem{Name: "a.png"}, nil)
	tr.Register("u-2", "s-1", models.RawItem{Name: "b.png"}, nil)

	tr.SetProgress("u-1", 50)
	tr.Fail("u-2", errors.New("boom"))

	a, _ := tr.Get("u-1")
	b, _ := tr.Get("u-2")
	assert.Equal(t, 50, a.Progress)
	assert.Equal(t, models.StatusUploading, a.Status)
	assert.Equal(t, 0, b.Progress)
	assert.Equal(t, models.StatusFailed, b.Status)
	assert.Equal(t, "boom", b.Error)

	assert.Equal(t, 1, tr.Active())
	snap := tr.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "u-1", snap[0].UploadID)
	assert.Equal(t, "u-2", snap[1].UploadID)
}

func TestTracker_FailedRecordsIgnoreProgress(t *testing.T) {
	tr := NewTracker(nil)
	tr.Register("u-1", "s-1", models.RawItem{Name: "a.png"}, nil)
	tr.Fail("u-1", nil)

	_, changed := tr.SetProgress("u-1", 90)
	assert.False(t, changed)
	rec, _ := tr.Get("u-1")
	assert.Equal(t, 0, rec.Progress)
}

func TestTracker_CancelAndDismiss(t *testing.T) {
	tr := NewTracker(nil)
	cancelled := false
	tr.Register("u-1", "s-1", models.RawItem{Name: "a.png"}, func() { cancelled = true })

	err := tr.Dismiss("u-1")
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, tr.Cancel("u-1"))
	assert.True(t, cancelled)

	tr.Fail("u-1", errors.New("cancelled"))
	assert.ErrorIs(t, tr.Cancel("u-1"), domain.ErrNotFound)

	require.NoError(t, tr.Dismiss("u-1"))
	_, ok := tr.Get("u-1")
	assert.False(t, ok)
	assert.ErrorIs(t, tr.Dismiss("u-1"), domain.ErrNotFound)
	assert.ErrorIs(t, tr.Cancel("missing"), domain.ErrNotFound)
}

func TestTracker_Complete(t *testing.T) {
	tr := NewTracker(nil)
	tr.Register("u-1", "s-1", models.RawItem{Name: "a.png"}, nil)
	tr.Complete("u-1")

	assert.Empty(t, tr.Snapshot())
	assert.Zero(t, tr.Active())
}
