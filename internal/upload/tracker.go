package upload

import (
	"context"
	"sort"
	"sync"
	"time"

	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
)

type trackedUpload struct {
	record models.InFlightUpload
	cancel context.CancelFunc
	seq    uint64
}

// Tracker holds in-flight upload records keyed by upload id.
// Every update addresses a single record; readers get copies.
type Tracker struct {
	mu      sync.Mutex
	uploads map[string]*trackedUpload
	nextSeq uint64
	now     func() time.Time
}

// NewTracker creates an empty tracker
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Tracker{
		uploads: make(map[string]*trackedUpload),
		now:     now,
	}
}

// Register adds an uploading record with progress 0
func (t *Tracker) Register(uploadID, sessionID string, raw models.RawItem, cancel context.CancelFunc) models.InFlightUpload {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.nextSeq++
	entry := &trackedUpload{
		record: models.InFlightUpload{
			UploadID:  uploadID,
			SessionID: sessionID,
			Name:      raw.Name,
			Size:      raw.Size,
			Type:      raw.Type,
			Status:    models.StatusUploading,
			Progress:  0,
			StartedAt: now,
			UpdatedAt: now,
		},
		cancel: cancel,
		seq:    t.nextSeq,
	}
	t.uploads[uploadID] = entry
	return entry.record
}

// SetProgress records progress for one upload. Progress never moves backwards, values
// above 100 are ignored, and records that are no longer uploading are left alone.
// Reports whether the record changed.
func (t *Tracker) SetProgress(uploadID string, progress int) (models.InFlightUpload, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.uploads[uploadID]
	if !ok || entry.record.Status != models.StatusUploading {
		return models.InFlightUpload{}, false
	}
	if progress <= entry.record.Progress || progress > 100 {
		return entry.record, false
	}
	entry.record.Progress = progress
	entry.record.UpdatedAt = t.now()
	return entry.record, true
}

// Fail marks an upload failed and keeps it for inspection
func (t *Tracker) Fail(uploadID string, cause error) (models.InFlightUpload, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.uploads[uploadID]
	if !ok {
		return models.InFlightUpload{}, false
	}
	entry.record.Status = models.StatusFailed
	if cause != nil {
		entry.record.Error = cause.Error()
	}
	entry.record.UpdatedAt = t.now()
	entry.cancel = nil
	return entry.record, true
}

// Complete removes a successfully persisted upload
func (t *Tracker) Complete(uploadID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.uploads, uploadID)
}

// Cancel stops one uploading item. Unknown ids and finished uploads fail with NotFoundError.
func (t *Tracker) Cancel(uploadID string) error {
	t.mu.Lock()
	entry, ok := t.uploads[uploadID]
	if !ok || entry.record.Status != models.StatusUploading || entry.cancel == nil {
		t.mu.Unlock()
		return domain.NewNotFound("upload", uploadID)
	}
	cancel := entry.cancel
	t.mu.Unlock()

	cancel()
	return nil
}

// Dismiss drops a failed record. Uploads still in progress cannot be dismissed.
func (t *Tracker) Dismiss(uploadID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.uploads[uploadID]
	if !ok {
		return domain.NewNotFound("upload", uploadID)
	}
	if entry.record.Status != models.StatusFailed {
		return domain.NewValidation("upload %s is still in progress", uploadID)
	}
	delete(t.uploads, uploadID)
	return nil
}

// Get returns one record
func (t *Tracker) Get(uploadID string) (models.InFlightUpload, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.uploads[uploadID]
	if !ok {
		return models.InFlightUpload{}, false
	}
	return entry.record, true
}

// Snapshot returns every record, uploading and failed, in registration order
func (t *Tracker) Snapshot() []models.InFlightUpload {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := make([]*trackedUpload, 0, len(t.uploads))
	for _, entry := range t.uploads {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	records := make([]models.InFlightUpload, len(entries))
	for i, entry := range entries {
		records[i] = entry.record
	}
	return records
}

// Active counts records still uploading
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, entry := range t.uploads {
		if entry.record.Status == models.StatusUploading {
			n++
		}
	}
	return n
}
