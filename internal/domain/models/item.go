package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ItemStatus is the lifecycle state of an uploaded item
type ItemStatus string

const (
	StatusUploading ItemStatus = "uploading"
	StatusCompleted ItemStatus = "completed"
	StatusFailed    ItemStatus = "failed"
)

// Valid reports whether s is one of the known statuses
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusUploading, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Item is an uploaded file record.
// FolderID is a weak reference: nothing enforces that the folder exists.
type Item struct {
	ID         string     `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Size       int64      `json:"size" db:"size"`
	Type       string     `json:"type" db:"type"`
	Status     ItemStatus `json:"status" db:"status"`
	Progress   int        `json:"progress" db:"progress"`
	FolderID   *string    `json:"folder_id" db:"folder_id"`
	URL        string     `json:"url" db:"url"`
	UploadedAt time.Time  `json:"uploaded_at" db:"uploaded_at"`
}

// Clone returns a copy that shares no memory with i
func (i Item) Clone() Item {
	i.FolderID = CloneID(i.FolderID)
	return i
}

// Validate checks field ranges
func (i Item) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required),
		validation.Field(&i.Size, validation.Min(int64(0))),
		validation.Field(&i.Progress, validation.Min(0), validation.Max(100)),
		validation.Field(&i.Status, validation.Required, validation.In(StatusUploading, StatusCompleted, StatusFailed)),
	)
}

// ItemPatch describes a partial item update.
// SetFolder distinguishes "leave folder alone" from "unfile" (FolderID nil).
type ItemPatch struct {
	Name      *string
	SetFolder bool
	FolderID  *string
	Status    *ItemStatus
	Progress  *int
	URL       *string
}

// ItemFilter narrows item listings. Nil fields match everything.
type ItemFilter struct {
	FolderID *string
	Status   *ItemStatus
}

// Matches reports whether item satisfies the filter
func (f ItemFilter) Matches(item *Item) bool {
	if f.FolderID != nil && !SameID(f.FolderID, item.FolderID) {
		return false
	}
	if f.Status != nil && *f.Status != item.Status {
		return false
	}
	return true
}
