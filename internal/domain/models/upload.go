package models

import "time"

// RawItem is a candidate submitted to the upload pipeline
type RawItem struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	URL  string `json:"url"` // opaque content locator
}

// InFlightUpload tracks one item while the pipeline processes it.
// Records are keyed by UploadID, never by position.
type InFlightUpload struct {
	UploadID  string     `json:"upload_id"`
	SessionID string     `json:"session_id"`
	Name      string     `json:"name"`
	Size      int64      `json:"size"`
	Type      string     `json:"type"`
	Status    ItemStatus `json:"status"`
	Progress  int        `json:"progress"`
	Error     string     `json:"error,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FailedUpload names an item that passed validation but failed while processing
type FailedUpload struct {
	UploadID string `json:"upload_id"`
	Name     string `json:"name"`
	Error    string `json:"error"`
}

// UploadBatchResult aggregates one pipeline run.
// Stored is in completion order; ValidationErrors follows submission order.
type UploadBatchResult struct {
	SessionID         string         `json:"session_id,omitempty"`
	Stored            []Item         `json:"stored"`
	ValidationErrors  []string       `json:"validation_errors"`
	TransientFailures int            `json:"transient_failures"`
	Failed            []FailedUpload `json:"failed"`
}

// UploadSession records one submitted batch
type UploadSession struct {
	ID        string     `json:"id" db:"id"`
	FolderID  *string    `json:"folder_id" db:"folder_id"`
	StartTime time.Time  `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" db:"end_time"`
	Completed bool       `json:"completed" db:"completed"`
	Total     int        `json:"total" db:"total"`
	Stored    int        `json:"stored" db:"stored"`
	Rejected  int        `json:"rejected" db:"rejected"`
	Failed    int        `json:"failed" db:"failed"`
}

// Clone returns a copy that shares no memory with s
func (s UploadSession) Clone() UploadSession {
	s.FolderID = CloneID(s.FolderID)
	if s.EndTime != nil {
		t := *s.EndTime
		s.EndTime = &t
	}
	return s
}
