package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrCycle      = errors.New("cycle in folder hierarchy")
	ErrTransient  = errors.New("upload failed")
)

// Domain error types implementing HTTPError
type (
	// NotFoundError indicates an operation referenced an id that does not exist
	NotFoundError struct {
		Resource string // "folder", "item", "upload", "session"
		ID       string
	}

	// ValidationError indicates bad input shape, size or type
	ValidationError struct {
		Message string
	}

	// CycleError indicates a parent assignment that would make a folder its own ancestor
	CycleError struct {
		FolderID string
		ParentID string
	}

	// TransientUploadError indicates a processing step failed after validation passed
	TransientUploadError struct {
		Name string
		Err  error
	}
)

// NewNotFound creates a NotFoundError for the given resource kind and id
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation creates a ValidationError with a formatted message
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Resource, e.ID, ErrNotFound)
}

func (e *ValidationError) Error() string { return e.Message }

func (e *CycleError) Error() string {
	if e.FolderID == e.ParentID {
		return fmt.Sprintf("folder %s cannot be its own parent", e.FolderID)
	}
	return fmt.Sprintf("folder %s cannot move under its descendant %s", e.FolderID, e.ParentID)
}

func (e *TransientUploadError) Error() string {
	return fmt.Sprintf("Failed to upload %s: %v", e.Name, e.Err)
}

func (e *TransientUploadError) Unwrap() error { return e.Err }

// Is implementations allow errors.Is() to match the sentinels
func (e *NotFoundError) Is(target error) bool        { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool      { return target == ErrValidation }
func (e *CycleError) Is(target error) bool           { return target == ErrCycle }
func (e *TransientUploadError) Is(target error) bool { return target == ErrTransient }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int        { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *CycleError) StatusCode() int           { return http.StatusConflict }
func (e *TransientUploadError) StatusCode() int { return http.StatusBadGateway }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, item)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
