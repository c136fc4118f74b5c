package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/repositories"
)

// SessionStore records upload batches
type SessionStore struct {
	mu       sync.RWMutex
	open     bool
	sessions map[string]*models.UploadSession
	order    []string

	backend repositories.SessionBackend
	clock   Clock
	ids     IDGenerator
	logger  *slog.Logger
}

// NewSessionStore creates a session store. backend may be nil for a memory-only store.
func NewSessionStore(backend repositories.SessionBackend, opts Options) *SessionStore {
	opts = opts.withDefaults()
	return &SessionStore{
		sessions: make(map[string]*models.UploadSession),
		backend:  backend,
		clock:    opts.Clock,
		ids:      opts.IDs,
		logger:   opts.Logger,
	}
}

// Open loads the persisted sessions, if any
func (s *SessionStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}
	if s.backend != nil {
		sessions, err := s.backend.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load upload sessions: %w", err)
		}
		for _, session := range sessions {
			session := session.Clone()
			s.sessions[session.ID] = &session
			s.order = append(s.order, session.ID)
		}
	}
	s.open = true
	return nil
}

// Close makes the store unusable
func (s *SessionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	s.sessions = make(map[string]*models.UploadSession)
	s.order = nil
	return nil
}

// Create starts a session for a batch of total items targeting folderID
func (s *SessionStore) Create(ctx context.Context, folderID *string, total int) (models.UploadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return models.UploadSession{}, ErrClosed
	}

	session := models.UploadSession{
		ID:        s.ids.New(),
		FolderID:  models.CloneID(folderID),
		StartTime: s.clock.Now(),
		Total:     total,
	}

	if s.backend != nil {
		if err := s.backend.Insert(ctx, &session); err != nil {
			return models.UploadSession{}, fmt.Errorf("persist upload session: %w", err)
		}
	}

	s.sessions[session.ID] = &session
	s.order = append(s.order, session.ID)
	return session.Clone(), nil
}

// Complete closes a session with its final counts
func (s *SessionStore) Complete(ctx context.Context, id string, stored, rejected, failed int) (models.UploadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return models.UploadSession{}, ErrClosed
	}
	current, ok := s.sessions[id]
	if !ok {
		return models.UploadSession{}, domain.NewNotFound("session", id)
	}

	updated := current.Clone()
	end := later(s.clock.Now(), updated.StartTime)
	updated.EndTime = &end
	updated.Completed = true
	updated.Stored = stored
	updated.Rejected = rejected
	updated.Failed = failed

	if s.backend != nil {
		if err := s.backend.Update(ctx, &updated); err != nil {
			return models.UploadSession{}, fmt.Errorf("persist upload session: %w", err)
		}
	}

	*current = updated
	return updated.Clone(), nil
}

// Get returns one session
func (s *SessionStore) Get(id string) (models.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return models.UploadSession{}, ErrClosed
	}
	session, ok := s.sessions[id]
	if !ok {
		return models.UploadSession{}, domain.NewNotFound("session", id)
	}
	return session.Clone(), nil
}

// List returns every session, oldest first
func (s *SessionStore) List() ([]models.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, ErrClosed
	}
	sessions := make([]models.UploadSession, 0, len(s.order))
	for _, id := range s.order {
		sessions = append(sessions, s.sessions[id].Clone())
	}
	return sessions, nil
}
