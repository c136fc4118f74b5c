package store

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so store timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// Options holds the collaborators shared by every store.
// Zero values fall back to RealClock, UUIDGenerator and slog.Default().
type Options struct {
	Clock  Clock
	IDs    IDGenerator
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = RealClock{}
	}
	if o.IDs == nil {
		o.IDs = UUIDGenerator{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// later returns now unless it is before prev, so UpdatedAt never moves backwards
func later(now, prev time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
