package upload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"filedrop/internal/config"
	"filedrop/internal/domain/models"
)

// ErrTransferFailed is returned when a transfer gives up
var ErrTransferFailed = errors.New("transfer failed")

// ProgressFunc receives progress percentages while a transfer runs
type ProgressFunc func(progress int)

// Transfer moves one item's content, reporting progress from 0 to 100
type Transfer interface {
	Run(ctx context.Context, raw models.RawItem, report ProgressFunc) error
}

// SimulatedTransfer reports progress in fixed steps with a pause before each one
type SimulatedTransfer struct {
	Step  int
	Delay time.Duration
}

// NewSimulatedTransfer returns a transfer stepping by step percent every delay.
// A non-positive step falls back to config.DefaultProgressStep.
func NewSimulatedTransfer(step int, delay time.Duration) *SimulatedTransfer {
	if step <= 0 || step > 100 {
		step = config.DefaultProgressStep
	}
	return &SimulatedTransfer{Step: step, Delay: delay}
}

func (t *SimulatedTransfer) Run(ctx context.Context, raw models.RawItem, report ProgressFunc) error {
	step := t.Step
	if step <= 0 {
		step = config.DefaultProgressStep
	}

	progress := 0
	for {
		if err := sleep(ctx, t.Delay); err != nil {
			return err
		}
		report(progress)
		if progress == 100 {
			return nil
		}
		progress = min(progress+step, 100)
	}
}

// FlakyTransfer wraps a transfer and fails a random fraction of items before they finish
type FlakyTransfer struct {
	Inner Transfer
	Rate  float64
	rand  func() float64
}

// NewFlakyTransfer fails roughly rate of all transfers. A rate of 0 never fails.
func NewFlakyTransfer(inner Transfer, rate float64) *FlakyTransfer {
	return &FlakyTransfer{Inner: inner, Rate: rate, rand: rand.Float64}
}

func (t *FlakyTransfer) Run(ctx context.Context, raw models.RawItem, report ProgressFunc) error {
	if t.Rate <= 0 || t.rand() >= t.Rate {
		return t.Inner.Run(ctx, raw, report)
	}

	// stop short of completion
	return t.Inner.Run(ctx, raw, func(progress int) {
		if progress < 100 {
			report(progress)
		}
	})
}

// checkComplete fails unless the last reported progress is exactly 100
func checkComplete(last int) error {
	if last != 100 {
		return fmt.Errorf("%w: stopped at %d%%", ErrTransferFailed, last)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
