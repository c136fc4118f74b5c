package upload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/domain/models"
)

func collect(t *testing.T, tr Transfer) ([]int, error) {
	t.Helper()
	var steps []int
	err := tr.Run(context.Background(), models.RawItem{Name: "a.png"}, func(p int) { steps = append(steps, p) })
	return steps, err
}

func TestSimulatedTransfer_Steps(t *testing.T) {
	steps, err := collect(t, NewSimulatedTransfer(10, 0))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, steps)
}

func TestSimulatedTransfer_UnevenStepEndsAtHundred(t *testing.T) {
	steps, err := collect(t, NewSimulatedTransfer(30, 0))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 30, 60, 90, 100}, steps)
}

func TestSimulatedTransfer_DefaultStep(t *testing.T) {
	tr := NewSimulatedTransfer(0, 0)
	assert.Equal(t, 10, tr.Step)
}

func TestSimulatedTransfer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewSimulatedTransfer(10, 10*time.Millisecond)

	var steps []int
	go func() {
		time.Sleep(25 * time.Millisecond)
		cancel()
	}()
	err := tr.Run(ctx, models.RawItem{Name: "a.png"}, func(p int) { steps = append(steps, p) })

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, steps, 100)
}

func TestFlakyTransfer(t *testing.T) {
	t.Run("zero rate passes through", func(t *testing.T) {
		steps, err := collect(t, NewFlakyTransfer(NewSimulatedTransfer(50, 0), 0))
		require.NoError(t, err)
		assert.Equal(t, []int{0, 50, 100}, steps)
	})

	t.Run("forced failure never reports 100", func(t *testing.T) {
		tr := NewFlakyTransfer(NewSimulatedTransfer(50, 0), 0.5)
		tr.rand = func() float64 { return 0.1 }

		steps, err := collect(t, tr)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 50}, steps)
		assert.ErrorIs(t, checkComplete(steps[len(steps)-1]), ErrTransferFailed)
	})
}
