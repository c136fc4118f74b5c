package upload

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
)

// ItemCreator persists completed items
type ItemCreator interface {
	Create(ctx context.Context, item models.Item) (models.Item, error)
}

// Options configures a Pipeline. Zero values fall back to sensible defaults.
type Options struct {
	Policy      *Policy
	Transfer    Transfer
	Tracker     *Tracker
	Concurrency int // max items transferring at once, 0 = unlimited

	// OnProgress is called from item goroutines and must be safe for concurrent use.
	// Calls for one upload id arrive in order.
	OnProgress func(models.InFlightUpload)

	NewID  func() string
	Logger *slog.Logger
}

// Pipeline validates a batch, transfers valid items concurrently and persists the ones
// that reach 100%.
type Pipeline struct {
	items       ItemCreator
	policy      *Policy
	transfer    Transfer
	tracker     *Tracker
	concurrency int
	onProgress  func(models.InFlightUpload)
	newID       func() string
	logger      *slog.Logger
}

// NewPipeline creates a pipeline writing to items
func NewPipeline(items ItemCreator, opts Options) *Pipeline {
	if opts.Policy == nil {
		opts.Policy = DefaultPolicy()
	}
	if opts.Transfer == nil {
		opts.Transfer = NewSimulatedTransfer(0, 0)
	}
	if opts.Tracker == nil {
		opts.Tracker = NewTracker(nil)
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		items:       items,
		policy:      opts.Policy,
		transfer:    opts.Transfer,
		tracker:     opts.Tracker,
		concurrency: opts.Concurrency,
		onProgress:  opts.OnProgress,
		newID:       opts.NewID,
		logger:      opts.Logger,
	}
}

// Tracker exposes the in-flight records
func (p *Pipeline) Tracker() *Tracker {
	return p.tracker
}

// Policy returns the validation policy in use
func (p *Pipeline) Policy() *Policy {
	return p.policy
}

// Cancel stops one in-flight item. The item ends as a transient failure.
func (p *Pipeline) Cancel(uploadID string) error {
	return p.tracker.Cancel(uploadID)
}

type batch struct {
	mu     sync.Mutex
	stored []models.Item
	failed []models.FailedUpload
}

// Run processes raws and blocks until every valid item is stored or failed.
//
// Validation happens up front in submission order and never aborts the batch.
// Each valid item gets its own goroutine; items never share mutable state apart from the
// tracker, which is updated by upload id. Cancelling ctx fails every unfinished item.
func (p *Pipeline) Run(ctx context.Context, sessionID string, folderID *string, raws []models.RawItem) models.UploadBatchResult {
	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	result := models.UploadBatchResult{
		SessionID:        sessionID,
		Stored:           []models.Item{},
		ValidationErrors: []string{},
		Failed:           []models.FailedUpload{},
	}

	valid := make([]models.RawItem, 0, len(raws))
	for _, raw := range raws {
		if err := p.policy.Check(raw); err != nil {
			result.ValidationErrors = append(result.ValidationErrors, err.Error())
			itemsTotal.WithLabelValues(outcomeRejected).Inc()
			continue
		}
		valid = append(valid, raw)
	}

	var sem chan struct{}
	if p.concurrency > 0 {
		sem = make(chan struct{}, p.concurrency)
	}

	var (
		wg  sync.WaitGroup
		out batch
	)
	for _, raw := range valid {
		uploadID := p.newID()
		itemCtx, cancel := context.WithCancel(ctx)
		record := p.tracker.Register(uploadID, sessionID, raw, cancel)
		p.notify(record)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancel()
			p.process(itemCtx, uploadID, folderID, raw, sem, &out)
		}()
	}
	wg.Wait()

	result.Stored = append(result.Stored, out.stored...)
	result.Failed = append(result.Failed, out.failed...)
	result.TransientFailures = len(out.failed)

	p.logger.Info("upload batch finished",
		"session_id", sessionID,
		"submitted", len(raws),
		"stored", len(result.Stored),
		"rejected", len(result.ValidationErrors),
		"failed", result.TransientFailures,
		"duration", time.Since(start),
	)
	return result
}

func (p *Pipeline) process(ctx context.Context, uploadID string, folderID *string, raw models.RawItem, sem chan struct{}, out *batch) {
	if sem != nil {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		case <-ctx.Done():
			p.fail(uploadID, raw, ctx.Err(), out)
			return
		}
	}

	inFlightGauge.Inc()
	defer inFlightGauge.Dec()

	var last atomic.Int64
	err := p.transfer.Run(ctx, raw, func(progress int) {
		last.Store(int64(progress))
		if record, changed := p.tracker.SetProgress(uploadID, progress); changed {
			p.notify(record)
		}
	})
	if err == nil {
		err = checkComplete(int(last.Load()))
	}
	if err != nil {
		p.fail(uploadID, raw, err, out)
		return
	}

	item, err := p.items.Create(ctx, models.Item{
		ID:       uploadID,
		Name:     raw.Name,
		Size:     raw.Size,
		Type:     raw.Type,
		Status:   models.StatusCompleted,
		Progress: 100,
		FolderID: models.CloneID(folderID),
		URL:      raw.URL,
	})
	if err != nil {
		p.fail(uploadID, raw, err, out)
		return
	}

	record, _ := p.tracker.Get(uploadID)
	p.tracker.Complete(uploadID)
	record.Status = models.StatusCompleted
	p.notify(record)

	itemsTotal.WithLabelValues(outcomeStored).Inc()
	out.mu.Lock()
	out.stored = append(out.stored, item)
	out.mu.Unlock()
}

func (p *Pipeline) fail(uploadID string, raw models.RawItem, cause error, out *batch) {
	err := &domain.TransientUploadError{Name: raw.Name, Err: cause}
	if record, ok := p.tracker.Fail(uploadID, err); ok {
		p.notify(record)
	}

	p.logger.Warn("upload failed", "upload_id", uploadID, "name", raw.Name, "error", cause)
	itemsTotal.WithLabelValues(outcomeFailed).Inc()

	out.mu.Lock()
	out.failed = append(out.failed, models.FailedUpload{UploadID: uploadID, Name: raw.Name, Error: err.Error()})
	out.mu.Unlock()
}

func (p *Pipeline) notify(record models.InFlightUpload) {
	if p.onProgress != nil {
		p.onProgress(record)
	}
}
