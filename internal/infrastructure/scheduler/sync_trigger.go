// Package scheduler drives the periodic marketplace reconciliation runs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bookpress/backend/internal/domain/integration"
)

// SyncRunner runs one reconciliation pass over every marketplace
type SyncRunner interface {
	SyncAll(ctx context.Context) []integration.SourceSyncReport
}

// ImageSweeper runs the standalone cover image sweep
type ImageSweeper interface {
	SweepAll(ctx context.Context) integration.StageResult
}

// TriggerConfig holds configuration for the sync trigger
type TriggerConfig struct {
	// Enabled determines if the trigger is active
	Enabled bool

	// RunAtStartup runs a full sync pass immediately on Start
	RunAtStartup bool

	// SyncInterval is the cadence of full marketplace sync passes
	SyncInterval time.Duration

	// ImageSweepInterval is the cadence of catalog-wide cover sweeps
	ImageSweepInterval time.Duration

	// JobTimeout is the maximum time one pass can run
	JobTimeout time.Duration
}

// DefaultTriggerConfig returns default configuration
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		Enabled:            true,
		RunAtStartup:       true,
		SyncInterval:       30 * time.Minute,
		ImageSweepInterval: 6 * time.Hour,
		JobTimeout:         10 * time.Minute,
	}
}

// Validate validates the configuration
func (c *TriggerConfig) Validate() error {
	if c.SyncInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.ImageSweepInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SyncTrigger owns the two background loops of the reconciliation
// subsystem: the full marketplace sync and the cover image sweep.
// Completed reports are retained in memory for the status endpoint.
type SyncTrigger struct {
	runner  SyncRunner
	sweeper ImageSweeper
	config  TriggerConfig
	logger  *zap.Logger

	runCtx    context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	historyMu  sync.RWMutex
	history    []SyncRun
	maxHistory int
}

// SyncRun is one recorded trigger-initiated sync pass
type SyncRun struct {
	Kind        string                         `json:"kind"`
	StartedAt   time.Time                      `json:"started_at"`
	CompletedAt time.Time                      `json:"completed_at"`
	Reports     []integration.SourceSyncReport `json:"reports,omitempty"`
	ImageSweep  *integration.StageResult       `json:"image_sweep,omitempty"`
}

// NewSyncTrigger creates a new sync trigger
func NewSyncTrigger(runner SyncRunner, sweeper ImageSweeper, config TriggerConfig, logger *zap.Logger) (*SyncTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SyncTrigger{
		runner:     runner,
		sweeper:    sweeper,
		config:     config,
		logger:     logger,
		history:    make([]SyncRun, 0, 100),
		maxHistory: 100,
	}, nil
}

// Start starts the background loops
func (t *SyncTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	if !t.config.Enabled {
		t.mu.Unlock()
		t.logger.Info("Sync trigger is disabled")
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.runCtx = ctx
	t.cancel = cancel

	t.wg.Add(1)
	go t.runSyncLoop(ctx)

	t.wg.Add(1)
	go t.runImageSweepLoop(ctx)

	t.logger.Info("Sync trigger started",
		zap.Bool("run_at_startup", t.config.RunAtStartup),
		zap.Duration("sync_interval", t.config.SyncInterval),
		zap.Duration("image_sweep_interval", t.config.ImageSweepInterval),
	)
	return nil
}

// Stop gracefully stops the background loops
func (t *SyncTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sync trigger stopped gracefully")
		return nil
	case <-ctx.Done():
		t.logger.Warn("Sync trigger stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the trigger is running
func (t *SyncTrigger) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRunning
}

// TriggerSync runs a full sync pass in the background. The pass runs on
// the trigger's own lifecycle context, not the caller's, so it survives
// the requesting HTTP connection and stops with the trigger.
func (t *SyncTrigger) TriggerSync(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return ErrTriggerNotRunning
	}
	runCtx := t.runCtx
	t.wg.Add(1)
	t.mu.Unlock()

	t.logger.Info("Triggering immediate sync pass")
	go func() {
		defer t.wg.Done()
		t.executeSync(runCtx, "manual")
	}()
	return nil
}

// History returns the most recent recorded runs, newest first
func (t *SyncTrigger) History(limit int) []SyncRun {
	t.historyMu.RLock()
	defer t.historyMu.RUnlock()

	if limit <= 0 || limit > len(t.history) {
		limit = len(t.history)
	}
	result := make([]SyncRun, limit)
	copy(result, t.history[:limit])
	return result
}

func (t *SyncTrigger) runSyncLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.config.RunAtStartup {
		t.executeSync(ctx, "startup")
	}

	ticker := time.NewTicker(t.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("Sync loop stopping")
			return
		case <-ticker.C:
			t.executeSync(ctx, "scheduled")
		}
	}
}

func (t *SyncTrigger) runImageSweepLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.ImageSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("Image sweep loop stopping")
			return
		case <-ticker.C:
			t.executeImageSweep(ctx)
		}
	}
}

func (t *SyncTrigger) executeSync(ctx context.Context, kind string) {
	runCtx, cancel := context.WithTimeout(ctx, t.config.JobTimeout)
	defer cancel()

	run := SyncRun{Kind: kind, StartedAt: time.Now()}
	t.logger.Info("Starting sync pass", zap.String("kind", kind))

	run.Reports = t.runner.SyncAll(runCtx)
	run.CompletedAt = time.Now()
	t.addToHistory(run)

	synced, failed := 0, 0
	for _, report := range run.Reports {
		synced += report.Products.SuccessCount() + report.Orders.SuccessCount()
		failed += report.Products.FailureCount() + report.Orders.FailureCount()
	}
	t.logger.Info("Sync pass completed",
		zap.String("kind", kind),
		zap.Int("marketplaces", len(run.Reports)),
		zap.Int("records_synced", synced),
		zap.Int("records_failed", failed),
		zap.Duration("duration", run.CompletedAt.Sub(run.StartedAt)),
	)
}

func (t *SyncTrigger) executeImageSweep(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, t.config.JobTimeout)
	defer cancel()

	run := SyncRun{Kind: "image_sweep", StartedAt: time.Now()}
	t.logger.Info("Starting catalog image sweep")

	result := t.sweeper.SweepAll(runCtx)
	run.ImageSweep = &result
	run.CompletedAt = time.Now()
	t.addToHistory(run)

	t.logger.Info("Catalog image sweep completed",
		zap.Int("repaired", result.SuccessCount()),
		zap.Int("failed", result.FailureCount()),
		zap.Duration("duration", run.CompletedAt.Sub(run.StartedAt)),
	)
}

func (t *SyncTrigger) addToHistory(run SyncRun) {
	t.historyMu.Lock()
	defer t.historyMu.Unlock()

	t.history = append([]SyncRun{run}, t.history...)
	if len(t.history) > t.maxHistory {
		t.history = t.history[:t.maxHistory]
	}
}
