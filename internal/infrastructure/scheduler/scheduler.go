package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vendorlink/supplierflow/internal/application/port"
)

// Config holds overdue scanner configuration
type Config struct {
	Interval  time.Duration
	BatchSize int
}

// OverdueScanner periodically scans for approval steps whose due date has
// passed and logs them for follow-up. A single goroutine owns the scan loop;
// Start and Stop are safe to call from any goroutine.
type OverdueScanner struct {
	store  port.WorkflowStore
	clock  port.Clock
	config Config
	logger *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}

	lastRun time.Time
}

// NewOverdueScanner creates a new overdue step scanner
func NewOverdueScanner(store port.WorkflowStore, clock port.Clock, config Config, logger *zap.Logger) *OverdueScanner {
	return &OverdueScanner{
		store:  store,
		clock:  clock,
		config: config,
		logger: logger,
	}
}

// Start launches the scan loop
func (s *OverdueScanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("overdue scanner already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.isRunning = true

	go s.scanLoop(loopCtx)

	s.logger.Info("Overdue scanner started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize))
	return nil
}

// Stop halts the scan loop and waits for it to exit
func (s *OverdueScanner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.isRunning = false
	s.mu.Unlock()

	<-done
	s.logger.Info("Overdue scanner stopped")
}

// LastRun returns the time of the most recent completed scan
func (s *OverdueScanner) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *OverdueScanner) scanLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

func (s *OverdueScanner) scan(ctx context.Context) {
	now := s.clock.Now()

	steps, err := s.store.ListOverdueSteps(ctx, now, s.config.BatchSize)
	if err != nil {
		s.logger.Error("Overdue scan failed", zap.Error(err))
		return
	}

	for _, step := range steps {
		s.logger.Warn("Approval step overdue",
			zap.String("workflow_id", step.WorkflowID),
			zap.Int("step_order", step.StepOrder),
			zap.String("step", step.Name),
			zap.Timep("due_at", step.DueAt))
	}

	s.mu.Lock()
	s.lastRun = now
	s.mu.Unlock()

	if len(steps) > 0 {
		s.logger.Info("Overdue scan completed", zap.Int("overdue_steps", len(steps)))
	}
}
