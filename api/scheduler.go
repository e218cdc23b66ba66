/*
scheduler.go - Periodic accrual sweep

PURPOSE:
  Goal views already accrue on load. The sweep additionally catches every
  investment goal up to today in the background, so the activity log stays
  current for goals nobody opens.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Calls ledger.Service.AccrueAll; accrual is idempotent, so a sweep that
    races a view load adds nothing twice
  - One failing goal does not stop the others

CONFIGURATION:
  - CheckInterval: How often to sweep (ACCRUAL_SWEEP_INTERVAL)
  - Enabled: false when the interval is zero

USAGE:
  scheduler := NewAccrualScheduler(svc, time.Hour, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: AccrueGoal endpoint (manual accrual)
  - ledger/service.go: AccrueAll
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/pocket-ledger/ledger"
)

// AccrualScheduler runs the accrual sweep on a ticker.
type AccrualScheduler struct {
	Service       *ledger.Service
	CheckInterval time.Duration
	Enabled       bool
	Logger        *zap.Logger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAccrualScheduler creates a scheduler. A zero interval disables it.
func NewAccrualScheduler(svc *ledger.Service, interval time.Duration, logger *zap.Logger) *AccrualScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccrualScheduler{
		Service:       svc,
		CheckInterval: interval,
		Enabled:       interval > 0,
		Logger:        logger.Named("scheduler"),
	}
}

// Start begins the scheduler.
func (as *AccrualScheduler) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if !as.Enabled {
		as.Logger.Info("accrual sweep disabled")
		return
	}
	if as.ticker != nil {
		return
	}

	as.ticker = time.NewTicker(as.CheckInterval)
	as.stop = make(chan struct{})
	as.wg.Add(1)

	go as.run()

	as.Logger.Info("accrual sweep started", zap.Duration("interval", as.CheckInterval))
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (as *AccrualScheduler) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.ticker != nil {
		as.ticker.Stop()
		close(as.stop)
		as.wg.Wait()
		as.ticker = nil
		as.Logger.Info("accrual sweep stopped")
	}
}

func (as *AccrualScheduler) run() {
	defer as.wg.Done()

	// Run immediately on start
	as.Sweep(context.Background())

	for {
		select {
		case <-as.ticker.C:
			as.Sweep(context.Background())
		case <-as.stop:
			return
		}
	}
}

// Sweep accrues every investment goal once.
func (as *AccrualScheduler) Sweep(ctx context.Context) ledger.SweepResult {
	started := time.Now()
	result, err := as.Service.AccrueAll(ctx)
	if err != nil {
		as.Logger.Error("accrual sweep had failures", zap.Error(err))
	}

	as.Logger.Info("accrual sweep finished",
		zap.Int("goals", result.Goals),
		zap.Stringer("total_added", result.TotalAdded),
		zap.Duration("took", time.Since(started)))
	return result
}
