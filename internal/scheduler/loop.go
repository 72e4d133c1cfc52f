package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"go.uber.org/zap"
)

// Authenticator is the slice of TokenManager the loop needs for its
// eager login at startup.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}

// Loop drives the runner on a fixed interval equal to the absence
// threshold. Ticks that land while a cycle is in flight are dropped, and
// ticks delayed past the misfire grace are skipped entirely.
type Loop struct {
	runner    *Runner
	auth      Authenticator
	threshold int
	interval  time.Duration
	grace     time.Duration

	logger    *observability.Logger
	serverLog *observability.ServerLog
	metrics   *observability.Metrics
	now       func() time.Time

	inFlight atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewLoop(runner *Runner, auth Authenticator, thresholdMinutes int, misfireGrace time.Duration, logger *observability.Logger, serverLog *observability.ServerLog, metrics *observability.Metrics) *Loop {
	return &Loop{
		runner:    runner,
		auth:      auth,
		threshold: thresholdMinutes,
		interval:  time.Duration(thresholdMinutes) * time.Minute,
		grace:     misfireGrace,
		logger:    logger,
		serverLog: serverLog,
		metrics:   metrics,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Run blocks until the context is cancelled or Stop is called. An in-flight
// cycle always finishes before Run returns.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.doneCh)

	// Eager login so the first tick does not pay the auth round trip.
	// Failure is not fatal; the runner re-authenticates per cycle.
	if err := l.auth.Authenticate(ctx); err != nil {
		l.logger.Warn(ctx, "initial upstream authentication failed, will retry per cycle", zap.Error(err))
	}

	l.logger.Info(ctx, "absence scheduler started",
		zap.Int("threshold_minutes", l.threshold),
		zap.Duration("interval", l.interval),
		zap.Duration("misfire_grace", l.grace),
	)
	if l.serverLog != nil {
		l.serverLog.Record(ctx, observability.Event{
			Component: "scheduler",
			Action:    "started",
			Message:   "absence scheduler started",
			Success:   true,
		})
	}
	defer func() {
		if l.serverLog != nil {
			l.serverLog.Record(ctx, observability.Event{
				Component: "scheduler",
				Action:    "stopped",
				Message:   "absence scheduler stopped",
				Success:   true,
			})
		}
	}()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	expected := l.now().Add(l.interval)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info(ctx, "absence scheduler stopping: context cancelled")
			return
		case <-l.stopCh:
			l.logger.Info(ctx, "absence scheduler stopping")
			return
		case tick := <-ticker.C:
			lateness := tick.Sub(expected)
			expected = tick.Add(l.interval)

			if lateness > l.grace {
				l.logger.Warn(ctx, "tick missed its grace period, skipping cycle",
					zap.Duration("lateness", lateness),
					zap.Duration("grace", l.grace),
				)
				if l.metrics != nil {
					l.metrics.SchedulerCyclesTotal.WithLabelValues("misfired").Inc()
				}
				continue
			}

			l.runGuarded(ctx)
		}
	}
}

// RunOnce triggers a single cycle outside the schedule with the same
// single-flight guarantee as a tick.
func (l *Loop) RunOnce(ctx context.Context) *CycleSummary {
	if !l.inFlight.CompareAndSwap(false, true) {
		return &CycleSummary{
			Success:          false,
			ThresholdMinutes: l.threshold,
			Message:          "A cycle is already in progress",
		}
	}
	defer l.inFlight.Store(false)

	return l.execute(ctx)
}

// Stop halts the loop and waits for any in-flight cycle to finish.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
	<-l.doneCh
}

func (l *Loop) runGuarded(ctx context.Context) {
	if !l.inFlight.CompareAndSwap(false, true) {
		l.logger.Warn(ctx, "previous cycle still running, dropping tick")
		if l.metrics != nil {
			l.metrics.SchedulerCyclesTotal.WithLabelValues("overlap_dropped").Inc()
		}
		return
	}
	defer l.inFlight.Store(false)

	l.execute(ctx)
}

func (l *Loop) execute(ctx context.Context) *CycleSummary {
	cycleID := uuid.NewString()
	ctx = context.WithValue(ctx, observability.CycleIDKey, cycleID)

	start := l.now()
	summary := l.runner.RunCycle(ctx, l.threshold)
	elapsed := time.Since(start)

	if l.metrics != nil {
		l.metrics.RecordCycle(string(summary.Outcome), elapsed)
	}

	l.logger.Info(ctx, "cycle finished",
		zap.String("outcome", string(summary.Outcome)),
		zap.String("message", summary.Message),
		zap.Int("total_employees", summary.TotalEmployees),
		zap.Int("notifications_sent", summary.Sent),
		zap.Int("notifications_failed", summary.Failed),
		zap.Duration("elapsed", elapsed),
	)

	return summary
}
