package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"go.uber.org/zap"
)

// Processor runs the query-and-dispatch half of a detection cycle. It is
// shared between the scheduled loop and the manual HTTP trigger, which
// skips the window and auth gates.
type Processor struct {
	source     AbsenceSource
	dispatcher Dispatcher
	logger     *observability.Logger
	serverLog  *observability.ServerLog
	metrics    *observability.Metrics
}

func NewProcessor(source AbsenceSource, dispatcher Dispatcher, logger *observability.Logger, serverLog *observability.ServerLog, metrics *observability.Metrics) *Processor {
	return &Processor{
		source:     source,
		dispatcher: dispatcher,
		logger:     logger,
		serverLog:  serverLog,
		metrics:    metrics,
	}
}

// Process queries absent employees and dispatches one notification per
// candidate, sequentially, in the order the source returned them. It never
// returns an error; query failures produce a failed summary.
func (p *Processor) Process(ctx context.Context, thresholdMinutes int) *CycleSummary {
	candidates, err := p.source.FindAbsentEmployees(ctx, thresholdMinutes)
	if err != nil {
		p.log(ctx, false, "absence query failed", zap.Error(err))
		return &CycleSummary{
			Success:          false,
			ThresholdMinutes: thresholdMinutes,
			Message:          "Failed to query absent employees",
			Outcome:          OutcomeQueryFailed,
		}
	}

	if len(candidates) == 0 {
		p.log(ctx, true, "no absent employees detected")
		return &CycleSummary{
			Success:          true,
			ThresholdMinutes: thresholdMinutes,
			Message:          "No absent employees detected",
			Outcome:          OutcomeNoCandidates,
			Details:          []DeliveryOutcome{},
		}
	}

	summary := &CycleSummary{
		Success:          true,
		ThresholdMinutes: thresholdMinutes,
		TotalEmployees:   len(candidates),
		Outcome:          OutcomeCompleted,
		Details:          make([]DeliveryOutcome, 0, len(candidates)),
	}

	for _, candidate := range candidates {
		outcome := p.dispatcher.Dispatch(ctx, candidate)
		summary.Details = append(summary.Details, outcome)

		if p.metrics != nil {
			p.metrics.RecordNotification(outcome.Succeeded)
		}

		if outcome.Succeeded {
			summary.Sent++
			continue
		}
		summary.Failed++
		p.log(ctx, false, "NOTIFICATION FAILED",
			zap.String("employee_id", outcome.EmployeeID),
			zap.Int("response_code", outcome.StatusCode),
			zap.String("response_message", outcome.ResponseBody),
		)
	}

	summary.Message = fmt.Sprintf("Processed %d absent employees: %d sent, %d failed",
		summary.TotalEmployees, summary.Sent, summary.Failed)
	p.log(ctx, true, summary.Message,
		zap.Int("total", summary.TotalEmployees),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
	)

	return summary
}

func (p *Processor) log(ctx context.Context, success bool, msg string, fields ...zap.Field) {
	if p.logger != nil {
		if success {
			p.logger.Info(ctx, msg, fields...)
		} else {
			p.logger.Warn(ctx, msg, fields...)
		}
	}
	if p.serverLog != nil {
		event := observability.Event{
			Component: "scheduler",
			Action:    "process",
			Message:   msg,
			Success:   success,
		}
		for _, f := range fields {
			if f.Key == "employee_id" {
				event.EmployeeID = f.String
				event.Action = "dispatch"
			}
		}
		p.serverLog.Record(ctx, event)
	}
}

// Runner gates a full scheduled cycle: business-hours window first, then a
// valid upstream session, then the processor.
type Runner struct {
	processor *Processor
	tokens    TokenSource

	windowStartHour int
	windowEndHour   int

	logger    *observability.Logger
	serverLog *observability.ServerLog
	now       func() time.Time
}

func NewRunner(processor *Processor, tokens TokenSource, windowStartHour, windowEndHour int, logger *observability.Logger, serverLog *observability.ServerLog) *Runner {
	return &Runner{
		processor:       processor,
		tokens:          tokens,
		windowStartHour: windowStartHour,
		windowEndHour:   windowEndHour,
		logger:          logger,
		serverLog:       serverLog,
		now:             time.Now,
	}
}

// RunCycle executes one detection cycle. A closed window or failed
// authentication short-circuits before the absence query runs.
func (r *Runner) RunCycle(ctx context.Context, thresholdMinutes int) *CycleSummary {
	now := r.now()
	if !IsActiveWindow(now, r.windowStartHour, r.windowEndHour) {
		r.record(ctx, true, "cycle skipped: outside business hours",
			zap.Time("now", now),
			zap.Int("window_start", r.windowStartHour),
			zap.Int("window_end", r.windowEndHour),
		)
		return &CycleSummary{
			Success:          false,
			ThresholdMinutes: thresholdMinutes,
			Message:          "Outside business hours",
			Outcome:          OutcomeWindowSkipped,
		}
	}

	if err := r.tokens.EnsureValid(ctx); err != nil {
		r.record(ctx, false, "cycle aborted: upstream authentication failed", zap.Error(err))
		return &CycleSummary{
			Success:          false,
			ThresholdMinutes: thresholdMinutes,
			Message:          "Authentication failed",
			Outcome:          OutcomeAuthFailed,
		}
	}

	return r.processor.Process(ctx, thresholdMinutes)
}

func (r *Runner) record(ctx context.Context, success bool, msg string, fields ...zap.Field) {
	if r.logger != nil {
		if success {
			r.logger.Info(ctx, msg, fields...)
		} else {
			r.logger.Error(ctx, msg, fields...)
		}
	}
	if r.serverLog != nil {
		r.serverLog.Record(ctx, observability.Event{
			Component: "scheduler",
			Action:    "cycle",
			Message:   msg,
			Success:   success,
		})
	}
}
