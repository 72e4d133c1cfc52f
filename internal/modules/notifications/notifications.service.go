package notifications

import (
	"context"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/scheduler"
	"github.com/rhizano/era-beacon-api/internal/shared/validator"
)

// Service handles absence detection business logic
type Service struct {
	processor        *scheduler.Processor
	store            *Store
	validator        *validator.Validator
	logger           *observability.Logger
	serverLog        *observability.ServerLog
	defaultThreshold int
}

// NewService creates a new notifications service
func NewService(
	processor *scheduler.Processor,
	store *Store,
	validator *validator.Validator,
	logger *observability.Logger,
	serverLog *observability.ServerLog,
	defaultThreshold int,
) *Service {
	return &Service{
		processor:        processor,
		store:            store,
		validator:        validator,
		logger:           logger,
		serverLog:        serverLog,
		defaultThreshold: defaultThreshold,
	}
}

// NotifyAbsence runs one detection pass and returns the full cycle report.
// The business-hours window and scheduler cadence do not apply here: a manual
// trigger always runs.
func (s *Service) NotifyAbsence(ctx context.Context, req NotifyAbsenceRequest) *scheduler.CycleSummary {
	threshold := s.defaultThreshold
	if req.ThresholdMinutes != nil {
		threshold = *req.ThresholdMinutes
	}

	summary := s.processor.Process(ctx, threshold)

	s.serverLog.Record(ctx, observability.Event{
		Component: "notifications",
		Action:    "notify_absence",
		Message:   summary.Message,
		Success:   summary.Success,
	})
	return summary
}

// AbsentDetail returns the presence state for one employee
func (s *Service) AbsentDetail(ctx context.Context, employeeID string) (*AbsentDetailResponse, error) {
	if err := s.validator.ValidateVar(employeeID, "required,max=64"); err != nil {
		return nil, ValidationError("Invalid employee ID", map[string]interface{}{
			"employee_id": employeeID,
		})
	}
	return s.store.AbsentDetail(ctx, employeeID)
}
