package presence

import (
	"context"
	"time"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/shared/validator"
)

// Service handles presence log business logic
type Service struct {
	store     *Store
	validator *validator.Validator
	logger    *observability.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewService creates a new presence service
func NewService(store *Store, validator *validator.Validator, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:     store,
		validator: validator,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Create records a detection event. The beacon must be registered; a missing
// timestamp defaults to the ingestion time.
func (s *Service) Create(ctx context.Context, req CreatePresenceLogRequest) (*PresenceLogResponse, error) {
	exists, err := s.store.BeaconExists(ctx, req.BeaconID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownBeacon
	}

	timestamp := s.now().UTC()
	if req.Timestamp != nil {
		timestamp = req.Timestamp.UTC()
	}

	log, err := s.store.Create(ctx, req.UserID, req.BeaconID, timestamp)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PresenceLogsRecorded.Inc()
	}
	return log, nil
}

// Get fetches one presence log by UUID
func (s *Service) Get(ctx context.Context, id string) (*PresenceLogResponse, error) {
	if err := s.validator.ValidateVar(id, "required,uuid4"); err != nil {
		return nil, ValidationError("Invalid presence log ID", map[string]interface{}{"id": id})
	}
	return s.store.GetByID(ctx, id)
}

// List returns filtered, paginated presence logs
func (s *Service) List(ctx context.Context, req ListPresenceLogsRequest) (*PresenceLogListResponse, error) {
	return s.store.List(ctx, req)
}

// Delete removes one presence log
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.validator.ValidateVar(id, "required,uuid4"); err != nil {
		return ValidationError("Invalid presence log ID", map[string]interface{}{"id": id})
	}
	return s.store.Delete(ctx, id)
}
