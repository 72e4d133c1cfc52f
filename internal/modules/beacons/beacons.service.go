package beacons

import (
	"context"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/shared/validator"
)

// Service handles beacon business logic
type Service struct {
	store     *Store
	validator *validator.Validator
	logger    *observability.Logger
	serverLog *observability.ServerLog
}

// NewService creates a new beacon service
func NewService(store *Store, validator *validator.Validator, logger *observability.Logger, serverLog *observability.ServerLog) *Service {
	return &Service{
		store:     store,
		validator: validator,
		logger:    logger,
		serverLog: serverLog,
	}
}

// Create registers a new beacon
func (s *Service) Create(ctx context.Context, req CreateBeaconRequest) (*BeaconResponse, error) {
	beacon, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.serverLog.Record(ctx, observability.Event{
		Component: "beacons",
		Action:    "beacon_registered",
		Resource:  beacon.BeaconID,
		Success:   true,
	})
	return beacon, nil
}

// Get fetches one beacon by UUID
func (s *Service) Get(ctx context.Context, id string) (*BeaconResponse, error) {
	if err := s.validator.ValidateVar(id, "required,uuid4"); err != nil {
		return nil, ValidationError("Invalid beacon ID", map[string]interface{}{"id": id})
	}
	return s.store.GetByID(ctx, id)
}

// List returns all registered beacons
func (s *Service) List(ctx context.Context) ([]BeaconResponse, error) {
	return s.store.List(ctx)
}

// Update applies partial changes to a beacon
func (s *Service) Update(ctx context.Context, id string, req UpdateBeaconRequest) (*BeaconResponse, error) {
	if err := s.validator.ValidateVar(id, "required,uuid4"); err != nil {
		return nil, ValidationError("Invalid beacon ID", map[string]interface{}{"id": id})
	}
	return s.store.Update(ctx, id, req)
}

// Delete removes a beacon
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.validator.ValidateVar(id, "required,uuid4"); err != nil {
		return ValidationError("Invalid beacon ID", map[string]interface{}{"id": id})
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.serverLog.Record(ctx, observability.Event{
		Component: "beacons",
		Action:    "beacon_deleted",
		Resource:  id,
		Success:   true,
	})
	return nil
}
