package beacons

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/database"
	dberrors "github.com/rhizano/era-beacon-api/internal/infrastructure/database/errors"
)

const beaconColumns = `id, beacon_id, location_name, latitude, longitude, app_token, created_at, updated_at`

// Store persists beacon registrations
type Store struct {
	db  database.DBTX
	now func() time.Time
}

// NewStore creates a beacon store
func NewStore(db database.DBTX) *Store {
	return &Store{db: db, now: time.Now}
}

// Create inserts a new beacon and returns it
func (s *Store) Create(ctx context.Context, req CreateBeaconRequest) (*BeaconResponse, error) {
	id := uuid.NewString()
	now := s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO beacons (id, beacon_id, location_name, latitude, longitude, app_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.BeaconID, req.LocationName, req.Latitude, req.Longitude, req.AppToken, now, now)
	if err != nil {
		if dberrors.ClassifyError(err) == dberrors.ErrorTypeDuplicateKey {
			return nil, ErrBeaconAlreadyExists
		}
		return nil, WrapBeaconError(err, "create beacon")
	}

	return &BeaconResponse{
		ID:           id,
		BeaconID:     req.BeaconID,
		LocationName: req.LocationName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		AppToken:     req.AppToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetByID fetches one beacon by its UUID
func (s *Store) GetByID(ctx context.Context, id string) (*BeaconResponse, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+beaconColumns+` FROM beacons WHERE id = ?`, id)
	return scanBeacon(row)
}

// GetByBeaconID fetches one beacon by its advertised identifier
func (s *Store) GetByBeaconID(ctx context.Context, beaconID string) (*BeaconResponse, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+beaconColumns+` FROM beacons WHERE beacon_id = ?`, beaconID)
	return scanBeacon(row)
}

// List returns all registered beacons, newest first
func (s *Store) List(ctx context.Context) ([]BeaconResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+beaconColumns+` FROM beacons ORDER BY created_at DESC`)
	if err != nil {
		return nil, WrapBeaconError(err, "list beacons")
	}
	defer rows.Close()

	beacons := make([]BeaconResponse, 0)
	for rows.Next() {
		b, err := scanBeacon(rows)
		if err != nil {
			return nil, err
		}
		beacons = append(beacons, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapBeaconError(err, "iterate beacons")
	}
	return beacons, nil
}

// Update applies partial changes to a beacon
func (s *Store) Update(ctx context.Context, id string, req UpdateBeaconRequest) (*BeaconResponse, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LocationName != nil {
		existing.LocationName = *req.LocationName
	}
	if req.Latitude != nil {
		existing.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		existing.Longitude = req.Longitude
	}
	if req.AppToken != nil {
		existing.AppToken = req.AppToken
	}
	existing.UpdatedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx,
		`UPDATE beacons SET location_name = ?, latitude = ?, longitude = ?, app_token = ?, updated_at = ? WHERE id = ?`,
		existing.LocationName, existing.Latitude, existing.Longitude, existing.AppToken, existing.UpdatedAt, id)
	if err != nil {
		return nil, WrapBeaconError(err, "update beacon")
	}
	return existing, nil
}

// Delete removes a beacon
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM beacons WHERE id = ?`, id)
	if err != nil {
		return WrapBeaconError(err, "delete beacon")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WrapBeaconError(err, "delete beacon")
	}
	if affected == 0 {
		return ErrBeaconNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBeacon(row rowScanner) (*BeaconResponse, error) {
	var b BeaconResponse
	err := row.Scan(&b.ID, &b.BeaconID, &b.LocationName, &b.Latitude, &b.Longitude, &b.AppToken, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBeaconNotFound
	}
	if err != nil {
		return nil, WrapBeaconError(err, "scan beacon")
	}
	return &b, nil
}
