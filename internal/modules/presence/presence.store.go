package presence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/database"
)

const presenceColumns = `id, user_id, beacon_id, timestamp, created_at`

// Store persists presence detection events
type Store struct {
	db  database.DBTX
	now func() time.Time
}

// NewStore creates a presence log store
func NewStore(db database.DBTX) *Store {
	return &Store{db: db, now: time.Now}
}

// BeaconExists reports whether a beacon identifier is registered. Presence
// events against unknown beacons are rejected upstream.
func (s *Store) BeaconExists(ctx context.Context, beaconID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM beacons WHERE beacon_id = ?`, beaconID).Scan(&count)
	if err != nil {
		return false, WrapPresenceError(err, "check beacon")
	}
	return count > 0, nil
}

// Create inserts a presence log and returns it
func (s *Store) Create(ctx context.Context, userID, beaconID string, timestamp time.Time) (*PresenceLogResponse, error) {
	id := uuid.NewString()
	now := s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO presence_logs (id, user_id, beacon_id, timestamp, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, userID, beaconID, timestamp, now)
	if err != nil {
		return nil, WrapPresenceError(err, "create presence log")
	}

	return &PresenceLogResponse{
		ID:        id,
		UserID:    userID,
		BeaconID:  beaconID,
		Timestamp: timestamp,
		CreatedAt: now,
	}, nil
}

// GetByID fetches one presence log
func (s *Store) GetByID(ctx context.Context, id string) (*PresenceLogResponse, error) {
	var log PresenceLogResponse
	err := s.db.QueryRowContext(ctx,
		`SELECT `+presenceColumns+` FROM presence_logs WHERE id = ?`, id).
		Scan(&log.ID, &log.UserID, &log.BeaconID, &log.Timestamp, &log.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPresenceLogNotFound
	}
	if err != nil {
		return nil, WrapPresenceError(err, "get presence log")
	}
	return &log, nil
}

// List returns a filtered, paginated page of presence logs, newest first.
func (s *Store) List(ctx context.Context, req ListPresenceLogsRequest) (*PresenceLogListResponse, error) {
	where, args := buildFilters(req)

	var total int64
	countQuery := `SELECT COUNT(*) FROM presence_logs` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, WrapPresenceError(err, "count presence logs")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := `SELECT ` + presenceColumns + ` FROM presence_logs` + where +
		` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, WrapPresenceError(err, "list presence logs")
	}
	defer rows.Close()

	logs := make([]PresenceLogResponse, 0, limit)
	for rows.Next() {
		var log PresenceLogResponse
		if err := rows.Scan(&log.ID, &log.UserID, &log.BeaconID, &log.Timestamp, &log.CreatedAt); err != nil {
			return nil, WrapPresenceError(err, "scan presence log")
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapPresenceError(err, "iterate presence logs")
	}

	return &PresenceLogListResponse{Logs: logs, Total: total, Page: page, Limit: limit}, nil
}

// Delete removes one presence log
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM presence_logs WHERE id = ?`, id)
	if err != nil {
		return WrapPresenceError(err, "delete presence log")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WrapPresenceError(err, "delete presence log")
	}
	if affected == 0 {
		return ErrPresenceLogNotFound
	}
	return nil
}

func buildFilters(req ListPresenceLogsRequest) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if req.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, req.UserID)
	}
	if req.BeaconID != "" {
		clauses = append(clauses, "beacon_id = ?")
		args = append(args, req.BeaconID)
	}
	if req.From != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, *req.From)
	}
	if req.To != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, *req.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
