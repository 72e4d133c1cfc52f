package notifications

import (
	"context"
	"database/sql"
	"time"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/database"
	"github.com/rhizano/era-beacon-api/internal/scheduler"
)

const shiftTimeLayout = "15:04:05"

const absentCandidatesQuery = `
SELECT e.employee_id,
       COALESCE(e.push_token, '') AS push_token,
       TIME_FORMAT(e.shift_start, '%H:%i:%s') AS shift_start,
       MAX(p.timestamp) AS last_detection
FROM employees e
LEFT JOIN presence_logs p
       ON p.user_id = e.employee_id
      AND p.timestamp >= ?
WHERE e.is_active = 1
GROUP BY e.employee_id, e.push_token, e.shift_start`

const absentDetailQuery = `
SELECT s.store_id,
       s.name AS store_name,
       s.location,
       e.employee_id,
       e.name AS employee_name,
       TIME_FORMAT(e.shift_start, '%H:%i:%s') AS shift_start,
       TIME_FORMAT(e.shift_end, '%H:%i:%s') AS shift_end,
       MAX(p.timestamp) AS last_detection
FROM employees e
JOIN stores s ON s.store_id = e.store_id
LEFT JOIN presence_logs p
       ON p.user_id = e.employee_id
      AND p.timestamp >= ?
WHERE e.employee_id = ?
GROUP BY s.store_id, s.name, s.location, e.employee_id, e.name, e.shift_start, e.shift_end`

// Store reads employee presence state. All shift and detection times are
// interpreted in the fixed store timezone, regardless of server locale.
type Store struct {
	db  database.DBTX
	loc *time.Location
	now func() time.Time
}

// NewStore creates a presence store bound to the given store timezone
func NewStore(db database.DBTX, loc *time.Location) *Store {
	return &Store{db: db, loc: loc, now: time.Now}
}

// FindAbsentEmployees returns every active employee whose time since last
// presence meets or exceeds the threshold. An employee with no detection
// today is measured from today's shift start instead of their last sighting.
func (s *Store) FindAbsentEmployees(ctx context.Context, thresholdMinutes int) ([]scheduler.AbsenceCandidate, error) {
	now := s.now().In(s.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	rows, err := s.db.QueryContext(ctx, absentCandidatesQuery, dayStart)
	if err != nil {
		return nil, WrapNotificationError(err, "find absent employees")
	}
	defer rows.Close()

	var candidates []scheduler.AbsenceCandidate
	for rows.Next() {
		var (
			employeeID    string
			pushToken     string
			shiftStart    string
			lastDetection sql.NullTime
		)
		if err := rows.Scan(&employeeID, &pushToken, &shiftStart, &lastDetection); err != nil {
			return nil, WrapNotificationError(err, "scan absent employee")
		}

		baseline, err := s.baseline(now, shiftStart, lastDetection)
		if err != nil {
			return nil, err
		}
		elapsed := now.Sub(baseline).Minutes()
		if elapsed >= float64(thresholdMinutes) {
			candidates = append(candidates, scheduler.AbsenceCandidate{
				EmployeeID:     employeeID,
				PushToken:      pushToken,
				ElapsedMinutes: elapsed,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, WrapNotificationError(err, "iterate absent employees")
	}
	return candidates, nil
}

// AbsentDetail returns the current presence state for one employee.
func (s *Store) AbsentDetail(ctx context.Context, employeeID string) (*AbsentDetailResponse, error) {
	now := s.now().In(s.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	var (
		detail        AbsentDetailResponse
		lastDetection sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, absentDetailQuery, dayStart, employeeID).Scan(
		&detail.StoreID,
		&detail.Store,
		&detail.Location,
		&detail.EmployeeID,
		&detail.Employee,
		&detail.ShiftIn,
		&detail.ShiftOut,
		&lastDetection,
	)
	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, WrapNotificationError(err, "get absent detail")
	}

	baseline, err := s.baseline(now, detail.ShiftIn, lastDetection)
	if err != nil {
		return nil, err
	}
	if lastDetection.Valid {
		t := lastDetection.Time.In(s.loc)
		detail.LastDetection = &t
	}
	detail.AbsentDuration = now.Sub(baseline).Minutes()
	return &detail, nil
}

// baseline picks the reference instant absence is measured from: the last
// detection today if there is one, otherwise today's shift start.
func (s *Store) baseline(now time.Time, shiftStart string, lastDetection sql.NullTime) (time.Time, error) {
	if lastDetection.Valid {
		return lastDetection.Time.In(s.loc), nil
	}
	shift, err := time.Parse(shiftTimeLayout, shiftStart)
	if err != nil {
		return time.Time{}, WrapNotificationError(err, "parse shift start")
	}
	return time.Date(now.Year(), now.Month(), now.Day(), shift.Hour(), shift.Minute(), shift.Second(), 0, s.loc), nil
}
