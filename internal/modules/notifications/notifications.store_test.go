package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeTZ = time.FixedZone("UTC+07:00", 7*60*60)

// Monday 2025-06-02 10:00 store time.
var storeNow = time.Date(2025, 6, 2, 10, 0, 0, 0, storeTZ)

func setupStoreTest(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	store := NewStore(db, storeTZ)
	store.now = func() time.Time { return storeNow }

	return store, mock, func() { db.Close() }
}

func candidateColumns() []string {
	return []string{"employee_id", "push_token", "shift_start", "last_detection"}
}

func TestStore_FindAbsentEmployees_ShiftBaseline(t *testing.T) {
	store, mock, cleanup := setupStoreTest(t)
	defer cleanup()

	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, storeTZ)

	// No detection today, shift started at 09:00, so 60 minutes elapsed.
	rows := sqlmock.NewRows(candidateColumns()).
		AddRow("EMP-1", "tok-1", "09:00:00", nil)
	mock.ExpectQuery("SELECT e.employee_id").WithArgs(dayStart).WillReturnRows(rows)

	candidates, err := store.FindAbsentEmployees(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "EMP-1", candidates[0].EmployeeID)
	assert.Equal(t, "tok-1", candidates[0].PushToken)
	assert.InDelta(t, 60.0, candidates[0].ElapsedMinutes, 0.01)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindAbsentEmployees_LastDetectionBaseline(t *testing.T) {
	store, mock, cleanup := setupStoreTest(t)
	defer cleanup()

	// Detected 45 minutes ago, so the shift start no longer matters.
	lastSeen := storeNow.Add(-45 * time.Minute)
	rows := sqlmock.NewRows(candidateColumns()).
		AddRow("EMP-1", "tok-1", "06:00:00", lastSeen)
	mock.ExpectQuery("SELECT e.employee_id").WillReturnRows(rows)

	candidates, err := store.FindAbsentEmployees(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.InDelta(t, 45.0, candidates[0].ElapsedMinutes, 0.01)
}

func TestStore_FindAbsentEmployees_ThresholdIsInclusive(t *testing.T) {
	store, mock, cleanup := setupStoreTest(t)
	defer cleanup()

	rows := sqlmock.NewRows(candidateColumns()).
		AddRow("EMP-EXACT", "tok-1", "09:00:00", storeNow.Add(-30*time.Minute)).
		AddRow("EMP-RECENT", "tok-2", "09:00:00", storeNow.Add(-29*time.Minute))
	mock.ExpectQuery("SELECT e.employee_id").WillReturnRows(rows)

	candidates, err := store.FindAbsentEmployees(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "EMP-EXACT", candidates[0].EmployeeID)
}

func TestStore_FindAbsentEmployees_KeepsEmptyPushToken(t *testing.T) {
	store, mock, cleanup := setupStoreTest(t)
	defer cleanup()

	rows := sqlmock.NewRows(candidateColumns()).
		AddRow("EMP-1", "", "09:00:00", nil)
	mock.ExpectQuery("SELECT e.employee_id").WillReturnRows(rows)

	candidates, err := store.FindAbsentEmployees(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Empty(t, candidates[0].PushToken)
}

func TestStore_FindAbsentEmployees_QueryError(t *testing.T) {
	store, mock, cleanup := setupStoreTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT e.employee_id").WillReturnError(errors.New("connection lost"))

	candidates, err := store.FindAbsentEmployees(context.Background(), 30)
	assert.Error(t, err)
	assert.Nil(t, candidates)
}

func TestStore_AbsentDetail(t *testing.T) {
	store, mock, cleanup := setupStoreTest(t)
	defer cleanup()

	lastSeen := storeNow.Add(-20 * time.Minute)
	rows := sqlmock.NewRows([]string{
		"store_id", "store_name", "location", "employee_id", "employee_name",
		"shift_start", "shift_end", "last_detection",
	}).AddRow("STORE-1", "Central", "Jakarta", "EMP-1", "Ayu", "09:00:00", "18:00:00", lastSeen)
	mock.ExpectQuery("SELECT s.store_id").WillReturnRows(rows)

	detail, err := store.AbsentDetail(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.Equal(t, "Central", detail.Store)
	assert.Equal(t, "09:00:00", detail.ShiftIn)
	require.NotNil(t, detail.LastDetection)
	assert.InDelta(t, 20.0, detail.AbsentDuration, 0.01)
}

func TestStore_AbsentDetail_NotFound(t *testing.T) {
	store, mock, cleanup := setupStoreTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT s.store_id").
		WillReturnRows(sqlmock.NewRows([]string{"store_id"}))

	detail, err := store.AbsentDetail(context.Background(), "EMP-404")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	assert.Nil(t, detail)
}
