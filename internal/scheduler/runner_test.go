package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rhizano/era-beacon-api/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	candidates []AbsenceCandidate
	err        error
	calls      atomic.Int32
}

func (f *fakeSource) FindAbsentEmployees(ctx context.Context, thresholdMinutes int) ([]AbsenceCandidate, error) {
	f.calls.Add(1)
	return f.candidates, f.err
}

type fakeDispatcher struct {
	failFor map[string]int // employee_id -> status code to fail with
	calls   []string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, c AbsenceCandidate) DeliveryOutcome {
	f.calls = append(f.calls, c.EmployeeID)
	if code, ok := f.failFor[c.EmployeeID]; ok {
		return DeliveryOutcome{
			EmployeeID:         c.EmployeeID,
			RequestDescription: fmt.Sprintf("curl -X POST 'https://push.example.com' # %s", c.EmployeeID),
			StatusCode:         code,
			ResponseBody:       "delivery failed",
			Succeeded:          false,
		}
	}
	return DeliveryOutcome{
		EmployeeID:         c.EmployeeID,
		RequestDescription: fmt.Sprintf("curl -X POST 'https://push.example.com' # %s", c.EmployeeID),
		StatusCode:         200,
		ResponseBody:       `{"ok":true}`,
		Succeeded:          true,
	}
}

type fakeTokens struct {
	err   error
	calls int
}

func (f *fakeTokens) EnsureValid(ctx context.Context) error {
	f.calls++
	return f.err
}

func (f *fakeTokens) Token() string { return "tok-test" }

func newTestRunner(source *fakeSource, dispatcher *fakeDispatcher, tokens *fakeTokens) *Runner {
	processor := NewProcessor(source, dispatcher, nil, nil, nil)
	return NewRunner(processor, tokens, 9, 18, nil, nil)
}

// Monday noon, comfortably inside a 9-18 window.
var insideWindow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

// Saturday noon.
var weekendNoon = time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)

func TestRunCycle_WindowClosedSkipsEverything(t *testing.T) {
	source := &fakeSource{}
	dispatcher := &fakeDispatcher{}
	tokens := &fakeTokens{}
	r := newTestRunner(source, dispatcher, tokens)
	r.now = func() time.Time { return weekendNoon }

	summary := r.RunCycle(context.Background(), 30)

	assert.False(t, summary.Success)
	assert.Equal(t, OutcomeWindowSkipped, summary.Outcome)
	assert.Equal(t, "Outside business hours", summary.Message)
	assert.Equal(t, 30, summary.ThresholdMinutes)

	// Neither auth nor query nor dispatch may run on a skip
	assert.Zero(t, tokens.calls)
	assert.Zero(t, source.calls.Load())
	assert.Empty(t, dispatcher.calls)
}

func TestRunCycle_AuthFailureSkipsQuery(t *testing.T) {
	source := &fakeSource{}
	dispatcher := &fakeDispatcher{}
	tokens := &fakeTokens{err: errors.New(errors.ErrCodeUpstreamAuth, "login rejected")}
	r := newTestRunner(source, dispatcher, tokens)
	r.now = func() time.Time { return insideWindow }

	summary := r.RunCycle(context.Background(), 30)

	assert.False(t, summary.Success)
	assert.Equal(t, OutcomeAuthFailed, summary.Outcome)
	assert.Equal(t, "Authentication failed", summary.Message)
	assert.Equal(t, 1, tokens.calls)
	assert.Zero(t, source.calls.Load())
	assert.Empty(t, dispatcher.calls)
}

func TestRunCycle_MixedDispatchResults(t *testing.T) {
	source := &fakeSource{candidates: []AbsenceCandidate{
		{EmployeeID: "EMP-1", PushToken: "t1", ElapsedMinutes: 45},
		{EmployeeID: "EMP-2", PushToken: "t2", ElapsedMinutes: 60},
		{EmployeeID: "EMP-3", PushToken: "t3", ElapsedMinutes: 90},
	}}
	dispatcher := &fakeDispatcher{failFor: map[string]int{"EMP-2": 500}}
	tokens := &fakeTokens{}
	r := newTestRunner(source, dispatcher, tokens)
	r.now = func() time.Time { return insideWindow }

	summary := r.RunCycle(context.Background(), 30)

	assert.True(t, summary.Success)
	assert.Equal(t, OutcomeCompleted, summary.Outcome)
	assert.Equal(t, 3, summary.TotalEmployees)
	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 1, summary.Failed)

	// Sequential dispatch in source order
	assert.Equal(t, []string{"EMP-1", "EMP-2", "EMP-3"}, dispatcher.calls)

	require.Len(t, summary.Details, 3)
	assert.Equal(t, "EMP-1", summary.Details[0].EmployeeID)
	assert.Equal(t, 200, summary.Details[0].StatusCode)
	assert.Equal(t, "EMP-2", summary.Details[1].EmployeeID)
	assert.Equal(t, 500, summary.Details[1].StatusCode)
	assert.False(t, summary.Details[1].Succeeded)
}

func TestRunCycle_EmptyPushTokenStillDispatched(t *testing.T) {
	source := &fakeSource{candidates: []AbsenceCandidate{
		{EmployeeID: "EMP-1", PushToken: "", ElapsedMinutes: 45},
	}}
	dispatcher := &fakeDispatcher{}
	r := newTestRunner(source, dispatcher, &fakeTokens{})
	r.now = func() time.Time { return insideWindow }

	summary := r.RunCycle(context.Background(), 30)

	assert.Equal(t, []string{"EMP-1"}, dispatcher.calls)
	assert.Equal(t, 1, summary.TotalEmployees)
}

func TestRunCycle_NoCandidates(t *testing.T) {
	source := &fakeSource{}
	dispatcher := &fakeDispatcher{}
	r := newTestRunner(source, dispatcher, &fakeTokens{})
	r.now = func() time.Time { return insideWindow }

	summary := r.RunCycle(context.Background(), 30)

	assert.True(t, summary.Success)
	assert.Equal(t, OutcomeNoCandidates, summary.Outcome)
	assert.Zero(t, summary.TotalEmployees)
	assert.Empty(t, dispatcher.calls)
}

func TestRunCycle_QueryFailure(t *testing.T) {
	source := &fakeSource{err: errors.New(errors.ErrCodeDatabaseError, "connection lost")}
	dispatcher := &fakeDispatcher{}
	r := newTestRunner(source, dispatcher, &fakeTokens{})
	r.now = func() time.Time { return insideWindow }

	summary := r.RunCycle(context.Background(), 30)

	assert.False(t, summary.Success)
	assert.Equal(t, OutcomeQueryFailed, summary.Outcome)
	assert.Empty(t, dispatcher.calls)
}

func TestProcess_RunsWithoutWindowOrAuthGate(t *testing.T) {
	// The manual trigger path bypasses both gates: a weekend process call
	// still queries and dispatches.
	source := &fakeSource{candidates: []AbsenceCandidate{
		{EmployeeID: "EMP-9", PushToken: "t9", ElapsedMinutes: 31},
	}}
	dispatcher := &fakeDispatcher{}
	processor := NewProcessor(source, dispatcher, nil, nil, nil)

	summary := processor.Process(context.Background(), 30)

	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, []string{"EMP-9"}, dispatcher.calls)
}
