package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	err   error
	calls atomic.Int32
}

func (f *fakeAuth) Authenticate(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

func newTestLoop(t *testing.T, source *fakeSource, dispatcher *fakeDispatcher, auth *fakeAuth) *Loop {
	t.Helper()
	logger, err := observability.NewLogger("error", "json")
	require.NoError(t, err)

	runner := newTestRunner(source, dispatcher, &fakeTokens{})
	runner.now = func() time.Time { return insideWindow }

	return NewLoop(runner, auth, 30, 5*time.Minute, logger, nil, nil)
}

func TestLoop_IntervalMatchesThreshold(t *testing.T) {
	l := newTestLoop(t, &fakeSource{}, &fakeDispatcher{}, &fakeAuth{})
	assert.Equal(t, 30*time.Minute, l.interval)
}

func TestLoop_RunOnce(t *testing.T) {
	source := &fakeSource{candidates: []AbsenceCandidate{
		{EmployeeID: "EMP-1", PushToken: "t1", ElapsedMinutes: 40},
	}}
	dispatcher := &fakeDispatcher{}
	l := newTestLoop(t, source, dispatcher, &fakeAuth{})

	first := l.RunOnce(context.Background())
	second := l.RunOnce(context.Background())

	// Consecutive manual runs behave identically
	assert.Equal(t, first.Success, second.Success)
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.TotalEmployees, second.TotalEmployees)
	assert.Equal(t, int32(2), source.calls.Load())
	assert.Equal(t, []string{"EMP-1", "EMP-1"}, dispatcher.calls)
}

func TestLoop_RunOnceWhileBusy(t *testing.T) {
	l := newTestLoop(t, &fakeSource{}, &fakeDispatcher{}, &fakeAuth{})

	// Simulate an in-flight cycle
	require.True(t, l.inFlight.CompareAndSwap(false, true))
	defer l.inFlight.Store(false)

	summary := l.RunOnce(context.Background())
	assert.False(t, summary.Success)
	assert.Equal(t, "A cycle is already in progress", summary.Message)
}

func TestLoop_RunAndStop(t *testing.T) {
	source := &fakeSource{}
	auth := &fakeAuth{}
	l := newTestLoop(t, source, &fakeDispatcher{}, auth)
	l.interval = 10 * time.Millisecond
	l.grace = time.Minute

	go l.Run(context.Background())

	// Wait for at least two ticks to fire
	assert.Eventually(t, func() bool {
		return source.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	l.Stop()
	callsAtStop := source.calls.Load()

	// No further cycles after Stop has returned
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, callsAtStop, source.calls.Load())

	// The eager startup login happened exactly once
	assert.Equal(t, int32(1), auth.calls.Load())
}

func TestLoop_StopIsIdempotent(t *testing.T) {
	l := newTestLoop(t, &fakeSource{}, &fakeDispatcher{}, &fakeAuth{})

	go l.Run(context.Background())
	l.Stop()
	l.Stop()
}

func TestLoop_ContextCancelStops(t *testing.T) {
	l := newTestLoop(t, &fakeSource{}, &fakeDispatcher{}, &fakeAuth{})
	l.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on context cancellation")
	}
}

func TestLoop_InitialAuthFailureIsNotFatal(t *testing.T) {
	source := &fakeSource{}
	auth := &fakeAuth{err: assert.AnError}
	l := newTestLoop(t, source, &fakeDispatcher{}, auth)
	l.interval = 10 * time.Millisecond

	go l.Run(context.Background())

	// Cycles keep running despite the failed eager login
	assert.Eventually(t, func() bool {
		return source.calls.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	l.Stop()
}
