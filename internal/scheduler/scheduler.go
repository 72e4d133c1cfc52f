// Package scheduler implements the absence detection core: a time-window
// policy, an upstream auth session, and a cycle runner that queries absent
// employees and pushes notifications for them.
package scheduler

import (
	"context"
	"time"
)

// CycleOutcome classifies how a detection cycle ended.
type CycleOutcome string

const (
	OutcomeCompleted     CycleOutcome = "completed"
	OutcomeNoCandidates  CycleOutcome = "no_candidates"
	OutcomeWindowSkipped CycleOutcome = "window_skipped"
	OutcomeAuthFailed    CycleOutcome = "auth_failed"
	OutcomeQueryFailed   CycleOutcome = "query_failed"
)

// AbsenceCandidate is one employee whose last detected presence is older
// than the configured threshold. PushToken may be empty; the dispatcher is
// still invoked so the failure shows up in the cycle detail.
type AbsenceCandidate struct {
	EmployeeID     string
	PushToken      string
	ElapsedMinutes float64
}

// DeliveryOutcome records a single push attempt. StatusCode 0 means the
// request never reached the push service.
type DeliveryOutcome struct {
	EmployeeID         string `json:"employee_id"`
	RequestDescription string `json:"request_curl"`
	StatusCode         int    `json:"response_code"`
	ResponseBody       string `json:"response_message"`
	Succeeded          bool   `json:"-"`
}

// CycleSummary aggregates one detection cycle. It is both the manual
// trigger's HTTP response body and the loop's log record.
type CycleSummary struct {
	Success          bool              `json:"success"`
	ThresholdMinutes int               `json:"threshold_minutes"`
	Message          string            `json:"message"`
	TotalEmployees   int               `json:"total_employees"`
	Sent             int               `json:"notifications_sent"`
	Failed           int               `json:"notifications_failed"`
	Details          []DeliveryOutcome `json:"notifications_detail"`
	Outcome          CycleOutcome      `json:"-"`
}

// AbsenceSource yields the employees considered absent at query time.
type AbsenceSource interface {
	FindAbsentEmployees(ctx context.Context, thresholdMinutes int) ([]AbsenceCandidate, error)
}

// Dispatcher delivers one absence notification. Implementations never
// return an error; every attempt produces a DeliveryOutcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, candidate AbsenceCandidate) DeliveryOutcome
}

// TokenSource guards cycles behind a valid upstream session.
type TokenSource interface {
	EnsureValid(ctx context.Context) error
	Token() string
}

// AuthSession is a bearer token with its absolute expiry.
type AuthSession struct {
	AccessToken string
	ExpiresAt   time.Time
}
