package presence

import "time"

// CreatePresenceLogRequest records one beacon detection event
// @Description New presence detection event
type CreatePresenceLogRequest struct {
	UserID    string     `json:"user_id" validate:"required,max=64"`
	BeaconID  string     `json:"beacon_id" validate:"required,max=100"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
} // @name CreatePresenceLogRequest

// ListPresenceLogsRequest filters the presence log listing
// @Description Presence log filters
type ListPresenceLogsRequest struct {
	UserID   string     `form:"user_id" validate:"omitempty,max=64"`
	BeaconID string     `form:"beacon_id" validate:"omitempty,max=100"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page     int        `form:"page" validate:"omitempty,gte=1"`
	Limit    int        `form:"limit" validate:"omitempty,gte=1,lte=200"`
} // @name ListPresenceLogsRequest

// PresenceLogResponse is one recorded detection
// @Description Recorded presence detection
type PresenceLogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BeaconID  string    `json:"beacon_id"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
} // @name PresenceLogResponse

// PresenceLogListResponse is a paginated page of detections
// @Description Paginated presence logs
type PresenceLogListResponse struct {
	Logs  []PresenceLogResponse `json:"logs"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
} // @name PresenceLogListResponse
