package notifications

import "time"

// NotifyAbsenceRequest optionally overrides the configured threshold for a
// manually triggered detection run.
// @Description Manual absence detection trigger
type NotifyAbsenceRequest struct {
	ThresholdMinutes *int `json:"threshold_minutes,omitempty" validate:"omitempty,gte=1,lte=1440"`
} // @name NotifyAbsenceRequest

// AbsentDetailResponse is the presence tracking view for one employee
// @Description Current absence state of an employee
type AbsentDetailResponse struct {
	StoreID        string     `json:"store_id"`
	Store          string     `json:"store"`
	Location       string     `json:"location"`
	EmployeeID     string     `json:"employee_id"`
	Employee       string     `json:"employee"`
	ShiftIn        string     `json:"shift_in"`
	ShiftOut       string     `json:"shift_out"`
	LastDetection  *time.Time `json:"last_detection,omitempty"`
	AbsentDuration float64    `json:"absent_duration"`
} // @name AbsentDetailResponse

// pushMessage is the payload sent to the push delivery service.
type pushMessage struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}
