package scheduler

import "time"

// IsActiveWindow reports whether absence detection should run at the given
// instant. Weekends are always inactive. On weekdays the window is
// [startHour, endHour) in the clock's own zone; equal start and end hours
// yield a window that never opens.
func IsActiveWindow(now time.Time, startHour, endHour int) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	h := now.Hour()
	return startHour <= h && h < endHour
}
