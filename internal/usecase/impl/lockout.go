package impl

import "time"

// lockoutPolicy is the brute-force throttle: once the failed-password counter
// reaches maxAttempts, the account stays locked while attempts keep landing
// inside the window. Both checks judge the counter state the attempt arrived
// to, never the increment the attempt itself persisted.
type lockoutPolicy struct {
	maxAttempts int
	window      time.Duration
}

// tripped reports whether the counter has reached the lockout threshold.
func (p lockoutPolicy) tripped(attempts int) bool {
	return attempts >= p.maxAttempts
}

// windowOpen reports whether the lockout window is still in effect, measured
// from the counter row's last save. Each locked-out attempt re-saves the
// counter, which pushes the window forward; the account only unlocks after a
// full quiet window.
func (p lockoutPolicy) windowOpen(lastSave, now time.Time) bool {
	return now.Before(lastSave.Add(p.window))
}
