package milestone

import "time"

// SetNow replaces the service clock and returns a func restoring it.
func SetNow(now func() time.Time) (restore func()) {
	nowFunc = now
	return func() { nowFunc = time.Now }
}
