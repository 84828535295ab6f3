package plans

import "time"

// DailyGenerationLimit caps AI plan generations per user per UTC day.
const DailyGenerationLimit = 2

// dayBoundsUTC returns the inclusive [00:00:00, 23:59:59] window of now's
// UTC day. Quota counting uses UTC regardless of server locale.
func dayBoundsUTC(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	return start, end
}

// nextResetTime returns the next UTC midnight after now, the moment the
// quota window rolls over.
func nextResetTime(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
