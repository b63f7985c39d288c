package activity

import "time"

func fixedNowActivity() time.Time {
	return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
}
