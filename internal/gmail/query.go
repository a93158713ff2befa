package gmail

import (
	"fmt"
	"time"
)

// queryDateLayout is the date format Gmail search accepts for after/before.
const queryDateLayout = "2006/01/02"

// DayWindowQuery builds a Gmail search query covering whole past days.
// With windowDays=1 the query selects yesterday's messages: after is
// midnight UTC windowDays ago and before is midnight UTC today, both
// exclusive of today's mail.
func DayWindowQuery(now time.Time, windowDays int) string {
	if windowDays < 1 {
		windowDays = 1
	}

	today := now.UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -windowDays)

	return fmt.Sprintf("after:%s before:%s",
		start.Format(queryDateLayout),
		today.Format(queryDateLayout),
	)
}
