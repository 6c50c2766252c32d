package forecasting

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the spacing between forecast dates.
type Frequency string

const (
	Daily   Frequency = "D"
	Weekly  Frequency = "W"
	Monthly Frequency = "M"
	Yearly  Frequency = "Y"
)

// ParseFrequency accepts a short code (D, W, M, Y) or its name, case-insensitive.
// The empty string means Daily.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "d", "day", "daily":
		return Daily, nil
	case "w", "week", "weekly":
		return Weekly, nil
	case "m", "month", "monthly":
		return Monthly, nil
	case "y", "year", "yearly", "annual":
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}

// Add returns t moved forward by n units. Calendar units clamp the day to the
// end of the target month (Jan 31 + 1 month = Feb 28/29) and are always
// computed from t, so repeated steps never drift.
func (f Frequency) Add(t time.Time, n int) time.Time {
	switch f {
	case Weekly:
		return t.AddDate(0, 0, 7*n)
	case Monthly:
		return addMonths(t, n)
	case Yearly:
		return addMonths(t, 12*n)
	default:
		return t.AddDate(0, 0, n)
	}
}

func (f Frequency) String() string {
	switch f {
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "daily"
	}
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).AddDate(0, n, 0)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
