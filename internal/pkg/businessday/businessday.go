// Package businessday normalizes client-supplied date inputs into day
// boundaries in the business timezone, so that every reconciliation query
// scopes to exactly one business calendar day regardless of the server host's
// local timezone.
package businessday

import (
	"fmt"
	"regexp"
	"time"
)

// The business operates in America/Sao_Paulo, which has a fixed UTC-3 offset
// (no daylight saving since 2019). A fixed zone keeps the engine independent
// of the host's tz database.
var location = time.FixedZone("America/Sao_Paulo", -3*60*60)

var bareDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Location returns the business timezone.
func Location() *time.Location {
	return location
}

// ParseDateInput interprets a client-supplied date string.
//
// A bare YYYY-MM-DD is midnight in the business timezone. An ISO datetime
// without an offset is UTC: the field app sends naive timestamps that are
// contractually UTC, so the missing zone is intentional, not a defect.
// Datetimes carrying an offset or Z are taken as given.
func ParseDateInput(s string) (time.Time, error) {
	if bareDateRegex.MatchString(s) {
		t, err := time.ParseInLocation("2006-01-02", s, location)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		return t, nil
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date input %q", s)
}

// DayRange returns the business-calendar-day boundaries containing t:
// 00:00:00.000 through 23:59:59.999 in the business timezone.
func DayRange(t time.Time) (start, end time.Time) {
	local := t.In(location)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// Today returns the current business-local date at midnight.
func Today() time.Time {
	start, _ := DayRange(time.Now())
	return start
}
