package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the calendar-day layout accepted for start and end bounds.
const DateFormat = time.DateOnly

// relative offsets like "2 weeks ago" and plain spans like "2 weeks".
var (
	relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)
	durationSpanRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)
)

// ParseRelativeTime converts strings like "3 months ago" into a time before now.
// Years and months use calendar arithmetic.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	m := relativeTimeRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}
	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "year":
		return now.AddDate(-n, 0, 0), nil
	case "month":
		return now.AddDate(0, -n, 0), nil
	default:
		return now.Add(-time.Duration(n) * unitDuration(m[2])), nil
	}
}

// ParseLookbackDuration accepts Go durations ("90s", "5m") or spans like "2 days".
// Months count as 30 days and years as 365.
func ParseLookbackDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, errors.New("duration must be positive")
		}
		return d, nil
	}

	m := durationSpanRe.FindStringSubmatch(strings.Join(strings.Fields(strings.ToLower(s)), " "))
	if m == nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}
	n, _ := strconv.Atoi(m[1])
	d := time.Duration(n) * unitDuration(m[2])
	if d == 0 {
		return 0, errors.New("duration must be positive")
	}
	return d, nil
}

func unitDuration(unit string) time.Duration {
	const day = 24 * time.Hour
	switch unit {
	case "year":
		return 365 * day
	case "month":
		return 30 * day
	case "week":
		return 7 * day
	case "day":
		return day
	case "hour":
		return time.Hour
	default:
		return time.Minute
	}
}

// ParseTimeBound reads an RFC3339 timestamp, a YYYY-MM-DD day, or an "N units ago" offset.
// An empty string yields the zero time.
func ParseTimeBound(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. Expected ISO8601, YYYY-MM-DD or 'N [units] ago'", s)
	}
	return t, nil
}
