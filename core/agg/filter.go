package agg

import (
	"slices"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/derive"
	"github.com/huangsam/gitpulse/schema"
)

// FilterRecords applies author, date and zero-file filters.
// Date bounds compare calendar days in UTC and drop undated commits;
// Months counts back from the newest commit's day, clamped to the oldest.
func FilterRecords(commits []schema.DerivedCommit, f schema.RecordFilter) []schema.DerivedCommit {
	start, end := dayBounds(commits, f)
	datesActive := !start.IsZero() || !end.IsZero()

	keys := map[string]struct{}{}
	for _, a := range f.Authors {
		if key, ok := ResolveAuthor(commits, a); ok {
			keys[key] = struct{}{}
		}
	}

	out := []schema.DerivedCommit{}
	for _, c := range commits {
		if len(f.Authors) > 0 {
			if _, ok := keys[c.AuthorKey]; !ok {
				continue
			}
		}
		if datesActive {
			if !c.HasTimestamp() {
				continue
			}
			if !start.IsZero() && c.Day.Before(start) {
				continue
			}
			if !end.IsZero() && c.Day.After(end) {
				continue
			}
		}
		if f.HideZeroFiles && c.Files == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// dayBounds resolves the filter into inclusive UTC day bounds.
func dayBounds(commits []schema.DerivedCommit, f schema.RecordFilter) (time.Time, time.Time) {
	if f.Months <= 0 {
		var start, end time.Time
		if !f.Start.IsZero() {
			start = derive.DayStart(f.Start)
		}
		if !f.End.IsZero() {
			end = derive.DayStart(f.End)
		}
		return start, end
	}

	var oldest, newest time.Time
	for _, c := range commits {
		if !c.HasTimestamp() {
			continue
		}
		if oldest.IsZero() || c.Day.Before(oldest) {
			oldest = c.Day
		}
		if c.Day.After(newest) {
			newest = c.Day
		}
	}
	if newest.IsZero() {
		return time.Time{}, time.Time{}
	}
	start := monthsBefore(newest, f.Months)
	if start.Before(oldest) {
		start = oldest
	}
	return start, newest
}

// monthsBefore steps back n calendar months, clamping the day to the
// target month's length so Mar 31 minus one month is Feb 29, not Mar 2.
func monthsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, last), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ResolveAuthor maps an author key, label or raw email to the matching author key.
func ResolveAuthor(commits []schema.DerivedCommit, author string) (string, bool) {
	needle := strings.TrimSpace(author)
	if needle == "" {
		return "", false
	}
	candidates := []string{needle, derive.AuthorKey(needle)}
	for _, c := range commits {
		if slices.Contains(candidates, c.AuthorKey) || strings.EqualFold(c.AuthorLabel, needle) {
			return c.AuthorKey, true
		}
	}
	return "", false
}

// NewestFirst returns a copy ordered by timestamp descending, undated commits last.
func NewestFirst(commits []schema.DerivedCommit) []schema.DerivedCommit {
	out := slices.Clone(commits)
	slices.SortStableFunc(out, func(a, b schema.DerivedCommit) int {
		switch {
		case !a.HasTimestamp() && !b.HasTimestamp():
			return 0
		case !a.HasTimestamp():
			return 1
		case !b.HasTimestamp():
			return -1
		default:
			return b.Timestamp.Compare(a.Timestamp)
		}
	})
	return out
}

// Summarize computes headline KPIs for a selection of commits.
func Summarize(commits []schema.DerivedCommit) schema.Summary {
	var s schema.Summary
	authors := map[string]struct{}{}
	for _, c := range commits {
		s.Commits++
		s.Churn += c.Churn()
		s.Net += c.Net()
		authors[c.AuthorKey] = struct{}{}
		if !c.HasTimestamp() {
			continue
		}
		if s.FirstCommit.IsZero() || c.Timestamp.Before(s.FirstCommit) {
			s.FirstCommit = c.Timestamp
		}
		if c.Timestamp.After(s.LastCommit) {
			s.LastCommit = c.Timestamp
		}
	}
	s.Authors = len(authors)
	if s.Commits > 0 {
		s.AvgChurn = float64(s.Churn) / float64(s.Commits)
	}
	return s
}
