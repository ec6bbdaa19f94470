// Package derive maps commit records to their calendar buckets, substance flags
// and normalized author identity.
package derive

import (
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// authorKeyPrefix namespaces keys derived from email addresses.
const authorKeyPrefix = "email:"

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthorKey is the stable identity used to group commits by author.
func AuthorKey(email string) string {
	return authorKeyPrefix + NormalizeEmail(email)
}

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Weekday returns 0 for Monday through 6 for Sunday, in UTC.
func Weekday(t time.Time) int {
	return (int(t.UTC().Weekday()) + 6) % 7
}

// WeekStart returns the Monday midnight UTC of t's week.
func WeekStart(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, -Weekday(t))
}

// MonthStart returns the first day of t's month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Derive computes the derived view of one commit.
func Derive(c schema.CommitRecord, cfg schema.MetricsConfig) schema.DerivedCommit {
	d := schema.DerivedCommit{
		CommitRecord: c,
		Weekday:      -1,
		AuthorKey:    AuthorKey(c.AuthorEmail),
		AuthorLabel:  NormalizeEmail(c.AuthorEmail),
	}
	if c.HasTimestamp() {
		d.Day = DayStart(c.Timestamp)
		d.WeekStart = WeekStart(c.Timestamp)
		d.MonthStart = MonthStart(c.Timestamp)
		d.Weekday = Weekday(c.Timestamp)
	}
	return Reclassify(d, cfg.Thresholds)
}

// DeriveFields derives every record, preserving order. Re-deriving the embedded
// records of the result yields the same values.
func DeriveFields(records []schema.CommitRecord, cfg schema.MetricsConfig) []schema.DerivedCommit {
	out := make([]schema.DerivedCommit, len(records))
	for i, c := range records {
		out[i] = Derive(c, cfg)
	}
	return out
}

// Reclassify recomputes the substance flags from churn.
func Reclassify(d schema.DerivedCommit, th schema.Thresholds) schema.DerivedCommit {
	churn := d.Churn()
	d.IsSmall = churn <= th.Small
	d.IsTiny = churn <= th.Tiny
	d.IsBig = churn >= th.Big
	return d
}

// Records strips derived fields, returning the underlying commit records.
func Records(derived []schema.DerivedCommit) []schema.CommitRecord {
	out := make([]schema.CommitRecord, len(derived))
	for i, d := range derived {
		out[i] = d.CommitRecord
	}
	return out
}
