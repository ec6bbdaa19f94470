package agg

import (
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashes(commits []schema.DerivedCommit) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.Hash
	}
	return out
}

func sampleHistory() []schema.DerivedCommit {
	zero := commit("zero", "c@z.com", 40, 0, 0)
	zero.Files = 0
	return derived(
		commit("jan", "a@x.com", 0, 5, 0),   // 2024-01-01
		commit("feb", "b@y.com", 35, 5, 0),  // 2024-02-05
		zero,                                // 2024-02-10
		commit("mar", "a@x.com", 70, 5, 0),  // 2024-03-11
		commit("apr", "b@y.com", 100, 5, 0), // 2024-04-10
		schema.CommitRecord{Hash: "undated", AuthorEmail: "a@x.com", Files: 1},
	)
}

func TestFilterRecordsNoFilter(t *testing.T) {
	assert.Len(t, FilterRecords(sampleHistory(), schema.RecordFilter{}), 6)
}

func TestFilterRecordsAuthors(t *testing.T) {
	got := FilterRecords(sampleHistory(), schema.RecordFilter{Authors: []string{"A@X.com"}})
	assert.Equal(t, []string{"jan", "mar", "undated"}, hashes(got))

	got = FilterRecords(sampleHistory(), schema.RecordFilter{Authors: []string{"email:b@y.com", "c@z.com"}})
	assert.Equal(t, []string{"feb", "zero", "apr"}, hashes(got))

	assert.Empty(t, FilterRecords(sampleHistory(), schema.RecordFilter{Authors: []string{"ghost@x.com"}}))
}

func TestFilterRecordsDateRangeInclusive(t *testing.T) {
	f := schema.RecordFilter{
		Start: time.Date(2024, 2, 5, 23, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, []string{"feb", "zero", "mar"}, hashes(FilterRecords(sampleHistory(), f)))
}

func TestFilterRecordsOpenEnded(t *testing.T) {
	f := schema.RecordFilter{Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, []string{"mar", "apr"}, hashes(FilterRecords(sampleHistory(), f)))
}

func TestFilterRecordsMonths(t *testing.T) {
	got := FilterRecords(sampleHistory(), schema.RecordFilter{Months: 2})
	assert.Equal(t, []string{"zero", "mar", "apr"}, hashes(got))

	got = FilterRecords(sampleHistory(), schema.RecordFilter{Months: 24})
	assert.Equal(t, []string{"jan", "feb", "zero", "mar", "apr"}, hashes(got))
}

func TestFilterRecordsMonthsClampsMonthEnd(t *testing.T) {
	history := derived(
		commit("jan10", "a@x.com", 9, 1, 0),
		commit("feb29", "a@x.com", 59, 1, 0),
		commit("mar01", "a@x.com", 60, 1, 0),
		commit("mar31", "a@x.com", 90, 1, 0),
	)
	got := FilterRecords(history, schema.RecordFilter{Months: 1})
	assert.Equal(t, []string{"feb29", "mar01", "mar31"}, hashes(got))
}

func TestMonthsBefore(t *testing.T) {
	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 2, time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 13, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, monthsBefore(tt.in, tt.n), tt.in.String())
	}
}

func TestFilterRecordsHideZeroFiles(t *testing.T) {
	got := FilterRecords(sampleHistory(), schema.RecordFilter{HideZeroFiles: true})
	assert.NotContains(t, hashes(got), "zero")
	assert.Len(t, got, 5)
}

func TestResolveAuthor(t *testing.T) {
	history := sampleHistory()
	for _, in := range []string{"email:a@x.com", "a@x.com", " A@x.COM "} {
		key, ok := ResolveAuthor(history, in)
		require.True(t, ok, in)
		assert.Equal(t, "email:a@x.com", key)
	}
	_, ok := ResolveAuthor(history, "")
	assert.False(t, ok)
	_, ok = ResolveAuthor(history, "nobody")
	assert.False(t, ok)
}

func TestNewestFirst(t *testing.T) {
	history := sampleHistory()
	got := NewestFirst(history)
	assert.Equal(t, []string{"apr", "mar", "zero", "feb", "jan", "undated"}, hashes(got))
	assert.Equal(t, "jan", history[0].Hash)
}

func TestSummarize(t *testing.T) {
	s := Summarize(threeCommits())
	assert.Equal(t, 3, s.Commits)
	assert.Equal(t, 2, s.Authors)
	assert.Equal(t, 315, s.Churn)
	assert.Equal(t, 307, s.Net)
	assert.InDelta(t, 105.0, s.AvgChurn, 1e-9)
	assert.Equal(t, day0, s.FirstCommit)
	assert.Equal(t, day0.AddDate(0, 0, 2), s.LastCommit)
}
