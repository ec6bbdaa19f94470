package agg

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/core/derive"
	"github.com/huangsam/gitpulse/core/extract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // Monday

// commit builds a record authored by email at day0 plus the given number of days.
func commit(hash, email string, days, added, deleted int) schema.CommitRecord {
	return schema.CommitRecord{
		Hash:        hash,
		AuthorEmail: email,
		Timestamp:   day0.AddDate(0, 0, days),
		Added:       added,
		Deleted:     deleted,
		Files:       1,
	}
}

func derived(records ...schema.CommitRecord) []schema.DerivedCommit {
	return derive.DeriveFields(records, schema.DefaultMetricsConfig())
}

func threeCommits() []schema.DerivedCommit {
	return derived(
		commit("c1", "a@x.com", 0, 10, 3),
		commit("c2", "A@X.com", 1, 1, 1),
		commit("c3", "b@y.com", 2, 300, 0),
	)
}

func TestLeaderboardThreeCommits(t *testing.T) {
	rows := Leaderboard(threeCommits(), schema.DefaultMetricsConfig())
	require.Len(t, rows, 2)

	byKey := map[string]schema.LeaderboardRow{}
	for _, r := range rows {
		byKey[r.AuthorKey] = r
	}

	a := byKey["email:a@x.com"]
	assert.Equal(t, "a@x.com", a.Author)
	assert.Equal(t, 2, a.Commits)
	assert.Equal(t, 15, a.Churn)
	assert.Equal(t, 7, a.Net)
	assert.Equal(t, 50.0, a.TinyRatio)
	assert.Equal(t, 0.0, a.BigRatio)
	assert.Equal(t, 2, a.ActiveDays)
	assert.InDelta(t, 7.5, a.AvgChurn, 1e-9)
	assert.InDelta(t, 7.5, a.MedianChurn, 1e-9)
	assert.Equal(t, day0, a.FirstCommit)
	assert.Equal(t, day0.AddDate(0, 0, 1), a.LastCommit)

	b := byKey["email:b@y.com"]
	assert.Equal(t, 1, b.Commits)
	assert.Equal(t, 300, b.Churn)
	assert.Equal(t, 100.0, b.BigRatio)
	assert.Equal(t, 0.0, b.TinyRatio)

	expectedA := math.Log1p(15)*0.55 + math.Log1p(2)*0.25 + math.Log1p(2)*0.20 - 0.5*0.40
	assert.InDelta(t, expectedA, a.Score, 1e-9)
	assert.Equal(t, "email:b@y.com", rows[0].AuthorKey)
}

func TestLeaderboardBinaryOnlyCommit(t *testing.T) {
	log := strings.Join([]string{
		"\x1ec1\x1fA\x1fa@x.com\x1f2024-01-01T10:00:00Z\x1fcode",
		"",
		"10\t5\tmain.go",
		"\x1ec2\x1fA\x1fa@x.com\x1f2024-01-02T10:00:00Z\x1fassets",
		"",
		"-\t-\tbinary.png",
		"\x1ec3\x1fB\x1fb@y.com\x1f2024-01-03T10:00:00Z\x1fbulk",
		"",
		"300\t0\tdata.csv",
	}, "\n")
	records := extract.ParseCommitLog([]byte(log))
	require.Len(t, records, 3)

	rows := Leaderboard(derived(records...), schema.DefaultMetricsConfig())
	require.Len(t, rows, 2)

	byKey := map[string]schema.LeaderboardRow{}
	for _, r := range rows {
		byKey[r.AuthorKey] = r
	}

	a := byKey["email:a@x.com"]
	assert.Equal(t, 2, a.Commits)
	assert.Equal(t, 15, a.Churn)
	assert.Equal(t, 5, a.Net)
	assert.Equal(t, 50.0, a.TinyRatio)
	assert.Equal(t, 50.0, a.SmallRatio)
	assert.Equal(t, 0.0, a.BigRatio)

	b := byKey["email:b@y.com"]
	assert.Equal(t, 1, b.Commits)
	assert.Equal(t, 300, b.Churn)
	assert.Equal(t, 100.0, b.BigRatio)
	assert.Equal(t, 0.0, b.SmallRatio)
}

func TestLeaderboardCommitCountMatchesInput(t *testing.T) {
	commits := derived(
		commit("1", "a@x.com", 0, 1, 0),
		commit("2", "b@y.com", 3, 50, 2),
		commit("3", "c@z.com", 5, 0, 0),
		commit("4", "a@x.com", 9, 8, 8),
		schema.CommitRecord{Hash: "5", AuthorEmail: "d@w.com", Added: 4},
	)

	total := 0
	for _, r := range Leaderboard(commits, schema.DefaultMetricsConfig()) {
		total += r.Commits
	}
	assert.Equal(t, len(commits), total)
}

func TestLeaderboardSortedWithDeterministicTies(t *testing.T) {
	commits := derived(
		commit("1", "zed@x.com", 0, 5, 0),
		commit("2", "amy@x.com", 0, 5, 0),
		commit("3", "mid@x.com", 0, 500, 0),
	)

	rows := Leaderboard(commits, schema.DefaultMetricsConfig())
	require.Len(t, rows, 3)
	assert.Equal(t, "email:mid@x.com", rows[0].AuthorKey)
	assert.Equal(t, "email:amy@x.com", rows[1].AuthorKey)
	assert.Equal(t, "email:zed@x.com", rows[2].AuthorKey)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].Score, rows[i].Score)
	}
}

func TestLeaderboardRecomputesSmallFlag(t *testing.T) {
	commits := derived(commit("1", "a@x.com", 0, 3, 1), commit("2", "a@x.com", 1, 40, 0))
	assert.Equal(t, 0.0, Leaderboard(commits, schema.DefaultMetricsConfig())[0].SmallRatio)

	cfg := schema.DefaultMetricsConfig().WithSmallThreshold(5)
	assert.Equal(t, 50.0, Leaderboard(commits, cfg)[0].SmallRatio)
}

func TestLeaderboardUndatedCommits(t *testing.T) {
	commits := derived(schema.CommitRecord{Hash: "u", AuthorEmail: "a@x.com", Added: 3})
	rows := Leaderboard(commits, schema.DefaultMetricsConfig())
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Commits)
	assert.Zero(t, rows[0].ActiveDays)
	assert.True(t, rows[0].FirstCommit.IsZero())
}

func TestAggregationsOnEmptyInput(t *testing.T) {
	cfg := schema.DefaultMetricsConfig()
	assert.Empty(t, Leaderboard(nil, cfg))
	assert.Empty(t, WeeklySeries(nil, schema.MetricCommits))
	assert.Empty(t, CalendarHeatmap(nil, "email:a@x.com", schema.MetricCommits))
	assert.Equal(t, schema.Summary{}, Summarize(nil))
	assert.Empty(t, FilterRecords(nil, schema.RecordFilter{Months: 2}))

	grid := HeatmapGrid(nil)
	assert.Zero(t, grid.Weeks)
	for _, row := range grid.Values {
		assert.NotNil(t, row)
		assert.Empty(t, row)
	}
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 33.3, percent(1, 3))
	assert.Equal(t, 66.7, percent(2, 3))
	assert.Equal(t, 0.0, percent(0, 0))
}

func TestModalLabel(t *testing.T) {
	assert.Equal(t, "", ModalLabel(nil))
	assert.Equal(t, "b", ModalLabel([]string{"a", "b", "b", "a", "b"}))
	assert.Equal(t, "a", ModalLabel([]string{"a", "b", "b", "a"}))
}
