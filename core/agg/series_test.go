package agg

import (
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklySeries(t *testing.T) {
	commits := derived(
		commit("1", "b@y.com", 0, 5, 1),
		commit("2", "a@x.com", 2, 3, 0),
		commit("3", "a@x.com", 4, 7, 2),
		commit("4", "a@x.com", 8, 1, 0),
		schema.CommitRecord{Hash: "u", AuthorEmail: "a@x.com", Added: 99},
	)

	points := WeeklySeries(commits, schema.MetricCommits)
	require.Len(t, points, 3)

	week1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)
	assert.Equal(t, schema.WeeklyPoint{WeekStart: week1, AuthorKey: "email:a@x.com", AuthorLabel: "a@x.com", Value: 2}, points[0])
	assert.Equal(t, schema.WeeklyPoint{WeekStart: week1, AuthorKey: "email:b@y.com", AuthorLabel: "b@y.com", Value: 1}, points[1])
	assert.Equal(t, schema.WeeklyPoint{WeekStart: week2, AuthorKey: "email:a@x.com", AuthorLabel: "a@x.com", Value: 1}, points[2])

	churn := WeeklySeries(commits, schema.MetricChurn)
	assert.Equal(t, 12, churn[0].Value)

	net := WeeklySeries(commits, schema.MetricNet)
	assert.Equal(t, 8, net[0].Value)
}

func TestCalendarHeatmap(t *testing.T) {
	commits := derived(
		commit("1", "a@x.com", 0, 1, 0),  // Mon week 0
		commit("2", "a@x.com", 0, 2, 0),  // same day
		commit("3", "a@x.com", 6, 4, 0),  // Sun week 0
		commit("4", "a@x.com", 15, 8, 0), // Tue week 2
		commit("5", "b@y.com", 1, 9, 0),
	)

	cells := CalendarHeatmap(commits, "email:a@x.com", schema.MetricChurn)
	require.Len(t, cells, 3)

	assert.Equal(t, 0, cells[0].WeekIndex)
	assert.Equal(t, 0, cells[0].Weekday)
	assert.Equal(t, 3, cells[0].Value)

	assert.Equal(t, 6, cells[1].Weekday)
	assert.Equal(t, 0, cells[1].WeekIndex)

	assert.Equal(t, 1, cells[2].Weekday)
	assert.Equal(t, 2, cells[2].WeekIndex)
	assert.Equal(t, 8, cells[2].Value)

	for i := 1; i < len(cells); i++ {
		assert.GreaterOrEqual(t, cells[i].WeekIndex, cells[i-1].WeekIndex)
		assert.True(t, cells[i].Day.After(cells[i-1].Day))
	}

	commitsMode := CalendarHeatmap(commits, "email:a@x.com", schema.MetricCommits)
	assert.Equal(t, 2, commitsMode[0].Value)
}

func TestCalendarHeatmapStartsMidWeek(t *testing.T) {
	commits := derived(commit("1", "a@x.com", 3, 1, 0), commit("2", "a@x.com", 5, 1, 0))
	cells := CalendarHeatmap(commits, "email:a@x.com", schema.MetricCommits)
	require.Len(t, cells, 2)
	assert.Equal(t, 0, cells[0].WeekIndex)
	assert.Equal(t, 0, cells[1].WeekIndex)
	assert.Equal(t, 3, cells[0].Weekday)
}

func TestCalendarHeatmapUnknownAuthor(t *testing.T) {
	assert.Empty(t, CalendarHeatmap(threeCommits(), "email:nobody@x.com", schema.MetricCommits))
}

func TestHeatmapGrid(t *testing.T) {
	commits := derived(
		commit("1", "a@x.com", 0, 1, 0),
		commit("2", "a@x.com", 6, 4, 0),
		commit("3", "a@x.com", 15, 8, 0),
	)
	grid := HeatmapGrid(CalendarHeatmap(commits, "email:a@x.com", schema.MetricChurn))

	assert.Equal(t, 3, grid.Weeks)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), grid.Origin)
	assert.Equal(t, 8, grid.Max)
	assert.Equal(t, []int{1, 0, 0}, grid.Values[0])
	assert.Equal(t, []int{0, 0, 8}, grid.Values[1])
	assert.Equal(t, []int{4, 0, 0}, grid.Values[6])
}

func TestHeatmapGridAddsCollisions(t *testing.T) {
	cells := []schema.HeatmapCell{
		{Day: day0, Weekday: 2, WeekIndex: 0, Value: 3},
		{Day: day0, Weekday: 2, WeekIndex: 0, Value: 4},
		{Day: day0, Weekday: -1, WeekIndex: 0, Value: 100},
	}
	grid := HeatmapGrid(cells)
	assert.Equal(t, 7, grid.Values[2][0])
	assert.Equal(t, 7, grid.Max)
}
