package agg

import (
	"cmp"
	"slices"
	"time"

	"github.com/huangsam/gitpulse/core/derive"
	"github.com/huangsam/gitpulse/schema"
)

type weekKey struct {
	week   time.Time
	author string
}

// WeeklySeries sums the metric per (week, author), sorted by week then author key.
// Commits without a timestamp are left out.
func WeeklySeries(commits []schema.DerivedCommit, metric schema.Metric) []schema.WeeklyPoint {
	labels := authorLabels(commits)
	sums := map[weekKey]int{}
	var order []weekKey
	for _, c := range commits {
		if !c.HasTimestamp() {
			continue
		}
		k := weekKey{week: c.WeekStart, author: c.AuthorKey}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += metric.Value(c)
	}

	points := make([]schema.WeeklyPoint, 0, len(order))
	for _, k := range order {
		points = append(points, schema.WeeklyPoint{
			WeekStart:   k.week,
			AuthorKey:   k.author,
			AuthorLabel: labels[k.author],
			Value:       sums[k],
		})
	}
	slices.SortFunc(points, func(a, b schema.WeeklyPoint) int {
		if c := a.WeekStart.Compare(b.WeekStart); c != 0 {
			return c
		}
		return cmp.Compare(a.AuthorKey, b.AuthorKey)
	})
	return points
}

// CalendarHeatmap sums the metric per calendar day for one author.
// Cells are ordered by day; WeekIndex counts weeks since the earliest cell's week.
func CalendarHeatmap(commits []schema.DerivedCommit, authorKey string, metric schema.Metric) []schema.HeatmapCell {
	sums := map[time.Time]int{}
	for _, c := range commits {
		if c.AuthorKey != authorKey || !c.HasTimestamp() {
			continue
		}
		sums[c.Day] += metric.Value(c)
	}
	if len(sums) == 0 {
		return []schema.HeatmapCell{}
	}

	days := make([]time.Time, 0, len(sums))
	for d := range sums {
		days = append(days, d)
	}
	slices.SortFunc(days, time.Time.Compare)

	origin := derive.WeekStart(days[0])
	cells := make([]schema.HeatmapCell, len(days))
	for i, d := range days {
		cells[i] = schema.HeatmapCell{
			Day:       d,
			Weekday:   derive.Weekday(d),
			WeekIndex: int(derive.WeekStart(d).Sub(origin).Hours()/24) / 7,
			Value:     sums[d],
		}
	}
	return cells
}

// HeatmapGrid lays cells onto a 7xW matrix indexed [weekday][week].
// Cells landing on the same slot are added together.
func HeatmapGrid(cells []schema.HeatmapCell) schema.HeatmapGrid {
	var grid schema.HeatmapGrid
	if len(cells) == 0 {
		for i := range grid.Values {
			grid.Values[i] = []int{}
		}
		return grid
	}

	first := cells[0]
	for _, c := range cells {
		grid.Weeks = max(grid.Weeks, c.WeekIndex+1)
		if c.WeekIndex < first.WeekIndex || (c.WeekIndex == first.WeekIndex && c.Day.Before(first.Day)) {
			first = c
		}
	}
	grid.Origin = derive.WeekStart(first.Day).AddDate(0, 0, -7*first.WeekIndex)

	for i := range grid.Values {
		grid.Values[i] = make([]int, grid.Weeks)
	}
	for _, c := range cells {
		if c.Weekday < 0 || c.Weekday > 6 || c.WeekIndex < 0 {
			continue
		}
		grid.Values[c.Weekday][c.WeekIndex] += c.Value
		grid.Max = max(grid.Max, grid.Values[c.Weekday][c.WeekIndex])
	}
	return grid
}
