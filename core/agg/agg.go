// Package agg has aggregation logic for derived commit data.
package agg

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/huangsam/gitpulse/core/derive"
	"github.com/huangsam/gitpulse/schema"
)

// authorGroup accumulates one author's commits in input order.
type authorGroup struct {
	key     string
	commits []schema.DerivedCommit
}

// groupByAuthor buckets commits by author key, keeping first-seen group order.
func groupByAuthor(commits []schema.DerivedCommit) []*authorGroup {
	index := map[string]*authorGroup{}
	var groups []*authorGroup
	for _, c := range commits {
		g, ok := index[c.AuthorKey]
		if !ok {
			g = &authorGroup{key: c.AuthorKey}
			index[c.AuthorKey] = g
			groups = append(groups, g)
		}
		g.commits = append(g.commits, c)
	}
	return groups
}

// Leaderboard rolls commits up per author and ranks them by score, highest first.
// Ties on score fall back to ascending author key. Substance flags are
// recomputed from the thresholds in cfg.
func Leaderboard(commits []schema.DerivedCommit, cfg schema.MetricsConfig) []schema.LeaderboardRow {
	rows := []schema.LeaderboardRow{}
	for _, g := range groupByAuthor(commits) {
		rows = append(rows, summarizeAuthor(g, cfg))
	}
	slices.SortStableFunc(rows, func(a, b schema.LeaderboardRow) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.AuthorKey, b.AuthorKey)
	})
	return rows
}

func summarizeAuthor(g *authorGroup, cfg schema.MetricsConfig) schema.LeaderboardRow {
	row := schema.LeaderboardRow{AuthorKey: g.key}
	n := len(g.commits)
	churns := make([]float64, 0, n)
	labels := make([]string, 0, n)
	days := map[time.Time]struct{}{}
	var small, tiny, big int

	for _, raw := range g.commits {
		c := derive.Reclassify(raw, cfg.Thresholds)
		row.Commits++
		row.Churn += c.Churn()
		row.Net += c.Net()
		row.Added += c.Added
		row.Deleted += c.Deleted
		row.Files += c.Files
		churns = append(churns, float64(c.Churn()))
		labels = append(labels, c.AuthorLabel)
		if c.IsSmall {
			small++
		}
		if c.IsTiny {
			tiny++
		}
		if c.IsBig {
			big++
		}
		if !c.HasTimestamp() {
			continue
		}
		days[c.Day] = struct{}{}
		if row.FirstCommit.IsZero() || c.Timestamp.Before(row.FirstCommit) {
			row.FirstCommit = c.Timestamp
		}
		if c.Timestamp.After(row.LastCommit) {
			row.LastCommit = c.Timestamp
		}
	}

	row.Author = ModalLabel(labels)
	row.ActiveDays = len(days)
	row.AvgChurn = float64(row.Churn) / float64(n)
	row.MedianChurn = median(churns)
	row.SmallRatio = percent(small, n)
	row.TinyRatio = percent(tiny, n)
	row.BigRatio = percent(big, n)

	w := cfg.Weights
	row.Score = math.Log1p(float64(row.Churn))*w.Churn +
		math.Log1p(float64(row.Commits))*w.Commits +
		math.Log1p(float64(row.ActiveDays))*w.ActiveDays -
		float64(tiny)/float64(n)*w.TinyPenalty
	return row
}

// percent returns part/total as a percentage rounded to one decimal.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// ModalLabel returns the most frequent label. Ties go to the label seen first.
func ModalLabel(labels []string) string {
	counts := map[string]int{}
	best, bestCount := "", 0
	for _, l := range labels {
		counts[l]++
	}
	for _, l := range labels {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

// authorLabels maps each author key to its modal label.
func authorLabels(commits []schema.DerivedCommit) map[string]string {
	labels := map[string]string{}
	for _, g := range groupByAuthor(commits) {
		ls := make([]string, len(g.commits))
		for i, c := range g.commits {
			ls[i] = c.AuthorLabel
		}
		labels[g.key] = ModalLabel(ls)
	}
	return labels
}
