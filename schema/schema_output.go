package schema

import "time"

// EnrichedLeaderboardRow adds presentation data to a LeaderboardRow.
type EnrichedLeaderboardRow struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	LeaderboardRow
}

// CommitRow is the flattened view of a derived commit used by exports.
type CommitRow struct {
	Date        time.Time `json:"date"`
	AuthorLabel string    `json:"author"`
	Churn       int       `json:"churn"`
	Net         int       `json:"net"`
	Files       int       `json:"files"`
	Subject     string    `json:"subject"`
	Hash        string    `json:"hash"`
}

// GetPlainLabel returns a plain text tier label for a leaderboard score.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 5:
		return "Core"
	case score >= 3.5:
		return "Regular"
	case score >= 2:
		return "Occasional"
	default:
		return "Drive-by"
	}
}

// EnrichLeaderboard adds rank and tier label to leaderboard rows.
func EnrichLeaderboard(rows []LeaderboardRow) []EnrichedLeaderboardRow {
	output := make([]EnrichedLeaderboardRow, len(rows))
	for i, r := range rows {
		output[i] = EnrichedLeaderboardRow{
			Rank:           i + 1,
			Label:          GetPlainLabel(r.Score),
			LeaderboardRow: r,
		}
	}
	return output
}

// ToCommitRows flattens derived commits for export.
func ToCommitRows(commits []DerivedCommit) []CommitRow {
	rows := make([]CommitRow, len(commits))
	for i, c := range commits {
		rows[i] = CommitRow{
			Date:        c.Timestamp,
			AuthorLabel: c.AuthorLabel,
			Churn:       c.Churn(),
			Net:         c.Net(),
			Files:       c.Files,
			Subject:     c.Subject,
			Hash:        c.Hash,
		}
	}
	return rows
}

// HeatmapResult bundles the calendar heatmap of one author.
type HeatmapResult struct {
	AuthorKey   string        `json:"author_key"`
	AuthorLabel string        `json:"author_label"`
	Metric      Metric        `json:"metric"`
	Cells       []HeatmapCell `json:"cells"`
	Grid        HeatmapGrid   `json:"grid"`
}

// LeaderboardResult pairs ranked rows with the KPIs of the same filtered history.
type LeaderboardResult struct {
	Summary Summary                  `json:"summary"`
	Rows    []EnrichedLeaderboardRow `json:"leaderboard"`
}
