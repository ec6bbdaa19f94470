package schema_test

import (
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected string
	}{
		{"Core Score Upper", 9.0, "Core"},
		{"Core Score Lower", 5.0, "Core"},
		{"Regular Score Upper", 4.99, "Regular"},
		{"Regular Score Lower", 3.5, "Regular"},
		{"Occasional Score Upper", 3.49, "Occasional"},
		{"Occasional Score Lower", 2.0, "Occasional"},
		{"Drive-by Score", 1.2, "Drive-by"},
		{"Negative Score", -0.4, "Drive-by"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetPlainLabel(tt.score))
		})
	}
}

func TestEnrichLeaderboard(t *testing.T) {
	rows := []schema.LeaderboardRow{
		{Author: "a@x.com", Score: 6.1},
		{Author: "b@y.com", Score: 3.6},
		{Author: "c@z.com", Score: 0.7},
	}

	enriched := schema.EnrichLeaderboard(rows)

	assert.Len(t, enriched, 3)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, "Core", enriched[0].Label)
	assert.Equal(t, "a@x.com", enriched[0].Author)

	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, "Regular", enriched[1].Label)

	assert.Equal(t, 3, enriched[2].Rank)
	assert.Equal(t, "Drive-by", enriched[2].Label)
}

func TestEnrichLeaderboardEmpty(t *testing.T) {
	assert.Empty(t, schema.EnrichLeaderboard(nil))
}

func TestToCommitRows(t *testing.T) {
	ts := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	commits := []schema.DerivedCommit{
		{
			CommitRecord: schema.CommitRecord{
				Hash: "abc", Timestamp: ts, Subject: "fix", Added: 10, Deleted: 4, Files: 2,
			},
			AuthorLabel: "a@x.com",
		},
	}

	rows := schema.ToCommitRows(commits)
	assert.Len(t, rows, 1)
	assert.Equal(t, ts, rows[0].Date)
	assert.Equal(t, 14, rows[0].Churn)
	assert.Equal(t, 6, rows[0].Net)
	assert.Equal(t, "a@x.com", rows[0].AuthorLabel)
	assert.Equal(t, "abc", rows[0].Hash)
}
