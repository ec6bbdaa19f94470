// Package schema has models, enums and constants for all parts of gitpulse.
package schema

import "time"

// CommitRecord is one commit as parsed from the commit log stream.
// Added and Deleted are summed across files; binary files contribute
// to Files and BinaryFiles only.
type CommitRecord struct {
	Hash        string    `json:"hash"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Timestamp   time.Time `json:"timestamp"` // zero when the date failed to parse
	Subject     string    `json:"subject"`
	Added       int       `json:"added"`
	Deleted     int       `json:"deleted"`
	Files       int       `json:"files"`
	BinaryFiles int       `json:"binary_files"`
}

// Churn is the number of lines touched by the commit.
func (c CommitRecord) Churn() int {
	return c.Added + c.Deleted
}

// Net is the line balance of the commit.
func (c CommitRecord) Net() int {
	return c.Added - c.Deleted
}

// HasTimestamp reports whether the commit date was parsed.
func (c CommitRecord) HasTimestamp() bool {
	return !c.Timestamp.IsZero()
}

// HasNumstat reports whether any stat line was attributed to the commit.
func (c CommitRecord) HasNumstat() bool {
	return c.Files > 0
}

// DerivedCommit extends a CommitRecord with UTC time buckets,
// substance flags and the normalized author identity.
type DerivedCommit struct {
	CommitRecord
	Day         time.Time `json:"day"`
	WeekStart   time.Time `json:"week_start"`
	MonthStart  time.Time `json:"month_start"`
	Weekday     int       `json:"weekday"` // 0=Mon..6=Sun, -1 without a timestamp
	IsSmall     bool      `json:"is_small"`
	IsTiny      bool      `json:"is_tiny"`
	IsBig       bool      `json:"is_big"`
	AuthorKey   string    `json:"author_key"`
	AuthorLabel string    `json:"author_label"`
}

// LeaderboardRow is the per-author rollup. Ratios are percentages with one decimal.
type LeaderboardRow struct {
	Author      string    `json:"author"`
	AuthorKey   string    `json:"author_key"`
	Commits     int       `json:"commits"`
	Churn       int       `json:"churn"`
	Net         int       `json:"net"`
	Added       int       `json:"added"`
	Deleted     int       `json:"deleted"`
	Files       int       `json:"files"`
	AvgChurn    float64   `json:"avg_churn"`
	MedianChurn float64   `json:"med_churn"`
	SmallRatio  float64   `json:"small_ratio"`
	TinyRatio   float64   `json:"tiny_ratio"`
	BigRatio    float64   `json:"big_ratio"`
	ActiveDays  int       `json:"active_days"`
	FirstCommit time.Time `json:"first_commit"`
	LastCommit  time.Time `json:"last_commit"`
	Score       float64   `json:"score"`
}

// WeeklyPoint is one (week, author) cell of the weekly series.
type WeeklyPoint struct {
	WeekStart   time.Time `json:"week_start"`
	AuthorKey   string    `json:"author_key"`
	AuthorLabel string    `json:"author_label"`
	Value       int       `json:"value"`
}

// HeatmapCell is one calendar day of a single author's activity.
type HeatmapCell struct {
	Day       time.Time `json:"day"`
	Weekday   int       `json:"weekday"`
	WeekIndex int       `json:"week_index"`
	Value     int       `json:"value"`
}

// HeatmapGrid is the 7xW projection of heatmap cells.
// Values is indexed by weekday first, then week index.
type HeatmapGrid struct {
	Origin time.Time `json:"origin"` // Monday of week index 0
	Weeks  int       `json:"weeks"`
	Max    int       `json:"max"`
	Values [7][]int  `json:"values"`
}

// Summary holds the headline KPIs of a commit selection.
type Summary struct {
	Commits     int       `json:"commits"`
	Authors     int       `json:"authors"`
	Churn       int       `json:"churn"`
	Net         int       `json:"net"`
	AvgChurn    float64   `json:"avg_churn"`
	FirstCommit time.Time `json:"first_commit"`
	LastCommit  time.Time `json:"last_commit"`
}

// BranchInfo is one local branch of a repository.
type BranchInfo struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
}

// ScanOptions controls which history the log extractor reads.
type ScanOptions struct {
	IncludeMerges bool   `json:"include_merges"`
	Branch        string `json:"branch,omitempty"`
	AllBranches   bool   `json:"all_branches"`
}

// BranchLabel returns the ref component used to identify a scan.
func (o ScanOptions) BranchLabel() string {
	switch {
	case o.AllBranches:
		return "--all"
	case o.Branch != "":
		return o.Branch
	default:
		return "HEAD"
	}
}

// RecordFilter narrows derived commits before aggregation.
type RecordFilter struct {
	Authors       []string  // author keys or labels; empty keeps everyone
	Start         time.Time // inclusive on calendar day; zero means unbounded
	End           time.Time // inclusive on calendar day; zero means unbounded
	Months        int       // last N months relative to the newest commit; 0 disables
	HideZeroFiles bool
}
