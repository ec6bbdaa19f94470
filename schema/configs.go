package schema

// Default substance thresholds, in lines of churn.
const (
	DefaultSmallThreshold = 0
	DefaultTinyThreshold  = 2
	DefaultBigThreshold   = 300
)

// Default leaderboard score weights.
const (
	DefaultChurnWeight      = 0.55
	DefaultCommitsWeight    = 0.25
	DefaultActiveDaysWeight = 0.20
	DefaultTinyPenalty      = 0.40
)

// Thresholds classifies commits by churn.
// Small and tiny are upper bounds (inclusive); big is a lower bound (inclusive).
type Thresholds struct {
	Small int `json:"small"`
	Tiny  int `json:"tiny"`
	Big   int `json:"big"`
}

// ScoreWeights holds the coefficients of the leaderboard score:
// ln1p(churn)*Churn + ln1p(commits)*Commits + ln1p(active_days)*ActiveDays - tiny_fraction*TinyPenalty.
type ScoreWeights struct {
	Churn       float64 `json:"churn"`
	Commits     float64 `json:"commits"`
	ActiveDays  float64 `json:"active_days"`
	TinyPenalty float64 `json:"tiny_penalty"`
}

// MetricsConfig is the explicit configuration value shared by derivation and aggregation.
type MetricsConfig struct {
	Thresholds Thresholds   `json:"thresholds"`
	Weights    ScoreWeights `json:"weights"`
}

// DefaultMetricsConfig returns the stock thresholds and weights.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Thresholds: Thresholds{
			Small: DefaultSmallThreshold,
			Tiny:  DefaultTinyThreshold,
			Big:   DefaultBigThreshold,
		},
		Weights: ScoreWeights{
			Churn:       DefaultChurnWeight,
			Commits:     DefaultCommitsWeight,
			ActiveDays:  DefaultActiveDaysWeight,
			TinyPenalty: DefaultTinyPenalty,
		},
	}
}

// WithSmallThreshold returns a copy using the given small-commit threshold.
func (c MetricsConfig) WithSmallThreshold(n int) MetricsConfig {
	c.Thresholds.Small = n
	return c
}
