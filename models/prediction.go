package models

// LeagueBaselines holds the dataset-wide extremes and averages used as
// normalization denominators. Recomputed per scoring run, never stored.
type LeagueBaselines struct {
	WorstPitchRV    float64 `json:"worst_pitch_rv"`     // abs magnitude of the worst pitcher run value
	BestBatterRV    float64 `json:"best_batter_rv"`     // best batter run value
	AvgPitchHRRate  float64 `json:"avg_pitch_hr_rate"`  // mean HR rate across pitch profiles
	AvgBatterHRRate float64 `json:"avg_batter_hr_rate"` // mean HR rate across batter profiles
}

// ScoringConfig controls a single scoring run. The engine never mutates it.
type ScoringConfig struct {
	UseHRFactors  bool    `json:"use_hr_factors"`
	MinSampleSize int     `json:"min_sample_size"`
	ScoreScale    float64 `json:"score_scale"`
	ProbScale     float64 `json:"prob_scale"`
}

// DefaultScoringConfig returns the configuration the original matchup
// tool shipped with.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		UseHRFactors:  true,
		MinSampleSize: 20,
		ScoreScale:    1.0,
		ProbScale:     1.0,
	}
}

// Explanation categories
const (
	ReasonAttackPitch    = "attack_pitch"
	ReasonUsage          = "usage"
	ReasonPitchWeakness  = "pitch_weakness"
	ReasonBatterStrength = "batter_strength"
	ReasonHRPitch        = "hr_pitch"
	ReasonHRBatter       = "hr_batter"
	ReasonFallback       = "fallback"
)

// ExplanationItem is one entry in a prediction's explanation trail
type ExplanationItem struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// PredictionDetail carries every intermediate quantity behind a score
// so the result can be fully explained.
type PredictionDetail struct {
	NormalizedUsage          float64           `json:"normalized_usage"`
	NormalizedPitchWeakness  float64           `json:"normalized_pitch_weakness"`
	NormalizedBatterStrength float64           `json:"normalized_batter_strength"`
	HRPitchFactor            float64           `json:"hr_pitch_factor"`
	HRBatterFactor           float64           `json:"hr_batter_factor"`
	RawScore                 float64           `json:"raw_score"`
	Fallbacks                []string          `json:"fallbacks,omitempty"`
	Explanations             []ExplanationItem `json:"explanations"`
}

// Prediction is one batter's HR matchup estimate against a pitcher's
// attack pitch. Built fresh per scoring run and immutable afterwards.
type Prediction struct {
	BatterID        int              `json:"batter_id"`
	BatterName      string           `json:"batter_name"`
	Team            string           `json:"team"`
	AttackPitch     PitchType        `json:"attack_pitch"`
	AttackPitchName string           `json:"attack_pitch_name"`
	Score           int              `json:"score"`          // 0-100
	Probability     float64          `json:"hr_probability"` // 0.01-0.35
	TopReasons      []string         `json:"reasons"`
	Detail          PredictionDetail `json:"detail"`
}
