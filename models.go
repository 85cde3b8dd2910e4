package main

import (
	"time"

	"matchup-engine/models"
)

// APIError is the standard error response shape
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MatchupRequest asks for predictions for one lineup against one pitcher
type MatchupRequest struct {
	PitcherID     int   `json:"pitcher_id"`
	BatterIDs     []int `json:"batter_ids"`
	Season        int   `json:"season,omitempty"`
	UseHRFactors  *bool `json:"use_hr_factors,omitempty"`
	MinSampleSize *int  `json:"min_sample_size,omitempty"`
}

// MatchupResponse carries the ranked predictions for one scoring run
type MatchupResponse struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Season      int                    `json:"season"`
	PitcherID   int                    `json:"pitcher_id"`
	PitcherName string                 `json:"pitcher_name,omitempty"`
	Baselines   models.LeagueBaselines `json:"baselines"`
	Predictions []models.Prediction    `json:"predictions"`
}

// BatterBatchRequest asks for vs-pitch profiles for several batters
type BatterBatchRequest struct {
	BatterIDs []int `json:"batter_ids"`
	Season    int   `json:"season,omitempty"`
}

// PitcherProfileResponse is the pitch-mix view of one pitcher
type PitcherProfileResponse struct {
	PitcherID   int                   `json:"pitcher_id"`
	PitcherName string                `json:"pitcher_name,omitempty"`
	Season      int                   `json:"season"`
	Pitches     []models.PitchProfile `json:"pitches"`
}

// AttackPitchResponse is the pitch the engine would target for a pitcher
type AttackPitchResponse struct {
	PitcherID   int                 `json:"pitcher_id"`
	Season      int                 `json:"season"`
	AttackPitch models.PitchProfile `json:"attack_pitch"`
}

// BatterProfileResponse is the vs-pitch-type view of one batter
type BatterProfileResponse struct {
	BatterID int                           `json:"batter_id"`
	Season   int                           `json:"season"`
	Profiles []models.BatterVsPitchProfile `json:"profiles"`
}

// GameMatchupsResponse pairs each lineup with the opposing starter so a
// client can feed it straight into a predict call.
type GameMatchupsResponse struct {
	Game models.Game   `json:"game"`
	Home MatchupLineup `json:"home_batting"`
	Away MatchupLineup `json:"away_batting"`
}

// MatchupLineup is one batting side and the pitcher it will face
type MatchupLineup struct {
	OpposingPitcherID   int    `json:"opposing_pitcher_id,omitempty"`
	OpposingPitcherName string `json:"opposing_pitcher_name,omitempty"`
	BatterIDs           []int  `json:"batter_ids"`
}
