package models

// PitchProfile holds one pitcher's aggregate stats for a single pitch type.
// Profiles are built once at ingestion and read-only afterwards.
type PitchProfile struct {
	PitcherID   int       `json:"pitcher_id"`
	PitcherName string    `json:"pitcher_name"`
	PitchType   PitchType `json:"pitch_type"`
	PitchName   string    `json:"pitch_name"`
	Usage       float64   `json:"usage"`             // 0-1 share of this pitcher's pitches
	RunValue    float64   `json:"run_value"`         // negative = bad for the pitcher
	HRRate      *float64  `json:"hr_rate,omitempty"` // nil = insufficient data
}

// BatterVsPitchProfile holds one batter's aggregate stats against a
// single pitch type.
type BatterVsPitchProfile struct {
	BatterID   int         `json:"batter_id"`
	BatterName string      `json:"batter_name"`
	Team       string      `json:"team"`
	Side       BattingSide `json:"bats"`
	PitchType  PitchType   `json:"pitch_type"`
	PitchName  string      `json:"pitch_name"`
	RunValue   float64     `json:"run_value"`         // positive = good for the batter
	HRRate     *float64    `json:"hr_rate,omitempty"` // nil = insufficient data
	SampleSize int         `json:"sample_size"`       // pitches seen
}

// Snapshot is the fully materialized dataset a scoring run operates on.
// Callers own it; the engine never mutates it and keeps no reference
// past a call.
type Snapshot struct {
	Pitches []PitchProfile         `json:"pitches"`
	Batters []BatterVsPitchProfile `json:"batters"`
}

// PitcherPitches returns the subset of pitch profiles belonging to one pitcher
func (s Snapshot) PitcherPitches(pitcherID int) []PitchProfile {
	var out []PitchProfile
	for _, p := range s.Pitches {
		if p.PitcherID == pitcherID {
			out = append(out, p)
		}
	}
	return out
}

// BatterVsPitch finds the batter's profile for a specific pitch type
func (s Snapshot) BatterVsPitch(batterID int, pt PitchType) (BatterVsPitchProfile, bool) {
	for _, b := range s.Batters {
		if b.BatterID == batterID && b.PitchType == pt {
			return b, true
		}
	}
	return BatterVsPitchProfile{}, false
}
