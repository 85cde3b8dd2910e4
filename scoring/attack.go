package scoring

import (
	"sort"

	"matchup-engine/models"
)

// SelectAttackPitch picks the single most exploitable pitch from a
// pitcher's mix: among the two most-used pitch types, the one with the
// most negative run value. Pitches outside the top two by usage are
// ignored even when their run value is worse, since batters rarely see
// them. Returns false for an empty mix.
//
// Both sorts are stable so ties resolve to first-seen input order.
func SelectAttackPitch(pitches []models.PitchProfile) (models.PitchProfile, bool) {
	if len(pitches) == 0 {
		return models.PitchProfile{}, false
	}
	if len(pitches) == 1 {
		return pitches[0], true
	}

	byUsage := make([]models.PitchProfile, len(pitches))
	copy(byUsage, pitches)
	sort.SliceStable(byUsage, func(i, j int) bool {
		return byUsage[i].Usage > byUsage[j].Usage
	})

	top := byUsage
	if len(top) > 2 {
		top = top[:2]
	}
	if len(top) == 1 {
		return top[0], true
	}

	candidates := make([]models.PitchProfile, len(top))
	copy(candidates, top)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RunValue < candidates[j].RunValue
	})

	return candidates[0], true
}

// MaxUsage returns the highest usage fraction in a pitcher's mix,
// the denominator for pitcher-relative usage normalization.
func MaxUsage(pitches []models.PitchProfile) float64 {
	max := 0.0
	for _, p := range pitches {
		if p.Usage > max {
			max = p.Usage
		}
	}
	return max
}
