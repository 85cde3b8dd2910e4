package scoring

import (
	"matchup-engine/models"
)

// Fallback baselines for empty datasets. The engine always produces a
// usable denominator rather than erroring on thin data.
const (
	defaultWorstPitchRV = 10.0
	defaultBestBatterRV = 10.0
	defaultPitchHRRate  = 0.03
	defaultBatterHRRate = 0.04
)

// ComputeLeagueBaselines derives the league-wide extremes and averages
// used as normalization denominators for one scoring run.
func ComputeLeagueBaselines(snap models.Snapshot) models.LeagueBaselines {
	base := models.LeagueBaselines{
		WorstPitchRV:    defaultWorstPitchRV,
		BestBatterRV:    defaultBestBatterRV,
		AvgPitchHRRate:  defaultPitchHRRate,
		AvgBatterHRRate: defaultBatterHRRate,
	}

	if len(snap.Pitches) > 0 {
		worst := snap.Pitches[0].RunValue
		for _, p := range snap.Pitches[1:] {
			if p.RunValue < worst {
				worst = p.RunValue
			}
		}
		if worst < 0 {
			base.WorstPitchRV = -worst
		} else {
			base.WorstPitchRV = worst
		}
	}

	if len(snap.Batters) > 0 {
		best := snap.Batters[0].RunValue
		for _, b := range snap.Batters[1:] {
			if b.RunValue > best {
				best = b.RunValue
			}
		}
		base.BestBatterRV = best
	}

	if rate, ok := meanPitchHRRate(snap.Pitches); ok {
		base.AvgPitchHRRate = rate
	}
	if rate, ok := meanBatterHRRate(snap.Batters); ok {
		base.AvgBatterHRRate = rate
	}

	return base
}

func meanPitchHRRate(pitches []models.PitchProfile) (float64, bool) {
	sum := 0.0
	n := 0
	for _, p := range pitches {
		if p.HRRate != nil {
			sum += *p.HRRate
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func meanBatterHRRate(batters []models.BatterVsPitchProfile) (float64, bool) {
	sum := 0.0
	n := 0
	for _, b := range batters {
		if b.HRRate != nil {
			sum += *b.HRRate
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
