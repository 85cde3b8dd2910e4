package scoring

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeUsage maps a pitch's usage to [0,1] relative to the
// pitcher's own most-used pitch. Usage is the one pitcher-relative
// component; everything else normalizes against league baselines.
func normalizeUsage(usage, maxUsage float64) float64 {
	if maxUsage <= 0 {
		return 0
	}
	return clamp(usage/maxUsage, 0, 1)
}

// normalizePitchWeakness maps a pitch run value to [0,1] weakness.
// Only the negative portion counts; leagueWorstRV is already an
// absolute magnitude.
func normalizePitchWeakness(pitchRV, leagueWorstRV float64) float64 {
	if leagueWorstRV <= 0 {
		return 0
	}
	weakness := -pitchRV
	if weakness < 0 {
		weakness = 0
	}
	return clamp(weakness/leagueWorstRV, 0, 1)
}

// normalizeBatterStrength maps a batter run value to [0,1] strength.
// Only the positive portion counts.
func normalizeBatterStrength(batterRV, leagueBestRV float64) float64 {
	if leagueBestRV <= 0 {
		return 0
	}
	strength := batterRV
	if strength < 0 {
		strength = 0
	}
	return clamp(strength/leagueBestRV, 0, 1)
}
