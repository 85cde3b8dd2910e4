package scoring

import "fmt"

// HR-rate multipliers are capped so one hot or cold split can't
// dominate the score.
const (
	hrFactorFloor = 0.5
	hrFactorCeil  = 1.5
)

// hrFactor converts an HR rate into a multiplier against the league
// average. A missing or non-positive rate yields the neutral 1.0 plus
// a fallback notice for the explanation trail; a degenerate league
// average yields 1.0 silently. The notice is returned rather than
// appended to a shared list so two calls for one prediction can't
// alias each other.
func hrFactor(rate *float64, leagueAvg float64, side string) (float64, string) {
	if rate == nil || *rate <= 0 {
		return 1.0, fmt.Sprintf("%s HR rate missing: used league average", side)
	}
	if leagueAvg <= 0 {
		return 1.0, ""
	}
	return clamp(*rate/leagueAvg, hrFactorFloor, hrFactorCeil), ""
}
