package scoring

import (
	"fmt"
	"math"

	"matchup-engine/models"
)

// Displayed probability bounds: a weak matchup still shows a non-zero
// chance, and no matchup is ever presented as better than 35%.
const (
	probFloor = 0.01
	probCeil  = 0.35
)

// ComposePrediction scores one batter against one pitcher's attack
// pitch. It returns false — never an error — whenever no estimate is
// possible: the pitcher has no pitch data, the batter has never faced
// the attack pitch, or the batter's sample is below the configured
// minimum. Callers treat an absent prediction as a normal outcome.
func ComposePrediction(batterID, pitcherID int, snap models.Snapshot, base models.LeagueBaselines, cfg models.ScoringConfig) (models.Prediction, bool) {
	mix := snap.PitcherPitches(pitcherID)
	attack, ok := SelectAttackPitch(mix)
	if !ok {
		return models.Prediction{}, false
	}

	batter, ok := snap.BatterVsPitch(batterID, attack.PitchType)
	if !ok {
		// No data for the specific exploitable pitch. Never substitute
		// a different pitch type.
		return models.Prediction{}, false
	}
	if batter.SampleSize < cfg.MinSampleSize {
		return models.Prediction{}, false
	}

	pitchName := attack.PitchType.Name()

	normUsage := normalizeUsage(attack.Usage, MaxUsage(mix))
	normWeakness := normalizePitchWeakness(attack.RunValue, base.WorstPitchRV)
	normStrength := normalizeBatterStrength(batter.RunValue, base.BestBatterRV)

	interaction := normUsage * normWeakness * normStrength

	hrPitch, hrBatter := 1.0, 1.0
	var fallbacks []string
	if cfg.UseHRFactors {
		var notice string
		hrPitch, notice = hrFactor(attack.HRRate, base.AvgPitchHRRate, "Pitcher")
		if notice != "" {
			fallbacks = append(fallbacks, notice)
		}
		hrBatter, notice = hrFactor(batter.HRRate, base.AvgBatterHRRate, "Batter")
		if notice != "" {
			fallbacks = append(fallbacks, notice)
		}
	}

	raw := interaction * hrPitch * hrBatter

	score := int(clamp(math.Round(raw*cfg.ScoreScale*100), 0, 100))
	probability := clamp(raw*cfg.ProbScale, probFloor, probCeil)

	explanations := []models.ExplanationItem{
		{
			Category: models.ReasonAttackPitch,
			Text: fmt.Sprintf("Attack pitch: %s (%.0f%% usage, run value %+.1f)",
				pitchName, attack.Usage*100, attack.RunValue),
		},
		{
			Category: models.ReasonUsage,
			Text: fmt.Sprintf("%s sees the %s constantly: %.0f%% of the pitcher's peak usage",
				batter.BatterName, pitchName, normUsage*100),
		},
		{
			Category: models.ReasonPitchWeakness,
			Text: fmt.Sprintf("The %s grades at %.0f%% of the league-worst run value",
				pitchName, normWeakness*100),
		},
		{
			Category: models.ReasonBatterStrength,
			Text: fmt.Sprintf("%s produces %.0f%% of the league-best run value against the %s",
				batter.BatterName, normStrength*100, pitchName),
		},
	}

	if cfg.UseHRFactors {
		if attack.HRRate != nil {
			explanations = append(explanations, models.ExplanationItem{
				Category: models.ReasonHRPitch,
				Text: fmt.Sprintf("The %s allows home runs at %.2fx the league rate",
					pitchName, hrPitch),
			})
		}
		if batter.HRRate != nil {
			explanations = append(explanations, models.ExplanationItem{
				Category: models.ReasonHRBatter,
				Text: fmt.Sprintf("%s homers off the %s at %.2fx the league rate",
					batter.BatterName, pitchName, hrBatter),
			})
		}
	}

	for _, notice := range fallbacks {
		explanations = append(explanations, models.ExplanationItem{
			Category: models.ReasonFallback,
			Text:     notice,
		})
	}

	return models.Prediction{
		BatterID:        batter.BatterID,
		BatterName:      batter.BatterName,
		Team:            batter.Team,
		AttackPitch:     attack.PitchType,
		AttackPitchName: pitchName,
		Score:           score,
		Probability:     probability,
		TopReasons:      topReasons(explanations, 2),
		Detail: models.PredictionDetail{
			NormalizedUsage:          normUsage,
			NormalizedPitchWeakness:  normWeakness,
			NormalizedBatterStrength: normStrength,
			HRPitchFactor:            hrPitch,
			HRBatterFactor:           hrBatter,
			RawScore:                 raw,
			Fallbacks:                fallbacks,
			Explanations:             explanations,
		},
	}, true
}

// topReasons picks the first n non-fallback explanation texts for the
// headline. Fallback notices stay visible in the full detail only.
func topReasons(items []models.ExplanationItem, n int) []string {
	var out []string
	for _, item := range items {
		if item.Category == models.ReasonFallback {
			continue
		}
		out = append(out, item.Text)
		if len(out) == n {
			break
		}
	}
	return out
}
