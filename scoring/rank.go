package scoring

import (
	"sort"

	"matchup-engine/models"
)

// RankLineup scores every batter in a lineup against one pitcher and
// returns the predictions ordered best-first. Batters with no possible
// prediction are silently omitted, so the result may be shorter than
// the lineup — or empty, which is a normal outcome before lineups are
// announced. The sort is stable: equal scores keep lineup order.
func RankLineup(batterIDs []int, pitcherID int, snap models.Snapshot, base models.LeagueBaselines, cfg models.ScoringConfig) []models.Prediction {
	predictions := make([]models.Prediction, 0, len(batterIDs))
	for _, batterID := range batterIDs {
		if p, ok := ComposePrediction(batterID, pitcherID, snap, base, cfg); ok {
			predictions = append(predictions, p)
		}
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})

	return predictions
}
