// Package energy turns check-in answers into a daily budget and keeps the
// append-only ledger of what completed tasks cost.
package energy

import (
	"math"

	"github.com/julianstephens/helpme/internal/constants"
	"github.com/julianstephens/helpme/internal/models"
)

var moodMultiplier = map[models.Mood]float64{
	models.MoodFresh:   1.10,
	models.MoodNeutral: 1.00,
	models.MoodTired:   1.00,
	models.MoodTaxed:   0.85,
}

// EstimateBudget maps rest quality 1..10 linearly onto 20..100 points,
// scales by mood and clamps to [10, 120]. Out-of-range rest is clamped and
// an unknown mood counts as neutral.
func EstimateBudget(restQuality int, mood models.Mood) int {
	rest := min(max(restQuality, constants.MinRestQuality), constants.MaxRestQuality)
	base := 20 + float64(rest-1)/9*80

	mult, ok := moodMultiplier[mood]
	if !ok {
		mult = 1
	}

	budget := int(math.Round(base * mult))
	return min(max(budget, constants.MinEnergyBudget), constants.MaxEnergyBudget)
}
