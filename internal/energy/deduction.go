package energy

import (
	"math"

	"github.com/julianstephens/helpme/internal/models"
)

const defaultBaseCost = 5

var baseCost = map[models.Intensity]int{
	models.IntensityDeepFocus: 15,
	models.IntensityRoutine:   10,
	models.IntensityQuickWin:  5,
	models.IntensityMeeting:   5,
}

var capacityMultiplier = map[models.Mood]float64{
	models.MoodFresh:   0.8,
	models.MoodNeutral: 1.0,
	models.MoodTired:   1.0,
	models.MoodTaxed:   1.2,
}

// DeductionFor is the energy a completed task costs given how the user
// felt afterwards.
func DeductionFor(intensity models.Intensity, capacityAfter models.Mood) int {
	base, ok := baseCost[intensity]
	if !ok {
		base = defaultBaseCost
	}
	mult, ok := capacityMultiplier[capacityAfter]
	if !ok {
		mult = 1
	}
	return int(math.Round(float64(base) * mult))
}
