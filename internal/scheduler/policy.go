package scheduler

import "github.com/julianstephens/helpme/internal/models"

// Tier buckets the day's energy budget.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Adjustment is a score delta and the note shown alongside it.
type Adjustment struct {
	Delta int
	Note  string
}

type TierFit struct {
	ByIntensity map[models.Intensity]Adjustment
	Default     Adjustment
}

// Policy holds the energy-fit thresholds and deltas. They are product
// tuning, not invariants; DefaultPolicy keeps the shipped values.
type Policy struct {
	HighAtLeast int
	LowAtMost   int
	// LowDeepFocusGuardrail is subtracted from DeepFocus tasks on low days
	// on top of the low-tier adjustment.
	LowDeepFocusGuardrail int
	Fit                   map[Tier]TierFit
}

func DefaultPolicy() Policy {
	return Policy{
		HighAtLeast:           70,
		LowAtMost:             30,
		LowDeepFocusGuardrail: 5,
		Fit: map[Tier]TierFit{
			TierHigh: {
				ByIntensity: map[models.Intensity]Adjustment{
					models.IntensityDeepFocus: {10, "High energy: prioritizing deep focus work"},
					models.IntensityQuickWin:  {0, "High energy: quick wins are fine but not primary"},
				},
				Default: Adjustment{0, "Energy is sufficient for most tasks"},
			},
			TierLow: {
				ByIntensity: map[models.Intensity]Adjustment{
					models.IntensityDeepFocus: {-15, "Low energy: de-prioritizing deep focus to avoid burnout"},
					models.IntensityQuickWin:  {10, "Low energy: leaning on quick wins to maintain momentum"},
				},
				Default: Adjustment{0, "Low energy: keep workload sustainable"},
			},
			TierMedium: {
				ByIntensity: map[models.Intensity]Adjustment{
					models.IntensityDeepFocus: {5, "Medium energy: one or two deep focus blocks are appropriate"},
				},
				Default: Adjustment{0, "Medium energy: flexible across task types"},
			},
		},
	}
}

func (p Policy) TierFor(budget int) Tier {
	switch {
	case budget >= p.HighAtLeast:
		return TierHigh
	case budget <= p.LowAtMost:
		return TierLow
	default:
		return TierMedium
	}
}

func (p Policy) fit(budget int, intensity models.Intensity) Adjustment {
	tier := p.TierFor(budget)
	tf := p.Fit[tier]
	adj, ok := tf.ByIntensity[intensity]
	if !ok {
		adj = tf.Default
	}
	if tier == TierLow && intensity == models.IntensityDeepFocus {
		adj.Delta -= p.LowDeepFocusGuardrail
	}
	return adj
}
