package engine

import (
	"math"

	"github.com/yourusername/sharp-picks/internal/models"
)

// Aggregate folds a factor set into one raw confidence in [0,1] for the
// given market. Deviations from neutral are weighted, then renormalized
// by the weight actually applied so sparse factor coverage neither
// crushes nor inflates the result.
func Aggregate(table *WeightTable, market models.Market, factors FactorSet) float64 {
	if table == nil || len(factors) == 0 {
		return 0.5
	}

	var deviation, weightSum float64
	for factor, value := range factors {
		w := table.Weight(factor, market)
		if w == 0 {
			continue
		}
		deviation += (value - 0.5) * w
		weightSum += w
	}

	if weightSum == 0 {
		return 0.5
	}
	return clamp01(0.5 + deviation/weightSum)
}

// ConfidencePercent projects a [0,1] confidence onto the 0-100 scale
func ConfidencePercent(confidence float64) int {
	return int(math.Round(clamp01(confidence) * 100))
}
