package engine

import (
	"github.com/yourusername/sharp-picks/internal/models"
)

// WeightTable maps (factor, market) to an aggregation coefficient.
// Tables are immutable after construction and safe for concurrent reads.
type WeightTable struct {
	sport   models.Sport
	weights map[Factor]map[models.Market]float64
}

// Sport returns the sport this table was built for
func (t *WeightTable) Sport() models.Sport { return t.sport }

// Weight returns the coefficient for a factor under a market.
// A factor with no row for the market contributes zero weight.
func (t *WeightTable) Weight(f Factor, m models.Market) float64 {
	row, ok := t.weights[f]
	if !ok {
		return 0
	}
	return row[m]
}

// BaseballWeights builds the MLB table. Pitching comparisons carry the
// heaviest spread weights; park and handedness matter most for totals.
func BaseballWeights() *WeightTable {
	return &WeightTable{
		sport: models.SportBaseball,
		weights: map[Factor]map[models.Market]float64{
			FactorOverallRecord:    {models.MarketSpread: 0.10, models.MarketMoneyline: 0.12, models.MarketTotal: 0.05},
			FactorHomeAwaySplit:    {models.MarketSpread: 0.12, models.MarketMoneyline: 0.15, models.MarketTotal: 0.05},
			FactorRecentForm:       {models.MarketSpread: 0.15, models.MarketMoneyline: 0.15, models.MarketTotal: 0.05},
			FactorHeadToHead:       {models.MarketSpread: 0.05, models.MarketMoneyline: 0.08, models.MarketTotal: 0.03},
			FactorScoringDiff:      {models.MarketSpread: 0.08, models.MarketMoneyline: 0.10, models.MarketTotal: 0.10},
			FactorPitcherMatchup:   {models.MarketSpread: 0.20, models.MarketMoneyline: 0.12, models.MarketTotal: 0.15},
			FactorTeamPitching:     {models.MarketSpread: 0.15, models.MarketMoneyline: 0.08, models.MarketTotal: 0.12},
			FactorBatterHandedness: {models.MarketSpread: 0.05, models.MarketMoneyline: 0.05, models.MarketTotal: 0.10},
			FactorBallpark:         {models.MarketSpread: 0.08, models.MarketMoneyline: 0.05, models.MarketTotal: 0.10},
			FactorBattingStrength:  {models.MarketSpread: 0.05, models.MarketMoneyline: 0.05, models.MarketTotal: 0.10},
			FactorPitchingStrength: {models.MarketSpread: 0.04, models.MarketMoneyline: 0.03, models.MarketTotal: 0.08},
			FactorKeyPlayerImpact:  {models.MarketSpread: 0.03, models.MarketMoneyline: 0.02, models.MarketTotal: 0.02},
		},
	}
}

// BasketballWeights builds the NBA table. Net efficiency subsumes raw
// scoring differential, so the latter carries no weight here; pace
// dominates totals.
func BasketballWeights() *WeightTable {
	return &WeightTable{
		sport: models.SportBasketball,
		weights: map[Factor]map[models.Market]float64{
			FactorOverallRecord: {models.MarketSpread: 0.15, models.MarketMoneyline: 0.12, models.MarketTotal: 0.05},
			FactorHomeAwaySplit: {models.MarketSpread: 0.15, models.MarketMoneyline: 0.15, models.MarketTotal: 0.05},
			FactorRecentForm:    {models.MarketSpread: 0.18, models.MarketMoneyline: 0.13, models.MarketTotal: 0.08},
			FactorHeadToHead:    {models.MarketSpread: 0.08, models.MarketMoneyline: 0.05, models.MarketTotal: 0.02},
			FactorScoringDiff:   {},
			FactorPace:          {models.MarketSpread: 0.14, models.MarketMoneyline: 0.15, models.MarketTotal: 0.35},
			FactorEfficiency:    {models.MarketSpread: 0.30, models.MarketMoneyline: 0.40, models.MarketTotal: 0.45},
		},
	}
}

// WeightsForSport returns the standard table for a sport, nil if unsupported
func WeightsForSport(sport models.Sport) *WeightTable {
	switch sport {
	case models.SportBaseball:
		return BaseballWeights()
	case models.SportBasketball:
		return BasketballWeights()
	}
	return nil
}
