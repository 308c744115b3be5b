package engine

import (
	"math"

	"github.com/yourusername/sharp-picks/internal/models"
)

// factorTransform lets a pass reshape the computed factor set before
// aggregation. The balanced pass uses the identity transform.
type factorTransform func(FactorSet) FactorSet

type scoringPass struct {
	name       string
	calibrator *Calibrator
	transform  factorTransform
}

// NewBalancedPass scores with factors exactly as computed
func NewBalancedPass(calibrator *Calibrator) ScoringPass {
	return &scoringPass{name: "balanced", calibrator: calibrator, transform: func(fs FactorSet) FactorSet { return fs }}
}

// NewConservativePass halves every factor's deviation from neutral,
// pulling marginal edges back toward 0.5.
func NewConservativePass(calibrator *Calibrator) ScoringPass {
	return &scoringPass{name: "conservative", calibrator: calibrator, transform: func(fs FactorSet) FactorSet {
		out := make(FactorSet, len(fs))
		for f, v := range fs {
			out[f] = 0.5 + (v-0.5)*0.5
		}
		return out
	}}
}

// NewFormPass amplifies recent form and head-to-head history, trusting
// current trajectory over season-long aggregates.
func NewFormPass(calibrator *Calibrator) ScoringPass {
	return &scoringPass{name: "recent-form", calibrator: calibrator, transform: func(fs FactorSet) FactorSet {
		out := make(FactorSet, len(fs))
		for f, v := range fs {
			switch f {
			case FactorRecentForm, FactorHeadToHead:
				out[f] = clamp01(0.5 + (v-0.5)*1.5)
			default:
				out[f] = v
			}
		}
		return out
	}}
}

func (p *scoringPass) Name() string { return p.name }

// Score computes the pass's candidate for one market. Returns nil when
// the event carries no line for the market.
func (p *scoringPass) Score(in MatchupInput, market models.Market) (*Candidate, error) {
	table := WeightsForSport(in.Event.Sport)
	if table == nil {
		return nil, nil
	}

	factors := p.transform(ComputeFactors(in))
	raw := Aggregate(table, market, factors)

	value, pickConf, ok := selectValue(in, market, raw, factors)
	if !ok {
		return nil, nil
	}

	assessment := p.calibrator.Calibrate(market, pickConf, value.String(), gameContext(in))
	return &Candidate{
		Pass:          p.name,
		Market:        market,
		Value:         value,
		RawConfidence: pickConf,
		Assessment:    assessment,
		Factors:       factors,
	}, nil
}

// selectValue turns a raw home-side confidence into a concrete pick for
// the market, using the event's posted lines. The returned confidence is
// re-oriented toward the backed side: backing away flips raw around 0.5.
func selectValue(in MatchupInput, market models.Market, raw float64, factors FactorSet) (models.MarketValue, float64, bool) {
	lines := in.Event.Lines
	if lines == nil {
		return nil, 0, false
	}

	switch market {
	case models.MarketSpread:
		if lines.Spread == nil {
			return nil, 0, false
		}
		line, _ := lines.Spread.HomeLine.Float64()
		// the posted line's sign names the backed side; a pick'em line
		// carries no side to back
		if line == 0 {
			return nil, 0, false
		}
		conf := raw
		if line > 0 {
			conf = 1 - raw
		}
		return models.SpreadValue{Line: line}, conf, true

	case models.MarketMoneyline:
		if lines.Moneyline == nil {
			return nil, 0, false
		}
		if raw > 0.5 {
			price := -int(math.Abs(float64(lines.Moneyline.HomePrice)))
			return models.MoneylineValue{Price: price}, raw, true
		}
		price := int(math.Abs(float64(lines.Moneyline.AwayPrice)))
		return models.MoneylineValue{Price: price}, 1 - raw, true

	case models.MarketTotal:
		if lines.Total == nil {
			return nil, 0, false
		}
		line, _ := lines.Total.Line.Float64()
		dir := models.TotalUnder
		if totalLean(in.Event.Sport, factors) > 0.5 {
			dir = models.TotalOver
		}
		return models.TotalValue{Direction: dir, Line: line}, raw, true
	}

	return nil, 0, false
}

// totalLean averages the scoring-pressure factors into one over/under
// signal. Strong pitching suppresses scoring, so its factor enters
// inverted.
func totalLean(sport models.Sport, factors FactorSet) float64 {
	parts := []float64{factors[FactorScoringDiff]}
	switch sport {
	case models.SportBaseball:
		parts = append(parts,
			factors[FactorBallpark],
			factors[FactorBatterHandedness],
			1-factors[FactorTeamPitching],
		)
	case models.SportBasketball:
		parts = append(parts, factors[FactorPace])
	}

	var sum float64
	for _, p := range parts {
		sum += p
	}
	return sum / float64(len(parts))
}

func gameContext(in MatchupInput) GameContext {
	ctx := GameContext{
		HomeTeamName:         in.Event.HomeTeamName,
		AwayTeamName:         in.Event.AwayTeamName,
		RecentCombinedScores: in.RecentCombinedScores,
	}
	if in.HomeStats != nil && in.HomeStats.LastTenWins != nil {
		ctx.HomeRecentWinRate = float64(*in.HomeStats.LastTenWins) / 10
	}
	return ctx
}
