package engine

import (
	"math"

	"github.com/yourusername/sharp-picks/internal/models"
)

// Recommendation is the calibrator's accept/reject verdict on a candidate
type Recommendation string

const (
	RecommendationAccept Recommendation = "ACCEPT"
	RecommendationReject Recommendation = "REJECT"
)

// CalibratorConfig holds the empirically-derived calibration constants
type CalibratorConfig struct {
	MaxConfidence float64
	OptimalMin    float64
	OptimalMax    float64
	MarketWeights map[models.Market]float64
}

// DefaultCalibratorConfig returns the standard calibration constants.
// Spread has historically been the best-performing market, totals the worst.
func DefaultCalibratorConfig() CalibratorConfig {
	return CalibratorConfig{
		MaxConfidence: 0.85,
		OptimalMin:    0.75,
		OptimalMax:    0.80,
		MarketWeights: map[models.Market]float64{
			models.MarketSpread:    1.1,
			models.MarketMoneyline: 1.0,
			models.MarketTotal:     0.9,
		},
	}
}

// GameContext carries the lightweight history the calibrator adjusts against
type GameContext struct {
	HomeTeamName         string
	AwayTeamName         string
	RecentCombinedScores []float64
	HomeRecentWinRate    float64
}

// Assessment is the calibrator's output for one candidate prediction
type Assessment struct {
	Confidence     float64
	Warning        string
	Recommendation Recommendation
}

// Calibrator rescales raw confidence against historical reliability and
// sanity-checks the proposed value string for its market.
type Calibrator struct {
	cfg CalibratorConfig
}

// NewCalibrator creates a calibrator with the given constants
func NewCalibrator(cfg CalibratorConfig) *Calibrator {
	return &Calibrator{cfg: cfg}
}

const totalsCeiling = 0.82

// Calibrate applies the full adjustment pipeline to a raw confidence.
// The returned confidence is in [0.5, MaxConfidence] unless a malformed
// value forced it below the accept threshold.
func (c *Calibrator) Calibrate(market models.Market, raw float64, value string, gameCtx GameContext) Assessment {
	var warning string

	// a malformed value caps the result no matter what later steps do
	malformedCap := math.Inf(1)
	if _, err := models.ParseMarketValue(market, value); err != nil {
		malformedCap = math.Min(raw*0.7, 0.65)
		warning = "malformed prediction value"
	}

	conf := raw
	if w, ok := c.cfg.MarketWeights[market]; ok {
		conf *= w
	}

	// squash the excess above the ceiling rather than hard-clipping
	if conf > c.cfg.MaxConfidence {
		excess := conf - c.cfg.MaxConfidence
		conf = c.cfg.MaxConfidence + excess*0.5
	}

	// scores past the optimal band keep only 30% of the excess
	if conf > c.cfg.OptimalMax {
		conf = c.cfg.OptimalMax + (conf-c.cfg.OptimalMax)*0.3
	}

	if gameCtx.HomeRecentWinRate > 0.60 {
		conf *= 1.05
	}

	if market == models.MarketTotal {
		conf *= 0.8 + 0.2*scoringConsistency(gameCtx.RecentCombinedScores)
	}

	switch market {
	case models.MarketSpread:
		// boost the optimal band; scores just past it are floored at the
		// boosted band top so the mapping stays monotonic
		boostedTop := c.cfg.OptimalMax * 1.05
		switch {
		case conf >= c.cfg.OptimalMin && conf <= c.cfg.OptimalMax:
			conf *= 1.05
		case conf > c.cfg.OptimalMax && conf < boostedTop:
			conf = boostedTop
		}
	case models.MarketTotal:
		if conf > totalsCeiling {
			conf = totalsCeiling
		}
	}

	conf, warning = c.applySanityPenalties(market, value, gameCtx, conf, warning)

	// floor at the accept threshold, cap at the configured ceiling
	conf = math.Min(math.Max(conf, 0.5), c.cfg.MaxConfidence)
	conf = math.Min(conf, malformedCap)

	rec := RecommendationReject
	if conf >= 0.5 {
		rec = RecommendationAccept
	}
	return Assessment{Confidence: conf, Warning: warning, Recommendation: rec}
}

// applySanityPenalties knocks down confidence for implausible lines or
// missing identity data. Each penalty is multiplicative; the last
// triggered warning is the one reported.
func (c *Calibrator) applySanityPenalties(market models.Market, value string, gameCtx GameContext, conf float64, warning string) (float64, string) {
	parsed, err := models.ParseMarketValue(market, value)
	if err == nil {
		switch v := parsed.(type) {
		case models.TotalValue:
			if v.Line < 3 || v.Line > 15 {
				conf *= 0.8
				warning = "total line outside plausible range"
			}
		case models.SpreadValue:
			if math.Abs(v.Line) > 15 {
				conf *= 0.85
				warning = "unusually large spread"
			}
		case models.MoneylineValue:
			if v.Price > 300 || v.Price < -300 {
				conf *= 0.9
				warning = "extreme moneyline price"
			}
		}
	}

	if gameCtx.HomeTeamName == "" || gameCtx.AwayTeamName == "" {
		conf *= 0.6
		warning = "missing team information"
	}

	return conf, warning
}

// scoringConsistency converts recent combined-score volatility into a
// (0,1] score: 1 means perfectly steady scoring, lower means volatile.
func scoringConsistency(scores []float64) float64 {
	if len(scores) < 2 {
		return 1
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))
	if mean == 0 {
		return 1
	}
	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))
	cv := math.Sqrt(variance) / mean
	return 1 / (1 + cv)
}
