package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/sharp-picks/internal/models"
)

// Candidate is one scoring pass's proposal for a single market
type Candidate struct {
	Pass          string
	Market        models.Market
	Value         models.MarketValue
	RawConfidence float64
	Assessment    Assessment
	Factors       FactorSet
}

// ScoringPass produces at most one candidate per (matchup, market).
// A nil candidate with nil error means the pass declined to propose,
// typically because the required market line is missing.
type ScoringPass interface {
	Name() string
	Score(in MatchupInput, market models.Market) (*Candidate, error)
}

// MinimumPasses is the smallest ensemble size the combiner trusts
const MinimumPasses = 3

// Combiner runs every configured scoring pass per market and emits the
// strongest accepted candidate as a Prediction.
type Combiner struct {
	passes  []ScoringPass
	profile GradeProfile
}

// NewCombiner builds a combiner over the given passes. Fewer than
// MinimumPasses passes is a configuration error.
func NewCombiner(passes []ScoringPass) (*Combiner, error) {
	if len(passes) < MinimumPasses {
		return nil, fmt.Errorf("ensemble requires at least %d scoring passes, got %d", MinimumPasses, len(passes))
	}
	return &Combiner{passes: passes, profile: GradeProfileFine}, nil
}

// UseGradeProfile switches the grade scale applied to emitted predictions
func (c *Combiner) UseGradeProfile(profile GradeProfile) {
	c.profile = profile
}

// DefaultCombiner builds the standard three-pass ensemble
func DefaultCombiner() *Combiner {
	calibrator := NewCalibrator(DefaultCalibratorConfig())
	combiner, _ := NewCombiner([]ScoringPass{
		NewBalancedPass(calibrator),
		NewConservativePass(calibrator),
		NewFormPass(calibrator),
	})
	return combiner
}

// Markets lists the markets the combiner scores, in emission order
var Markets = []models.Market{models.MarketSpread, models.MarketMoneyline, models.MarketTotal}

// Predict scores every market for a matchup and returns one Prediction
// per market that produced an accepted candidate. Markets with no
// accepted candidate are skipped rather than forced.
func (c *Combiner) Predict(in MatchupInput) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for _, market := range Markets {
		p, err := c.Score(in, market)
		if err != nil {
			return nil, err
		}
		if p != nil {
			predictions = append(predictions, p)
		}
	}
	return predictions, nil
}

// Score runs all passes for one market and emits the highest-confidence
// accepted candidate, or nil when no pass produced an acceptable one.
func (c *Combiner) Score(in MatchupInput, market models.Market) (*models.Prediction, error) {
	var best *Candidate
	for _, pass := range c.passes {
		cand, err := pass.Score(in, market)
		if err != nil {
			return nil, fmt.Errorf("pass %s scoring %s: %w", pass.Name(), market, err)
		}
		if cand == nil || cand.Assessment.Recommendation != RecommendationAccept {
			continue
		}
		if best == nil || cand.Assessment.Confidence > best.Assessment.Confidence {
			best = cand
		}
	}
	if best == nil {
		return nil, nil
	}

	grade := Grade(best.Assessment.Confidence, c.profile)
	reasoning := formatReasoning(best)
	return models.NewPrediction(
		in.Event.ID,
		market,
		best.Value.String(),
		best.RawConfidence,
		best.Assessment.Confidence,
		grade,
		reasoning,
	), nil
}

// formatReasoning flattens the winning candidate's factor set into the
// display form downstream consumers expect.
func formatReasoning(cand *Candidate) string {
	keys := make([]string, 0, len(cand.Factors))
	for f := range cand.Factors {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, fmt.Sprintf("pass=%s", cand.Pass))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.3f", k, cand.Factors[Factor(k)]))
	}
	if cand.Assessment.Warning != "" {
		parts = append(parts, fmt.Sprintf("warning=%s", cand.Assessment.Warning))
	}
	return strings.Join(parts, " ")
}
