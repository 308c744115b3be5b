package engine

import (
	"fmt"

	"github.com/yourusername/sharp-picks/internal/models"
)

// Resolver settles predictions against finalized box scores
type Resolver struct{}

// NewResolver creates a settlement resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve classifies a prediction against a final score. Terminal
// outcomes are returned unchanged, making resolution idempotent. A value
// that cannot be parsed leaves the prediction PENDING and reports the
// failure rather than defaulting to a loss.
func (r *Resolver) Resolve(p *models.Prediction, homeScore, awayScore int) (models.Outcome, error) {
	if p.Outcome.Terminal() {
		return p.Outcome, nil
	}

	value, err := models.ParseMarketValue(p.Market, p.Value)
	if err != nil {
		return models.OutcomePending, fmt.Errorf("settle prediction %s: %w", p.ID, err)
	}

	switch v := value.(type) {
	case models.SpreadValue:
		return resolveSpread(v, homeScore, awayScore), nil
	case models.MoneylineValue:
		return resolveMoneyline(v, homeScore, awayScore), nil
	case models.TotalValue:
		return resolveTotal(v, homeScore, awayScore), nil
	}

	return models.OutcomePending, fmt.Errorf("settle prediction %s: market %s: %w", p.ID, p.Market, models.ErrUnknownMarket)
}

func resolveSpread(v models.SpreadValue, homeScore, awayScore int) models.Outcome {
	adjusted := float64(homeScore) + v.Line
	away := float64(awayScore)
	if adjusted == away {
		return models.OutcomePush
	}
	homeCovered := adjusted > away
	if homeCovered == v.BacksHome() {
		return models.OutcomeWin
	}
	return models.OutcomeLoss
}

func resolveMoneyline(v models.MoneylineValue, homeScore, awayScore int) models.Outcome {
	// a tie never settles a moneyline pick
	if homeScore == awayScore {
		return models.OutcomePending
	}
	homeWon := homeScore > awayScore
	if homeWon == v.BacksHome() {
		return models.OutcomeWin
	}
	return models.OutcomeLoss
}

func resolveTotal(v models.TotalValue, homeScore, awayScore int) models.Outcome {
	combined := float64(homeScore + awayScore)
	if combined == v.Line {
		return models.OutcomePush
	}
	wentOver := combined > v.Line
	if wentOver == (v.Direction == models.TotalOver) {
		return models.OutcomeWin
	}
	return models.OutcomeLoss
}
