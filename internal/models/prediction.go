package models

import (
	"time"

	"github.com/google/uuid"
)

// Market identifies the wager market a prediction targets
type Market string

const (
	MarketSpread    Market = "SPREAD"
	MarketMoneyline Market = "MONEYLINE"
	MarketTotal     Market = "TOTAL"
)

// Valid returns true when the market is one of the supported types
func (m Market) Valid() bool {
	switch m {
	case MarketSpread, MarketMoneyline, MarketTotal:
		return true
	}
	return false
}

// Outcome is the settlement state of a prediction
type Outcome string

const (
	OutcomePending Outcome = "PENDING"
	OutcomeWin     Outcome = "WIN"
	OutcomeLoss    Outcome = "LOSS"
	OutcomePush    Outcome = "PUSH"
)

// Terminal returns true once an outcome can no longer change
func (o Outcome) Terminal() bool {
	return o == OutcomeWin || o == OutcomeLoss || o == OutcomePush
}

// Prediction represents a single graded pick against one market of an event
type Prediction struct {
	ID            uuid.UUID `db:"id" json:"id"`
	EventID       uuid.UUID `db:"event_id" json:"event_id" validate:"required"`
	Market        Market    `db:"market" json:"market" validate:"required,oneof=SPREAD MONEYLINE TOTAL"`
	Value         string    `db:"value" json:"value" validate:"required"`
	RawConfidence float64   `db:"raw_confidence" json:"raw_confidence" validate:"gte=0,lte=1"`
	Confidence    float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	Grade         string    `db:"grade" json:"grade"`
	Reasoning     string    `db:"reasoning" json:"reasoning"`
	Outcome       Outcome   `db:"outcome" json:"outcome"`
	SettledAt     *time.Time `db:"settled_at" json:"settled_at,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// NewPrediction constructs an unsettled prediction for an event market
func NewPrediction(eventID uuid.UUID, market Market, value string, raw, calibrated float64, grade, reasoning string) *Prediction {
	now := time.Now().UTC()
	return &Prediction{
		ID:            uuid.New(),
		EventID:       eventID,
		Market:        market,
		Value:         value,
		RawConfidence: raw,
		Confidence:    calibrated,
		Grade:         grade,
		Reasoning:     reasoning,
		Outcome:       OutcomePending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Settled returns true once the prediction has a terminal outcome
func (p *Prediction) Settled() bool {
	return p.Outcome.Terminal()
}
