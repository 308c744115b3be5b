package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yourusername/sharp-picks/internal/models"
)

func pendingPrediction(market models.Market, value string) *models.Prediction {
	return models.NewPrediction(uuid.New(), market, value, 0.7, 0.7, "B", "")
}

func TestResolveSpread(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name       string
		value      string
		home, away int
		want       models.Outcome
	}{
		{"home favorite covers", "-1.5", 5, 3, models.OutcomeWin},
		{"home favorite fails to cover", "-1.5", 4, 3, models.OutcomeLoss},
		{"home favorite loses outright", "-1.5", 2, 3, models.OutcomeLoss},
		{"whole-number line lands exactly", "-2", 5, 3, models.OutcomePush},
		{"away favorite covers", "+3.5", 2, 7, models.OutcomeWin},
		{"away favorite wins but misses the number", "+3.5", 4, 6, models.OutcomeLoss},
	}
	for _, tt := range tests {
		got, err := r.Resolve(pendingPrediction(models.MarketSpread, tt.value), tt.home, tt.away)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: outcome = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestResolveSpreadAwayBacked(t *testing.T) {
	r := NewResolver()

	// a positive home line backs the away favorite laying that number
	got, err := r.Resolve(pendingPrediction(models.MarketSpread, "+3.5"), 3, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got != models.OutcomeWin {
		t.Errorf("away laying 3.5 winning by 4: outcome = %s, want WIN", got)
	}

	got, _ = r.Resolve(pendingPrediction(models.MarketSpread, "+3.5"), 3, 6)
	if got != models.OutcomeLoss {
		t.Errorf("away laying 3.5 winning by 3: outcome = %s, want LOSS", got)
	}
}

func TestResolveMoneyline(t *testing.T) {
	r := NewResolver()

	got, err := r.Resolve(pendingPrediction(models.MarketMoneyline, "-130"), 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != models.OutcomeWin {
		t.Errorf("home backed, home wins: outcome = %s, want WIN", got)
	}

	got, _ = r.Resolve(pendingPrediction(models.MarketMoneyline, "-130"), 3, 5)
	if got != models.OutcomeLoss {
		t.Errorf("home backed, away wins: outcome = %s, want LOSS", got)
	}

	got, _ = r.Resolve(pendingPrediction(models.MarketMoneyline, "+110"), 3, 5)
	if got != models.OutcomeWin {
		t.Errorf("away backed, away wins: outcome = %s, want WIN", got)
	}

	// ties never settle a moneyline pick
	got, err = r.Resolve(pendingPrediction(models.MarketMoneyline, "-130"), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != models.OutcomePending {
		t.Errorf("tie game: outcome = %s, want PENDING", got)
	}
}

func TestResolveTotal(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		value      string
		home, away int
		want       models.Outcome
	}{
		{"OVER 8.5", 5, 3, models.OutcomeLoss},
		{"OVER 8.5", 6, 3, models.OutcomeWin},
		{"UNDER 8.5", 5, 3, models.OutcomeWin},
		{"OVER 8", 5, 3, models.OutcomePush},
		{"o8.5", 6, 3, models.OutcomeWin},
		{"u8.5", 6, 3, models.OutcomeLoss},
	}
	for _, tt := range tests {
		got, err := r.Resolve(pendingPrediction(models.MarketTotal, tt.value), tt.home, tt.away)
		if err != nil {
			t.Fatalf("%q: %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("%q at %d-%d: outcome = %s, want %s", tt.value, tt.home, tt.away, got, tt.want)
		}
	}
}

func TestResolveMalformedValueStaysPending(t *testing.T) {
	r := NewResolver()

	p := pendingPrediction(models.MarketSpread, "N/A")
	got, err := r.Resolve(p, 5, 3)
	if got != models.OutcomePending {
		t.Errorf("outcome = %s, want PENDING for unparseable value", got)
	}
	if !errors.Is(err, models.ErrMalformedValue) {
		t.Errorf("err = %v, want ErrMalformedValue", err)
	}

	// a zero spread names no backed side and cannot be graded
	pickem := pendingPrediction(models.MarketSpread, "0")
	got, err = r.Resolve(pickem, 5, 3)
	if got != models.OutcomePending {
		t.Errorf("outcome = %s, want PENDING for a zero-line spread", got)
	}
	if !errors.Is(err, models.ErrMalformedValue) {
		t.Errorf("err = %v, want ErrMalformedValue", err)
	}
}

func TestResolveIdempotentOnTerminalOutcome(t *testing.T) {
	r := NewResolver()

	p := pendingPrediction(models.MarketSpread, "-1.5")
	first, err := r.Resolve(p, 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	p.Outcome = first

	second, err := r.Resolve(p, 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("re-resolution changed outcome from %s to %s", first, second)
	}

	// even a contradictory score cannot flip a settled prediction
	third, err := r.Resolve(p, 0, 9)
	if err != nil {
		t.Fatal(err)
	}
	if third != first {
		t.Errorf("terminal outcome revisited: %s became %s", first, third)
	}
}
