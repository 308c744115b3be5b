package engine

import (
	"testing"

	"github.com/yourusername/sharp-picks/internal/models"
)

func testGameContext() GameContext {
	return GameContext{
		HomeTeamName:      "Boston Red Sox",
		AwayTeamName:      "Baltimore Orioles",
		HomeRecentWinRate: 0.5,
	}
}

func TestCalibrateNeutralRawStaysAtThreshold(t *testing.T) {
	c := NewCalibrator(DefaultCalibratorConfig())

	a := c.Calibrate(models.MarketMoneyline, 0.5, "-130", testGameContext())
	if a.Confidence != 0.5 {
		t.Errorf("calibrated = %v, want exactly 0.5 for a neutral moneyline", a.Confidence)
	}
	if a.Recommendation != RecommendationAccept {
		t.Errorf("recommendation = %s, want boundary-inclusive ACCEPT", a.Recommendation)
	}
	if g := Grade(a.Confidence, GradeProfileFine); g != "C-" {
		t.Errorf("grade at 0.5 = %s, want C-", g)
	}
}

func TestCalibrateMalformedValueCapsConfidence(t *testing.T) {
	c := NewCalibrator(DefaultCalibratorConfig())

	a := c.Calibrate(models.MarketSpread, 0.95, "N/A", testGameContext())
	if a.Confidence > 0.65 {
		t.Errorf("calibrated = %v, want cap at 0.65 for malformed value", a.Confidence)
	}
	if a.Warning == "" {
		t.Error("expected a warning for a malformed value")
	}

	// low raw confidence gets the tighter raw*0.7 cap
	a = c.Calibrate(models.MarketSpread, 0.6, "N/A", testGameContext())
	if a.Confidence > 0.6*0.7+1e-9 {
		t.Errorf("calibrated = %v, want cap at raw*0.7 = 0.42", a.Confidence)
	}
	if a.Recommendation != RecommendationReject {
		t.Errorf("recommendation = %s, want REJECT below 0.5", a.Recommendation)
	}
}

func TestCalibrateBoundsWhenAccepted(t *testing.T) {
	c := NewCalibrator(DefaultCalibratorConfig())

	raws := []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0}
	for _, raw := range raws {
		a := c.Calibrate(models.MarketSpread, raw, "-1.5", testGameContext())
		if a.Recommendation == RecommendationAccept && (a.Confidence < 0.5 || a.Confidence > 0.85) {
			t.Errorf("raw %v: accepted confidence %v outside [0.5, 0.85]", raw, a.Confidence)
		}
	}
}

func TestCalibrateMonotonicInRaw(t *testing.T) {
	c := NewCalibrator(DefaultCalibratorConfig())

	for _, market := range Markets {
		value := map[models.Market]string{
			models.MarketSpread:    "-1.5",
			models.MarketMoneyline: "-130",
			models.MarketTotal:     "OVER 8.5",
		}[market]

		prev := -1.0
		for raw := 0.0; raw <= 1.0; raw += 0.01 {
			a := c.Calibrate(market, raw, value, testGameContext())
			if a.Confidence < prev-1e-9 {
				t.Fatalf("%s: calibrated dropped from %v to %v as raw rose to %v", market, prev, a.Confidence, raw)
			}
			prev = a.Confidence
		}
	}
}

func TestCalibrateHomeAdvantageNudge(t *testing.T) {
	c := NewCalibrator(DefaultCalibratorConfig())

	cold := testGameContext()
	hot := testGameContext()
	hot.HomeRecentWinRate = 0.8

	base := c.Calibrate(models.MarketMoneyline, 0.6, "-130", cold)
	nudged := c.Calibrate(models.MarketMoneyline, 0.6, "-130", hot)
	if nudged.Confidence <= base.Confidence {
		t.Errorf("hot home team confidence %v not above baseline %v", nudged.Confidence, base.Confidence)
	}
}

func TestCalibrateTotalsVolatilityHaircut(t *testing.T) {
	c := NewCalibrator(DefaultCalibratorConfig())

	steady := testGameContext()
	steady.RecentCombinedScores = []float64{8, 8, 8, 8}
	volatile := testGameContext()
	volatile.RecentCombinedScores = []float64{2, 15, 3, 14}

	s := c.Calibrate(models.MarketTotal, 0.75, "OVER 8.5", steady)
	v := c.Calibrate(models.MarketTotal, 0.75, "OVER 8.5", volatile)
	if v.Confidence >= s.Confidence {
		t.Errorf("volatile scoring confidence %v not below steady %v", v.Confidence, s.Confidence)
	}
}

func TestCalibrateTotalsHardCap(t *testing.T) {
	c := NewCalibrator(DefaultCalibratorConfig())

	hot := testGameContext()
	hot.HomeRecentWinRate = 0.9
	hot.RecentCombinedScores = []float64{8, 8, 8, 8}

	a := c.Calibrate(models.MarketTotal, 1.0, "OVER 8.5", hot)
	if a.Confidence > 0.82 {
		t.Errorf("totals confidence = %v, want hard cap 0.82", a.Confidence)
	}
}

func TestCalibrateSanityPenalties(t *testing.T) {
	c := NewCalibrator(DefaultCalibratorConfig())
	ctx := testGameContext()

	tests := []struct {
		name   string
		market models.Market
		value  string
	}{
		{"implausible total", models.MarketTotal, "OVER 25"},
		{"huge spread", models.MarketSpread, "-21.5"},
		{"extreme moneyline", models.MarketMoneyline, "-450"},
	}
	for _, tt := range tests {
		a := c.Calibrate(tt.market, 0.75, tt.value, ctx)
		if a.Warning == "" {
			t.Errorf("%s: expected a sanity warning", tt.name)
		}
	}

	anon := ctx
	anon.HomeTeamName = ""
	a := c.Calibrate(models.MarketSpread, 0.75, "-1.5", anon)
	if a.Warning == "" {
		t.Error("missing team name: expected a warning")
	}
	full := c.Calibrate(models.MarketSpread, 0.75, "-1.5", ctx)
	if a.Confidence >= full.Confidence {
		t.Errorf("missing team confidence %v not below full-context %v", a.Confidence, full.Confidence)
	}
}
