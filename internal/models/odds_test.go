package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestImpliedProbability(t *testing.T) {
	cases := []struct {
		price int
		want  string
	}{
		{-150, "0.6"},   // 150/250
		{150, "0.4"},    // 100/250
		{-110, "0.5238"},
		{100, "0.5"},
	}

	for _, c := range cases {
		got := ImpliedProbability(c.price)
		want, _ := decimal.NewFromString(c.want)
		if got.Sub(want).Abs().GreaterThan(decimal.NewFromFloat(0.0001)) {
			t.Errorf("ImpliedProbability(%d) = %s, want ~%s", c.price, got, want)
		}
	}
}

func TestVig(t *testing.T) {
	// a standard -110/-110 pair carries roughly 4.8% margin
	vig := Vig(-110, -110)
	if v, _ := vig.Float64(); v < 0.045 || v > 0.05 {
		t.Errorf("Vig(-110, -110) = %s, want ~0.0476", vig)
	}

	// matched fair prices carry no margin
	if v := Vig(-150, 150); !v.IsZero() {
		t.Errorf("Vig(-150, +150) = %s, want 0", v)
	}

	// prices implying under 100% combined probability are an arbitrage pair
	if v := Vig(120, 120); !v.IsNegative() {
		t.Errorf("Vig(+120, +120) = %s, want negative", v)
	}
}
