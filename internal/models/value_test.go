package models

import (
	"errors"
	"testing"
)

func TestParseSpreadValue(t *testing.T) {
	tests := []struct {
		raw       string
		line      float64
		backsHome bool
	}{
		{"-7.5", -7.5, true},
		{"+3.5", 3.5, false},
		{"3", 3, false},
		{"-0.5", -0.5, true},
	}

	for _, tt := range tests {
		v, err := ParseMarketValue(MarketSpread, tt.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.raw, err)
		}
		sv, ok := v.(SpreadValue)
		if !ok {
			t.Fatalf("parse %q: expected SpreadValue, got %T", tt.raw, v)
		}
		if sv.Line != tt.line {
			t.Errorf("parse %q: line = %v, want %v", tt.raw, sv.Line, tt.line)
		}
		if sv.BacksHome() != tt.backsHome {
			t.Errorf("parse %q: BacksHome = %v, want %v", tt.raw, sv.BacksHome(), tt.backsHome)
		}
	}
}

func TestParseMoneylineValue(t *testing.T) {
	v, err := ParseMarketValue(MarketMoneyline, "-150")
	if err != nil {
		t.Fatal(err)
	}
	mv := v.(MoneylineValue)
	if mv.Price != -150 || !mv.BacksHome() {
		t.Errorf("got %+v, want price -150 backing home", mv)
	}

	v, err = ParseMarketValue(MarketMoneyline, "+130")
	if err != nil {
		t.Fatal(err)
	}
	mv = v.(MoneylineValue)
	if mv.Price != 130 || mv.BacksHome() {
		t.Errorf("got %+v, want price 130 backing away", mv)
	}
}

func TestParseTotalValueForms(t *testing.T) {
	tests := []struct {
		raw  string
		dir  TotalDirection
		line float64
	}{
		{"OVER 8.5", TotalOver, 8.5},
		{"UNDER 8.5", TotalUnder, 8.5},
		{"o8.5", TotalOver, 8.5},
		{"u212.5", TotalUnder, 212.5},
		{"over 9", TotalOver, 9},
		{"U 7.5", TotalUnder, 7.5},
	}

	for _, tt := range tests {
		v, err := ParseMarketValue(MarketTotal, tt.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.raw, err)
		}
		tv := v.(TotalValue)
		if tv.Direction != tt.dir || tv.Line != tt.line {
			t.Errorf("parse %q: got %v %v, want %v %v", tt.raw, tv.Direction, tv.Line, tt.dir, tt.line)
		}
	}
}

func TestParseMalformedValues(t *testing.T) {
	cases := []struct {
		market Market
		raw    string
	}{
		{MarketSpread, "abc"},
		{MarketSpread, ""},
		{MarketSpread, "0"},
		{MarketSpread, "+0"},
		{MarketMoneyline, "1.5x"},
		{MarketMoneyline, "0"},
		{MarketTotal, "sideways 8.5"},
		{MarketTotal, "o"},
		{MarketTotal, "OVER -3"},
	}

	for _, c := range cases {
		_, err := ParseMarketValue(c.market, c.raw)
		if !errors.Is(err, ErrMalformedValue) {
			t.Errorf("parse %s %q: err = %v, want ErrMalformedValue", c.market, c.raw, err)
		}
	}

	if _, err := ParseMarketValue(Market("PROP"), "x"); !errors.Is(err, ErrUnknownMarket) {
		t.Errorf("unknown market: err = %v, want ErrUnknownMarket", err)
	}
}

func TestValueStringRoundTrip(t *testing.T) {
	values := []MarketValue{
		SpreadValue{Line: -7.5},
		SpreadValue{Line: 3.5},
		MoneylineValue{Price: -150},
		MoneylineValue{Price: 130},
		TotalValue{Direction: TotalOver, Line: 8.5},
		TotalValue{Direction: TotalUnder, Line: 212.5},
	}

	for _, want := range values {
		got, err := ParseMarketValue(want.Market(), want.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", want.String(), err)
		}
		if got != want {
			t.Errorf("round trip %q: got %#v, want %#v", want.String(), got, want)
		}
	}
}
