package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TotalDirection is the side of a totals wager
type TotalDirection string

const (
	TotalOver  TotalDirection = "OVER"
	TotalUnder TotalDirection = "UNDER"
)

// MarketValue is the typed form of a prediction's Value string.
// Implementations round-trip through String and ParseMarketValue.
type MarketValue interface {
	Market() Market
	String() string
}

// SpreadValue is a point-spread pick. The line is always quoted from the
// home side; a negative line means the home team is backed to cover,
// a positive line means the away team is backed.
type SpreadValue struct {
	Line float64
}

func (v SpreadValue) Market() Market { return MarketSpread }

func (v SpreadValue) String() string {
	if v.Line > 0 {
		return fmt.Sprintf("+%s", trimFloat(v.Line))
	}
	return trimFloat(v.Line)
}

// BacksHome reports whether the home side is the backed side
func (v SpreadValue) BacksHome() bool { return v.Line < 0 }

// MoneylineValue is an outright-winner pick quoted in American odds.
// A negative price backs the home team, a positive price backs the away team.
type MoneylineValue struct {
	Price int
}

func (v MoneylineValue) Market() Market { return MarketMoneyline }

func (v MoneylineValue) String() string {
	if v.Price > 0 {
		return fmt.Sprintf("+%d", v.Price)
	}
	return strconv.Itoa(v.Price)
}

// BacksHome reports whether the home side is the backed side
func (v MoneylineValue) BacksHome() bool { return v.Price < 0 }

// TotalValue is an over/under pick on the combined final score
type TotalValue struct {
	Direction TotalDirection
	Line      float64
}

func (v TotalValue) Market() Market { return MarketTotal }

func (v TotalValue) String() string {
	return fmt.Sprintf("%s %s", v.Direction, trimFloat(v.Line))
}

// ParseMarketValue parses a prediction value string for the given market.
// Totals accept both "OVER 8.5" and the compact "o8.5" forms, case-insensitive.
func ParseMarketValue(market Market, raw string) (MarketValue, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty value for market %s: %w", market, ErrMalformedValue)
	}

	switch market {
	case MarketSpread:
		line, err := strconv.ParseFloat(raw, 64)
		// a zero line names no side
		if err != nil || line == 0 {
			return nil, fmt.Errorf("spread value %q: %w", raw, ErrMalformedValue)
		}
		return SpreadValue{Line: line}, nil

	case MarketMoneyline:
		price, err := strconv.Atoi(raw)
		if err != nil || price == 0 {
			return nil, fmt.Errorf("moneyline value %q: %w", raw, ErrMalformedValue)
		}
		return MoneylineValue{Price: price}, nil

	case MarketTotal:
		return parseTotalValue(raw)
	}

	return nil, fmt.Errorf("market %q: %w", market, ErrUnknownMarket)
}

func parseTotalValue(raw string) (MarketValue, error) {
	upper := strings.ToUpper(raw)

	var dir TotalDirection
	var rest string
	switch {
	case strings.HasPrefix(upper, "OVER"):
		dir, rest = TotalOver, upper[len("OVER"):]
	case strings.HasPrefix(upper, "UNDER"):
		dir, rest = TotalUnder, upper[len("UNDER"):]
	case strings.HasPrefix(upper, "O"):
		dir, rest = TotalOver, upper[1:]
	case strings.HasPrefix(upper, "U"):
		dir, rest = TotalUnder, upper[1:]
	default:
		return nil, fmt.Errorf("total value %q: %w", raw, ErrMalformedValue)
	}

	line, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil || line <= 0 {
		return nil, fmt.Errorf("total value %q: %w", raw, ErrMalformedValue)
	}
	return TotalValue{Direction: dir, Line: line}, nil
}

// trimFloat formats a float without trailing zeros, matching line quoting
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
