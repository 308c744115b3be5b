package models

import (
	"github.com/shopspring/decimal"
)

// SpreadLine represents a posted point-spread market.
// HomeLine is the home team's handicap; negative means the home side is favored.
type SpreadLine struct {
	HomeLine  decimal.Decimal `json:"home_line"`
	HomePrice int             `json:"home_price"`
	AwayPrice int             `json:"away_price"`
}

// TotalLine represents a posted over/under market
type TotalLine struct {
	Line       decimal.Decimal `json:"line"`
	OverPrice  int             `json:"over_price"`
	UnderPrice int             `json:"under_price"`
}

// MoneylineLine represents a posted win-straight-up market with American prices
type MoneylineLine struct {
	HomePrice int `json:"home_price"`
	AwayPrice int `json:"away_price"`
}

// MarketLines bundles the posted lines for one event
type MarketLines struct {
	Spread    *SpreadLine    `json:"spread,omitempty"`
	Total     *TotalLine     `json:"total,omitempty"`
	Moneyline *MoneylineLine `json:"moneyline,omitempty"`
}

var decimalHundred = decimal.NewFromInt(100)

// ImpliedProbability converts an American-odds price to its implied win probability
func ImpliedProbability(price int) decimal.Decimal {
	p := decimal.NewFromInt(int64(price)).Abs()
	if price < 0 {
		return p.Div(p.Add(decimalHundred))
	}
	return decimalHundred.Div(p.Add(decimalHundred))
}

// Vig returns the bookmaker margin baked into a two-sided price pair
func Vig(priceA, priceB int) decimal.Decimal {
	return ImpliedProbability(priceA).Add(ImpliedProbability(priceB)).Sub(decimal.NewFromInt(1))
}
