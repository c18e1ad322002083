package entity

import "github.com/shopspring/decimal"

// Fiat is a supported display currency.
type Fiat string

const (
	FiatUSD Fiat = "USD"
	FiatVND Fiat = "VND"
)

// Valid reports whether f is one of the supported fiat currencies.
func (f Fiat) Valid() bool {
	return f == FiatUSD || f == FiatVND
}

// TokenHolding represents the balance of one fungible asset. PriceUSD and
// Change24hPct are display-only market fields refreshed from the price
// service or left at their seeded values. At most one holding exists per
// symbol; a spent-down holding stays in the list with a zero amount.
type TokenHolding struct {
	Symbol       string          `json:"symbol"`
	Amount       decimal.Decimal `json:"amount"`
	PriceUSD     float64         `json:"priceUsd"`
	Change24hPct float64         `json:"change24hPct"`
	Mint         string          `json:"mint"`
	TotalSupply  float64         `json:"totalSupply,omitempty"`
}

// ValueUSD returns amount * priceUsd for display purposes.
func (t TokenHolding) ValueUSD() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromFloat(t.PriceUSD))
}
