package port

import (
	"context"

	"lazorwallet/internal/domain/entity"
)

// TokenQuote is the market data returned for a single token lookup.
type TokenQuote struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Icon     string  `json:"icon"`
	Decimals int     `json:"decimals"`
	USDPrice float64 `json:"usdPrice"`
}

// TokenClient fetches token metadata and prices from an external read-only
// API by symbol or mint address.
type TokenClient interface {
	SearchToken(ctx context.Context, symbolOrAddress string) (*TokenQuote, error)
}

// TokenPriceService serves cached token prices to the rest of the system.
// A miss or upstream failure yields (nil, error); callers fall back to the
// static demo price and never block the ledger on it.
type TokenPriceService interface {
	GetTokenPrice(ctx context.Context, symbol string) (*TokenQuote, error)
	RefreshHoldings(ctx context.Context, holdings []entity.TokenHolding) map[string]float64
}
