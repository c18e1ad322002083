package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"lazorwallet/internal/app/port"
	"lazorwallet/internal/domain/entity"
)

type fakeClient struct {
	calls  atomic.Int64
	quotes map[string]*port.TokenQuote
	err    error
}

func (f *fakeClient) SearchToken(_ context.Context, symbolOrAddress string) (*port.TokenQuote, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes[symbolOrAddress], nil
}

func TestGetTokenPriceCaches(t *testing.T) {
	client := &fakeClient{quotes: map[string]*port.TokenQuote{
		"SOL": {Symbol: "SOL", USDPrice: 182.1},
	}}
	svc := NewTokenPriceService(zap.NewNop(), client, time.Minute, time.Second)

	first, err := svc.GetTokenPrice(context.Background(), "SOL")
	if err != nil {
		t.Fatalf("GetTokenPrice: %v", err)
	}
	if first.USDPrice != 182.1 {
		t.Errorf("price = %v", first.USDPrice)
	}

	if _, err := svc.GetTokenPrice(context.Background(), "SOL"); err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	// Keyed by uppercased symbol.
	if _, err := svc.GetTokenPrice(context.Background(), "sol"); err != nil {
		t.Fatalf("case-insensitive lookup: %v", err)
	}

	if got := client.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestGetTokenPriceUpstreamError(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	svc := NewTokenPriceService(zap.NewNop(), client, time.Minute, time.Second)

	quote, err := svc.GetTokenPrice(context.Background(), "SOL")
	if err == nil || quote != nil {
		t.Fatalf("expected (nil, error), got (%v, %v)", quote, err)
	}
}

func TestGetTokenPriceNoMatch(t *testing.T) {
	client := &fakeClient{quotes: map[string]*port.TokenQuote{}}
	svc := NewTokenPriceService(zap.NewNop(), client, time.Minute, time.Second)

	if _, err := svc.GetTokenPrice(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected an error for an unknown token")
	}
}

func TestRefreshHoldingsDegradesPerSymbol(t *testing.T) {
	client := &fakeClient{quotes: map[string]*port.TokenQuote{
		"SOL":  {Symbol: "SOL", USDPrice: 190.0},
		"USDC": {Symbol: "USDC", USDPrice: 1.0},
		// BONK missing: refresh must skip it, not fail.
	}}
	svc := NewTokenPriceService(zap.NewNop(), client, time.Minute, time.Second)

	holdings := []entity.TokenHolding{
		{Symbol: "SOL"}, {Symbol: "USDC"}, {Symbol: "BONK"},
	}
	prices := svc.RefreshHoldings(context.Background(), holdings)

	if len(prices) != 2 {
		t.Fatalf("resolved = %d, want 2 (%v)", len(prices), prices)
	}
	if prices["SOL"] != 190.0 || prices["USDC"] != 1.0 {
		t.Errorf("prices = %v", prices)
	}
	if _, ok := prices["BONK"]; ok {
		t.Error("BONK should be absent")
	}
}
