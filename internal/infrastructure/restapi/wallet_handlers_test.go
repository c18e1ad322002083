package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lazorwallet/internal/app/port"
	"lazorwallet/internal/config"
	"lazorwallet/internal/demoseed"
	"lazorwallet/internal/domain/entity"
	"lazorwallet/internal/ledger"
)

var anchor = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakePriceService struct {
	quotes map[string]*port.TokenQuote
}

func (f *fakePriceService) GetTokenPrice(_ context.Context, symbol string) (*port.TokenQuote, error) {
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return nil, errors.New("lookup failed")
}

func (f *fakePriceService) RefreshHoldings(_ context.Context, _ []entity.TokenHolding) map[string]float64 {
	return nil
}

func setup(t *testing.T, demoEnabled bool) (*gin.Engine, *ledger.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Demo.Enabled = demoEnabled

	initial := demoseed.InitialState(demoEnabled, demoseed.Options{Now: anchor})
	store := ledger.New(initial, ledger.Config{SwapFeeRate: cfg.Ledger.SwapFeeRate}, nil, zap.NewNop())

	prices := &fakePriceService{quotes: map[string]*port.TokenQuote{
		"SOL": {Symbol: "SOL", USDPrice: 190.0},
	}}

	router := gin.New()
	RegisterRoutes(router, NewWalletHandler(store, prices, cfg, zap.NewNop()))
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestOnrampEndpoint(t *testing.T) {
	router, store := setup(t, true)

	beforeSnap := store.Snapshot()
	before := beforeSnap.FindToken("USDC").Amount
	w := doJSON(t, router, http.MethodPost, "/api/v1/onramp", gin.H{
		"amount": 50, "fiat": "USD", "token": "USDC",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["orderId"] == "" {
		t.Error("orderId not generated")
	}
	afterSnap := store.Snapshot()
	after := afterSnap.FindToken("USDC").Amount
	if !after.Sub(before).Equal(dec("50")) {
		t.Errorf("credit = %s, want 50", after.Sub(before))
	}
}

func TestOnrampValidation(t *testing.T) {
	router, _ := setup(t, true)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"below min", gin.H{"amount": 19, "fiat": "USD", "token": "USDC"}, http.StatusBadRequest},
		{"above max", gin.H{"amount": 501, "fiat": "USD", "token": "USDC"}, http.StatusBadRequest},
		{"bad fiat", gin.H{"amount": 50, "fiat": "EUR", "token": "USDC"}, http.StatusBadRequest},
		{"unknown token", gin.H{"amount": 50, "fiat": "USD", "token": "DOGE"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doJSON(t, router, http.MethodPost, "/api/v1/onramp", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestSwapAndQuoteAgree(t *testing.T) {
	router, store := setup(t, true)

	w := doJSON(t, router, http.MethodGet, "/api/v1/swap/quote?from=SOL&to=USDC&amount=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("quote status = %d body = %s", w.Code, w.Body.String())
	}
	quote := decode(t, w)["quote"].(map[string]any)

	beforeSnap := store.Snapshot()
	before := beforeSnap.FindToken("USDC").Amount
	w = doJSON(t, router, http.MethodPost, "/api/v1/swap", gin.H{
		"fromToken": "SOL", "toToken": "USDC", "amount": 1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("swap status = %d body = %s", w.Code, w.Body.String())
	}
	afterSnap := store.Snapshot()
	credited := afterSnap.FindToken("USDC").Amount.Sub(before)
	if credited.String() != quote["received"].(string) {
		t.Errorf("applied %s != quoted %v", credited, quote["received"])
	}
}

func TestSendEndpointValidation(t *testing.T) {
	router, _ := setup(t, true)

	w := doJSON(t, router, http.MethodPost, "/api/v1/send", gin.H{
		"token": "USDC", "amount": 10, "recipient": "not-an-address!",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid address status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/send", gin.H{
		"token": "USDC", "amount": 999999,
		"recipient": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("overdraft status = %d, want 409 (%s)", w.Code, w.Body.String())
	}
}

func TestDeviceEndpoints(t *testing.T) {
	router, store := setup(t, true)

	w := doJSON(t, router, http.MethodPost, "/api/v1/devices", gin.H{
		"name": "Pixel 8 • Android", "platform": "Android", "location": "Hanoi",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d body = %s", w.Code, w.Body.String())
	}
	device := decode(t, w)["device"].(map[string]any)
	id := device["id"].(string)
	if id == "" {
		t.Fatal("no device id assigned")
	}

	if w := doJSON(t, router, http.MethodPost, "/api/v1/devices", gin.H{
		"name": "toaster", "platform": "Tizen",
	}); w.Code != http.StatusBadRequest {
		t.Errorf("bad platform status = %d", w.Code)
	}

	before := len(store.Devices())
	if w := doJSON(t, router, http.MethodDelete, "/api/v1/devices/"+id, nil); w.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d", w.Code)
	}
	if len(store.Devices()) != before-1 {
		t.Error("device not removed")
	}
	if w := doJSON(t, router, http.MethodDelete, "/api/v1/devices/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("double remove status = %d, want 404", w.Code)
	}
}

func TestAppsFilterAndPaginate(t *testing.T) {
	router, _ := setup(t, true)

	w := doJSON(t, router, http.MethodGet, "/api/v1/apps?category=DeFi&size=3&page=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := decode(t, w)
	apps := out["apps"].([]any)
	if len(apps) != 3 {
		t.Errorf("page size = %d, want 3", len(apps))
	}
	for _, a := range apps {
		if a.(map[string]any)["category"] != "DeFi" {
			t.Errorf("category filter leaked: %v", a)
		}
	}
}

func TestOnboardingEndpoints(t *testing.T) {
	router, store := setup(t, false)

	w := doJSON(t, router, http.MethodPost, "/api/v1/passkey", nil)
	out := decode(t, w)
	if out["created"] != true || out["stage"] != string(entity.StagePasskeyOnly) {
		t.Fatalf("passkey response = %v", out)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/wallet", nil)
	out = decode(t, w)
	if out["created"] != true || out["pubkey"] == "" {
		t.Fatalf("wallet response = %v", out)
	}
	if store.Snapshot().Stage() != entity.StageReady {
		t.Error("store not in Ready stage")
	}

	// Idempotent second call.
	w = doJSON(t, router, http.MethodPost, "/api/v1/wallet", nil)
	if out = decode(t, w); out["created"] != false {
		t.Error("second wallet creation should be a no-op")
	}
}

func TestPaymentSuccessCallback(t *testing.T) {
	router, store := setup(t, true)

	// Missing params rejected.
	w := doJSON(t, router, http.MethodGet, "/callback/success?orderId=ord_1&amount=50", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing params status = %d", w.Code)
	}

	beforeSnap := store.Snapshot()
	before := beforeSnap.FindToken("USDC").Amount
	w = doJSON(t, router, http.MethodGet, "/callback/success?orderId=ord_1&amount=50&token=USDC&currency=USD", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["processingFee"] != "1.45" {
		t.Errorf("processingFee = %v, want 1.45", out["processingFee"])
	}
	if out["totalCost"] != "51.45" {
		t.Errorf("totalCost = %v", out["totalCost"])
	}
	afterSnap := store.Snapshot()
	after := afterSnap.FindToken("USDC").Amount
	if !after.Sub(before).Equal(dec("50")) {
		t.Errorf("credit = %s", after.Sub(before))
	}
}

func TestPaymentCallbackCreatesWallet(t *testing.T) {
	router, store := setup(t, true)
	// Start over with onboarding unfinished.
	fresh := demoseed.InitialState(true, demoseed.Options{Now: anchor})
	fresh.HasPasskey = false
	fresh.HasWallet = false
	fresh.Pubkey = ""
	store.Replace(fresh)

	w := doJSON(t, router, http.MethodGet, "/callback/success?orderId=ord_2&amount=50&token=USDC&currency=USD", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["walletCreated"] != true {
		t.Error("wallet should have been created implicitly")
	}
	if store.Snapshot().Stage() != entity.StageReady {
		t.Error("store should be Ready after callback")
	}
}

func TestPriceEndpointFallback(t *testing.T) {
	router, _ := setup(t, true)

	w := doJSON(t, router, http.MethodGet, "/api/v1/price/SOL", nil)
	out := decode(t, w)
	if out["quote"] == nil {
		t.Error("expected a quote for SOL")
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/price/BONK", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("failed lookup must still be 200, got %d", w.Code)
	}
	if out = decode(t, w); out["quote"] != nil {
		t.Error("failed lookup should yield a null quote")
	}
}

func TestReseedAndReset(t *testing.T) {
	router, store := setup(t, true)

	if _, err := store.Deposit("USDC", dec("5")); err != nil {
		t.Fatal(err)
	}
	if w := doJSON(t, router, http.MethodPost, "/api/v1/demo/reset", nil); w.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", w.Code)
	}
	if got := len(store.Snapshot().Activity); got != 40 {
		t.Errorf("activity after reset = %d, want the seeded 40", got)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/demo/reseed", gin.H{"minimal": true})
	if w.Code != http.StatusOK {
		t.Fatalf("reseed status = %d", w.Code)
	}
	if got := len(store.Snapshot().Tokens); got != 4 {
		t.Errorf("tokens after minimal reseed = %d, want 4", got)
	}
}

func TestPortfolioEndpoint(t *testing.T) {
	router, _ := setup(t, true)

	w := doJSON(t, router, http.MethodGet, "/api/v1/portfolio?hideZero=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := decode(t, w)
	if out["hasAssets"] != true {
		t.Error("hasAssets = false for the demo catalog")
	}
	if out["totalValueDisplay"] == "" {
		t.Error("missing display value")
	}
}
