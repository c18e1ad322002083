package restapi

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lazorwallet/internal/app/port"
	"lazorwallet/internal/config"
	"lazorwallet/internal/demoseed"
	"lazorwallet/internal/domain/entity"
	"lazorwallet/internal/ledger"
	"lazorwallet/internal/pkg/format"
)

// WalletHandler serves the wallet API on top of the ledger store.
type WalletHandler struct {
	store  *ledger.Store
	prices port.TokenPriceService
	cfg    *config.Config
	logger *zap.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(store *ledger.Store, prices port.TokenPriceService, cfg *config.Config, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		store:  store,
		prices: prices,
		cfg:    cfg,
		logger: logger.Named("WalletHandler"),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// ledgerError maps store errors onto HTTP statuses.
func (h *WalletHandler) ledgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrUnknownSymbol), errors.Is(err, entity.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInsufficientBalance):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}

// GetWallet returns the wallet flags and preferences.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	state := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"hasPasskey":   state.HasPasskey,
		"hasWallet":    state.HasWallet,
		"stage":        state.Stage(),
		"pubkey":       state.Pubkey,
		"fiat":         state.Fiat,
		"rateUsdToVnd": state.RateUSDToVND,
	})
}

// GetPortfolio returns the derived portfolio view.
func (h *WalletHandler) GetPortfolio(c *gin.Context) {
	hideZero := c.Query("hideZero") == "true"
	tokens := h.store.VisibleTokens(hideZero)

	type tokenValue struct {
		entity.TokenHolding
		ValueUSD decimal.Decimal `json:"valueUsd"`
	}
	values := make([]tokenValue, 0, len(tokens))
	for _, t := range tokens {
		values = append(values, tokenValue{TokenHolding: t, ValueUSD: t.ValueUSD()})
	}

	total := h.store.PortfolioValueUSD()
	totalF, _ := total.Float64()
	state := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"totalValueUsd":     total,
		"totalValueDisplay": format.Currency(totalF, state.Fiat),
		"hasAssets":         h.store.HasAssets(),
		"numNonZeroTokens":  h.store.NumNonZeroTokens(),
		"tokens":            values,
	})
}

// GetTokens returns the visible holdings.
func (h *WalletHandler) GetTokens(c *gin.Context) {
	hideZero := c.Query("hideZero") == "true"
	c.JSON(http.StatusOK, gin.H{"tokens": h.store.VisibleTokens(hideZero)})
}

// GetActivity returns a page of the activity log, newest first.
func (h *WalletHandler) GetActivity(c *gin.Context) {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 20)
	items, total := h.store.Activity(page, size)
	c.JSON(http.StatusOK, gin.H{
		"activity": items,
		"page":     page,
		"size":     size,
		"total":    total,
	})
}

// GetApps filters, sorts and paginates the app directory.
func (h *WalletHandler) GetApps(c *gin.Context) {
	apps := h.store.Apps()

	if category := c.Query("category"); category != "" {
		filtered := apps[:0]
		for _, a := range apps {
			if string(a.Category) == category {
				filtered = append(filtered, a)
			}
		}
		apps = filtered
	}
	if tag := c.Query("tag"); tag != "" {
		filtered := apps[:0]
		for _, a := range apps {
			for _, t := range a.Tags {
				if t == tag {
					filtered = append(filtered, a)
					break
				}
			}
		}
		apps = filtered
	}

	switch c.DefaultQuery("sort", "name") {
	case "rating":
		sort.SliceStable(apps, func(i, j int) bool { return apps[i].Rating > apps[j].Rating })
	case "updated":
		sort.SliceStable(apps, func(i, j int) bool { return apps[i].UpdatedAt > apps[j].UpdatedAt })
	default:
		sort.SliceStable(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	}

	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 12)
	total := len(apps)
	start := (page - 1) * size
	if start < 0 || start >= total {
		apps = []entity.AppCard{}
	} else {
		end := start + size
		if end > total {
			end = total
		}
		apps = apps[start:end]
	}

	c.JSON(http.StatusOK, gin.H{
		"apps":  apps,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

// GetDevices lists paired devices.
func (h *WalletHandler) GetDevices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"devices": h.store.Devices()})
}

type addDeviceRequest struct {
	Name     string `json:"name" binding:"required"`
	Platform string `json:"platform" binding:"required"`
	Location string `json:"location"`
}

// AddDevice pairs a new device.
func (h *WalletHandler) AddDevice(c *gin.Context) {
	var req addDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	switch entity.DevicePlatform(req.Platform) {
	case entity.PlatformIOS, entity.PlatformAndroid, entity.PlatformWeb:
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported platform " + req.Platform})
		return
	}
	device := h.store.AddDevice(entity.Device{
		Name:       req.Name,
		Platform:   entity.DevicePlatform(req.Platform),
		LastActive: "just now",
		Location:   req.Location,
	})
	c.JSON(http.StatusCreated, gin.H{"device": device})
}

// RemoveDevice unpairs a device by id.
func (h *WalletHandler) RemoveDevice(c *gin.Context) {
	if err := h.store.RemoveDevice(c.Param("id")); err != nil {
		h.ledgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type onrampRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Fiat    entity.Fiat     `json:"fiat"`
	Token   string          `json:"token" binding:"required"`
	OrderID string          `json:"orderId"`
}

// Onramp simulates a fiat purchase of an existing token.
func (h *WalletHandler) Onramp(c *gin.Context) {
	var req onrampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !req.Fiat.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported fiat " + string(req.Fiat)})
		return
	}
	amountF, _ := req.Amount.Float64()
	if !format.ValidateAmount(amountF, h.cfg.Onramp.MinAmount, h.cfg.Onramp.MaxAmount) {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: "amount out of range [" +
				strconv.FormatFloat(h.cfg.Onramp.MinAmount, 'f', -1, 64) + ", " +
				strconv.FormatFloat(h.cfg.Onramp.MaxAmount, 'f', -1, 64) + "]",
		})
		return
	}
	orderID := req.OrderID
	if orderID == "" {
		orderID = format.OrderID()
	}

	act, err := h.store.Onramp(req.Amount, req.Fiat, req.Token, orderID)
	if err != nil {
		h.ledgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": act, "orderId": orderID})
}

type swapRequest struct {
	FromToken string          `json:"fromToken" binding:"required"`
	ToToken   string          `json:"toToken" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// Swap simulates a token swap through the authoritative fee model.
func (h *WalletHandler) Swap(c *gin.Context) {
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	act, err := h.store.Swap(req.FromToken, req.ToToken, req.Amount)
	if err != nil {
		h.ledgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": act})
}

// SwapQuote previews a swap without mutating the ledger. The quoted fee is
// the same one Swap applies.
func (h *WalletHandler) SwapQuote(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid amount"})
		return
	}
	quote, err := h.store.QuoteSwap(c.Query("from"), c.Query("to"), amount)
	if err != nil {
		h.ledgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

type sendRequest struct {
	Token     string          `json:"token" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Recipient string          `json:"recipient" binding:"required"`
}

// Send simulates sending tokens to an address.
func (h *WalletHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !format.IsValidSolanaAddress(req.Recipient) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid recipient address"})
		return
	}
	act, err := h.store.Send(req.Token, req.Amount, req.Recipient)
	if err != nil {
		h.ledgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": act})
}

type depositRequest struct {
	Token  string          `json:"token" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// Deposit simulates an incoming transfer.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	act, err := h.store.Deposit(req.Token, req.Amount)
	if err != nil {
		h.ledgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": act})
}

// CreatePasskey simulates the passkey ceremony: a fixed artificial delay,
// then the flag flip. No real WebAuthn is performed.
func (h *WalletHandler) CreatePasskey(c *gin.Context) {
	h.simulateDelay()
	created := h.store.CreatePasskey()
	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"stage":   h.store.Snapshot().Stage(),
	})
}

// CreateWallet simulates wallet creation and assigns a fake pubkey.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	h.simulateDelay()
	pubkey, created := h.store.CreateWallet()
	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"pubkey":  pubkey,
		"stage":   h.store.Snapshot().Stage(),
	})
}

type fiatRequest struct {
	Fiat entity.Fiat `json:"fiat" binding:"required"`
}

// SetFiat switches the display currency preference.
func (h *WalletHandler) SetFiat(c *gin.Context) {
	var req fiatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.store.SetFiat(req.Fiat); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fiat": req.Fiat})
}

type reseedRequest struct {
	Minimal bool   `json:"minimal"`
	Seed    string `json:"seed"`
}

// ReseedDemo regenerates the demo catalog and installs it wholesale.
func (h *WalletHandler) ReseedDemo(c *gin.Context) {
	var req reseedRequest
	_ = c.ShouldBindJSON(&req)

	seed := req.Seed
	if seed == "" {
		seed = h.cfg.Demo.Seed
	}
	state := demoseed.InitialState(true, demoseed.Options{Minimal: req.Minimal, Seed: seed})
	h.store.Replace(state)
	h.logger.Info("Demo data reseeded", zap.Bool("minimal", req.Minimal))
	c.JSON(http.StatusOK, gin.H{"tokens": len(state.Tokens), "activity": len(state.Activity)})
}

// ResetDemo restores the initial snapshot for the current demo flag.
func (h *WalletHandler) ResetDemo(c *gin.Context) {
	h.store.ResetDemoData()
	c.Status(http.StatusNoContent)
}

// GetPrice serves the cached external quote for a symbol. A lookup failure
// yields a null quote; clients fall back to the static demo price.
func (h *WalletHandler) GetPrice(c *gin.Context) {
	symbol := c.Param("symbol")
	quote, err := h.prices.GetTokenPrice(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"symbol": symbol, "quote": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "quote": quote})
}

func (h *WalletHandler) simulateDelay() {
	if h.cfg.Demo.SimulatedDelayMs > 0 {
		time.Sleep(time.Duration(h.cfg.Demo.SimulatedDelayMs) * time.Millisecond)
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
