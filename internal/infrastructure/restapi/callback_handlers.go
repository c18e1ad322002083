package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lazorwallet/internal/domain/entity"
	"lazorwallet/internal/pkg/format"
)

// paymentSuccessResponse is the simulated order confirmation returned to
// the deep-link caller.
type paymentSuccessResponse struct {
	OrderID          string          `json:"orderId"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         entity.Fiat     `json:"currency"`
	Token            string          `json:"token"`
	TokenReceived    decimal.Decimal `json:"tokenReceived"`
	ProcessingFee    decimal.Decimal `json:"processingFee"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TotalCostDisplay string          `json:"totalCostDisplay"`
	WalletCreated    bool            `json:"walletCreated"`
	Pubkey           string          `json:"pubkey"`
}

// PaymentSuccessCallback handles the simulated payment provider deep link.
// All four query parameters must be present; the purchase is credited to
// the ledger and, when the user had no wallet yet, one is created first.
func (h *WalletHandler) PaymentSuccessCallback(c *gin.Context) {
	orderID := c.Query("orderId")
	amountStr := c.Query("amount")
	token := c.Query("token")
	currency := entity.Fiat(c.Query("currency"))

	if orderID == "" || amountStr == "" || token == "" || currency == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "orderId, amount, token and currency are required"})
		return
	}
	if !currency.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported currency " + string(currency)})
		return
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid amount"})
		return
	}

	// A purchase completing before onboarding finished implies a wallet.
	walletCreated := false
	state := h.store.Snapshot()
	if !state.HasWallet {
		h.store.CreatePasskey()
		_, walletCreated = h.store.CreateWallet()
		h.logger.Info("Wallet implicitly created by payment callback", zap.String("orderId", orderID))
	}

	// The purchased quantity is the fiat amount converted to USD terms
	// through the fixed demo rate.
	received := amount
	if currency == entity.FiatVND {
		rate := decimal.NewFromFloat(h.store.Snapshot().RateUSDToVND)
		if rate.IsPositive() {
			received = amount.Div(rate).Round(6)
		}
	}

	if _, err := h.store.Onramp(received, currency, token, orderID); err != nil {
		h.ledgerError(c, err)
		return
	}

	fee := amount.Mul(decimal.NewFromFloat(h.cfg.Onramp.ProcessingFeeRate)).Round(2)
	total := amount.Add(fee)
	totalF, _ := total.Float64()

	c.JSON(http.StatusOK, paymentSuccessResponse{
		OrderID:          orderID,
		Amount:           amount,
		Currency:         currency,
		Token:            token,
		TokenReceived:    received,
		ProcessingFee:    fee,
		TotalCost:        total,
		TotalCostDisplay: format.Currency(totalF, currency),
		WalletCreated:    walletCreated,
		Pubkey:           h.store.Snapshot().Pubkey,
	})
}
