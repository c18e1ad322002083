package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the wallet API onto the router.
func RegisterRoutes(router *gin.Engine, h *WalletHandler) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/wallet", h.GetWallet)
		v1.GET("/portfolio", h.GetPortfolio)
		v1.GET("/tokens", h.GetTokens)
		v1.GET("/activity", h.GetActivity)
		v1.GET("/apps", h.GetApps)

		v1.GET("/devices", h.GetDevices)
		v1.POST("/devices", h.AddDevice)
		v1.DELETE("/devices/:id", h.RemoveDevice)

		v1.POST("/onramp", h.Onramp)
		v1.POST("/swap", h.Swap)
		v1.GET("/swap/quote", h.SwapQuote)
		v1.POST("/send", h.Send)
		v1.POST("/deposit", h.Deposit)

		v1.POST("/passkey", h.CreatePasskey)
		v1.POST("/wallet", h.CreateWallet)
		v1.PUT("/fiat", h.SetFiat)

		v1.POST("/demo/reseed", h.ReseedDemo)
		v1.POST("/demo/reset", h.ResetDemo)

		v1.GET("/price/:symbol", h.GetPrice)
	}

	// Payment deep-link callback; lives outside the versioned API.
	router.GET("/callback/success", h.PaymentSuccessCallback)

	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}
