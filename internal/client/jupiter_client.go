package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"lazorwallet/internal/app/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Known mint addresses used to sharpen symbol queries.
var knownMints = map[string]string{
	"SOL":  "So11111111111111111111111111111111111111112",
	"USDC": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"USDT": "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
}

// jupiterToken mirrors one entry of the Jupiter lite search response.
type jupiterToken struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Icon     string   `json:"icon"`
	Decimals int      `json:"decimals"`
	USDPrice float64  `json:"usdPrice"`
	MCap     float64  `json:"mcap"`
	Verified bool     `json:"isVerified"`
	Tags     []string `json:"tags"`
}

// jupiterClientImpl implements port.TokenClient against the Jupiter lite
// API. Outbound calls share a rate limiter so a catalog-wide refresh cannot
// hammer the upstream.
type jupiterClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewJupiterClient creates a new token lookup client. ratePerSec limits
// outbound requests; zero or negative disables limiting.
func NewJupiterClient(baseURL string, timeout time.Duration, ratePerSec float64, burst int, logger *zap.Logger) port.TokenClient {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSec > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	return &jupiterClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		limiter: limiter,
		logger:  logger.Named("JupiterClient"),
	}
}

// SearchToken looks up token metadata and price by symbol or mint address.
// Returns (nil, nil) when the upstream has no match.
func (c *jupiterClientImpl) SearchToken(ctx context.Context, symbolOrAddress string) (*port.TokenQuote, error) {
	if symbolOrAddress == "" {
		return nil, fmt.Errorf("symbolOrAddress cannot be empty")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	query := symbolOrAddress
	if mint, ok := knownMints[strings.ToUpper(symbolOrAddress)]; ok {
		query = mint
	}
	requestURL := fmt.Sprintf("%s/tokens/v2/search?query=%s", c.baseURL, url.QueryEscape(query))

	c.logger.Debug("Requesting token data from Jupiter", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to Jupiter", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to Jupiter (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Jupiter API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("jupiter API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var results []jupiterToken
	if err := json.Unmarshal(rawBody, &results); err != nil {
		c.logger.Error("Failed to unmarshal Jupiter response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal Jupiter response from %s: %w", requestURL, err)
	}
	if len(results) == 0 {
		c.logger.Warn("No token data found on Jupiter", zap.String("query", symbolOrAddress))
		return nil, nil
	}

	// First result is the closest match.
	first := results[0]
	return &port.TokenQuote{
		ID:       first.ID,
		Name:     first.Name,
		Symbol:   first.Symbol,
		Icon:     first.Icon,
		Decimals: first.Decimals,
		USDPrice: first.USDPrice,
	}, nil
}
