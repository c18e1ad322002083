package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"lazorwallet/internal/app/port"
	"lazorwallet/internal/domain/entity"
	"lazorwallet/pkg/metrics"
)

const refreshConcurrency = 4

// tokenPriceServiceImpl implements port.TokenPriceService. Lookups are
// cached for a fixed TTL keyed by uppercased symbol; concurrent lookups of
// the same symbol are collapsed through singleflight. Failures surface as
// (nil, error) so callers fall back to the static demo price.
type tokenPriceServiceImpl struct {
	logger  *zap.Logger
	client  port.TokenClient
	cache   *cache.Cache
	group   singleflight.Group
	timeout time.Duration
}

// NewTokenPriceService creates a new instance of TokenPriceService.
func NewTokenPriceService(logger *zap.Logger, client port.TokenClient, cacheTTL, requestTimeout time.Duration) port.TokenPriceService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &tokenPriceServiceImpl{
		logger:  logger.Named("TokenPriceService"),
		client:  client,
		cache:   cache.New(cacheTTL, 10*time.Minute),
		timeout: requestTimeout,
	}
}

// GetTokenPrice returns the cached quote for a symbol, fetching on a miss.
func (s *tokenPriceServiceImpl) GetTokenPrice(ctx context.Context, symbol string) (*port.TokenQuote, error) {
	key := strings.ToUpper(symbol)
	if cached, found := s.cache.Get(key); found {
		if quote, ok := cached.(*port.TokenQuote); ok {
			metrics.PriceLookupsTotal.WithLabelValues("hit").Inc()
			return quote, nil
		}
		s.logger.Warn("Cached value has unexpected type", zap.String("key", key))
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		fetchCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		quote, err := s.client.SearchToken(fetchCtx, symbol)
		if err != nil {
			return nil, err
		}
		if quote == nil {
			return nil, fmt.Errorf("no token data for %s", symbol)
		}
		s.cache.Set(key, quote, cache.DefaultExpiration)
		return quote, nil
	})
	if err != nil {
		metrics.PriceLookupsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("Token price lookup failed, caller should fall back to demo price",
			zap.String("symbol", symbol),
			zap.Error(err))
		return nil, err
	}

	metrics.PriceLookupsTotal.WithLabelValues("miss").Inc()
	return result.(*port.TokenQuote), nil
}

// RefreshHoldings fetches prices for every holding concurrently and returns
// the symbol->price map for the lookups that succeeded. Failed symbols are
// simply absent; the ledger keeps its static prices for them.
func (s *tokenPriceServiceImpl) RefreshHoldings(ctx context.Context, holdings []entity.TokenHolding) map[string]float64 {
	var mu sync.Mutex
	prices := make(map[string]float64, len(holdings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, holding := range holdings {
		symbol := holding.Symbol
		g.Go(func() error {
			quote, err := s.GetTokenPrice(gctx, symbol)
			if err != nil || quote.USDPrice <= 0 {
				// Degrade per symbol, never fail the whole refresh.
				return nil
			}
			mu.Lock()
			prices[symbol] = quote.USDPrice
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Refreshed holding prices",
		zap.Int("requested", len(holdings)),
		zap.Int("resolved", len(prices)))
	return prices
}
