package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lazorwallet/internal/domain/entity"
)

// Snapshot returns a deep copy of the current wallet state.
func (s *Store) Snapshot() entity.WalletState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// PortfolioValueUSD sums amount*priceUsd across all holdings.
func (s *Store) PortfolioValueUSD() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolioValueLocked()
}

func (s *Store) portfolioValueLocked() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.state.Tokens {
		total = total.Add(t.ValueUSD())
	}
	return total
}

// TokenValueUSD returns amount*priceUsd for one symbol.
func (s *Store) TokenValueUSD(symbol string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	holding := s.state.FindToken(symbol)
	if holding == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", entity.ErrUnknownSymbol, symbol)
	}
	return holding.ValueUSD(), nil
}

// HasAssets reports whether any holding has a positive amount.
func (s *Store) HasAssets() bool {
	return s.NumNonZeroTokens() > 0
}

// NumNonZeroTokens counts holdings with a positive amount.
func (s *Store) NumNonZeroTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.state.Tokens {
		if t.Amount.GreaterThan(decimal.Zero) {
			n++
		}
	}
	return n
}

// VisibleTokens returns the holdings list, optionally filtering out
// zero-amount entries. Order is preserved.
func (s *Store) VisibleTokens(hideZero bool) []entity.TokenHolding {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := make([]entity.TokenHolding, 0, len(s.state.Tokens))
	for _, t := range s.state.Tokens {
		if hideZero && !t.Amount.GreaterThan(decimal.Zero) {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Devices returns a copy of the paired device list.
func (s *Store) Devices() []entity.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Device(nil), s.state.Devices...)
}

// Activity returns a page of the activity log, newest first. A non-positive
// size returns the whole log.
func (s *Store) Activity(page, size int) ([]entity.Activity, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.state.Activity)
	if size <= 0 {
		return append([]entity.Activity(nil), s.state.Activity...), total
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return []entity.Activity{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return append([]entity.Activity(nil), s.state.Activity[start:end]...), total
}

// Apps returns a copy of the app directory.
func (s *Store) Apps() []entity.AppCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.AppCard(nil), s.state.Apps...)
}
