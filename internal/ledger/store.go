// Package ledger owns the wallet state and its simulated transaction
// engine. All mutators are synchronous; a mutex serializes them so the
// single-writer assumption holds on a multi-threaded host.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lazorwallet/internal/domain/entity"
	"lazorwallet/internal/pkg/format"
	"lazorwallet/pkg/metrics"
)

// DefaultSwapFeeRate is the single authoritative swap fee. Previews quote
// through QuoteSwap so the displayed fee always matches the applied one.
const DefaultSwapFeeRate = 0.05

// Persister saves the full wallet state after every mutation.
type Persister interface {
	Persist(state entity.WalletState) error
}

// Config tunes the store.
type Config struct {
	// SwapFeeRate in [0,1); zero or negative falls back to the default.
	SwapFeeRate float64
}

// Store is the injectable wallet state container. Construct isolated
// instances with New; there is no package-global state.
type Store struct {
	mu        sync.Mutex
	state     entity.WalletState
	initial   entity.WalletState
	feeRate   decimal.Decimal
	persister Persister
	logger    *zap.Logger
	now       func() time.Time
}

// New builds a store seeded with the initial snapshot, which is also what
// ResetDemoData restores. persister may be nil (tests).
func New(initial entity.WalletState, cfg Config, persister Persister, logger *zap.Logger) *Store {
	rate := cfg.SwapFeeRate
	if rate <= 0 || rate >= 1 {
		rate = DefaultSwapFeeRate
	}
	return &Store{
		state:     cloneState(initial),
		initial:   cloneState(initial),
		feeRate:   decimal.NewFromFloat(rate),
		persister: persister,
		logger:    logger.Named("Ledger"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the store clock. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Onramp credits an existing holding with a fiat purchase. No fee is
// deducted from the balance; processing fees only ever appear in previews.
func (s *Store) Onramp(amount decimal.Decimal, fiat entity.Fiat, token, orderID string) (entity.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateAmount(amount); err != nil {
		return entity.Activity{}, s.reject(entity.KindOnramp, err)
	}
	holding := s.state.FindToken(token)
	if holding == nil {
		return entity.Activity{}, s.reject(entity.KindOnramp, fmt.Errorf("%w: %s", entity.ErrUnknownSymbol, token))
	}

	holding.Amount = holding.Amount.Add(amount)

	glyph := "$"
	if fiat == entity.FiatVND {
		glyph = "₫"
	}
	act := s.newActivity(entity.KindOnramp, amount, token,
		fmt.Sprintf("Bought %s %s with %s%s", amount, token, glyph, amount.StringFixed(2)))
	act.OrderID = orderID
	s.commit(act)
	return act, nil
}

// QuoteSwap previews a swap without mutating anything, using the same fee
// rate the mutation applies.
func (s *Store) QuoteSwap(from, to string, amount decimal.Decimal) (SwapQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quoteSwapLocked(from, to, amount)
}

// SwapQuote is the authoritative swap preview.
type SwapQuote struct {
	FromToken string          `json:"fromToken"`
	ToToken   string          `json:"toToken"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	FeeRate   float64         `json:"feeRate"`
	Received  decimal.Decimal `json:"received"`
}

func (s *Store) quoteSwapLocked(from, to string, amount decimal.Decimal) (SwapQuote, error) {
	if err := s.validateAmount(amount); err != nil {
		return SwapQuote{}, err
	}
	fromHolding := s.state.FindToken(from)
	toHolding := s.state.FindToken(to)
	if fromHolding == nil {
		return SwapQuote{}, fmt.Errorf("%w: %s", entity.ErrUnknownSymbol, from)
	}
	if toHolding == nil {
		return SwapQuote{}, fmt.Errorf("%w: %s", entity.ErrUnknownSymbol, to)
	}
	if fromHolding.Amount.LessThan(amount) {
		return SwapQuote{}, fmt.Errorf("%w: %s balance %s, need %s",
			entity.ErrInsufficientBalance, from, fromHolding.Amount, amount)
	}
	fee := amount.Mul(s.feeRate)
	rate, _ := s.feeRate.Float64()
	return SwapQuote{
		FromToken: from,
		ToToken:   to,
		Amount:    amount,
		Fee:       fee,
		FeeRate:   rate,
		Received:  amount.Sub(fee),
	}, nil
}

// Swap debits the from holding and credits the to holding minus the fee.
// Both symbols must exist and the from balance must cover the amount.
func (s *Store) Swap(from, to string, amount decimal.Decimal) (entity.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote, err := s.quoteSwapLocked(from, to, amount)
	if err != nil {
		return entity.Activity{}, s.reject(entity.KindSwap, err)
	}

	fromHolding := s.state.FindToken(from)
	toHolding := s.state.FindToken(to)
	fromHolding.Amount = fromHolding.Amount.Sub(amount)
	toHolding.Amount = toHolding.Amount.Add(quote.Received)

	act := s.newActivity(entity.KindSwap, amount, from,
		fmt.Sprintf("Swapped %s %s for %s %s", amount, from, quote.Received.StringFixed(2), to))
	s.commit(act)
	return act, nil
}

// Send debits a holding towards a recipient address. Overdrafts are
// rejected; balances never go below zero.
func (s *Store) Send(token string, amount decimal.Decimal, recipient string) (entity.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateAmount(amount); err != nil {
		return entity.Activity{}, s.reject(entity.KindSend, err)
	}
	holding := s.state.FindToken(token)
	if holding == nil {
		return entity.Activity{}, s.reject(entity.KindSend, fmt.Errorf("%w: %s", entity.ErrUnknownSymbol, token))
	}
	if holding.Amount.LessThan(amount) {
		return entity.Activity{}, s.reject(entity.KindSend, fmt.Errorf("%w: %s balance %s, need %s",
			entity.ErrInsufficientBalance, token, holding.Amount, amount))
	}

	holding.Amount = holding.Amount.Sub(amount)

	truncated := format.Address(recipient, 4, 4)
	act := s.newActivity(entity.KindSend, amount, token,
		fmt.Sprintf("Sent %s %s to %s", amount, token, truncated))
	act.Counterparty = recipient
	s.commit(act)
	return act, nil
}

// Deposit credits an existing holding.
func (s *Store) Deposit(token string, amount decimal.Decimal) (entity.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateAmount(amount); err != nil {
		return entity.Activity{}, s.reject(entity.KindDeposit, err)
	}
	holding := s.state.FindToken(token)
	if holding == nil {
		return entity.Activity{}, s.reject(entity.KindDeposit, fmt.Errorf("%w: %s", entity.ErrUnknownSymbol, token))
	}

	holding.Amount = holding.Amount.Add(amount)

	act := s.newActivity(entity.KindDeposit, amount, token,
		fmt.Sprintf("Deposited %s %s", amount, token))
	s.commit(act)
	return act, nil
}

// AddDevice appends a paired device, assigning a timestamp-based id when
// none is supplied.
func (s *Store) AddDevice(device entity.Device) entity.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	if device.ID == "" {
		device.ID = fmt.Sprintf("dev_%d", s.now().UnixMilli())
	}
	s.state.Devices = append(s.state.Devices, device)
	s.persistLocked()
	return device
}

// RemoveDevice drops the device with the given id.
func (s *Store) RemoveDevice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.state.Devices {
		if d.ID == id {
			s.state.Devices = append(s.state.Devices[:i], s.state.Devices[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", entity.ErrDeviceNotFound, id)
}

// CreatePasskey flips the passkey flag: NoPasskey -> PasskeyOnly. Calling
// it again is a data-level no-op.
func (s *Store) CreatePasskey() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.HasPasskey {
		return false
	}
	s.state.HasPasskey = true
	s.persistLocked()
	return true
}

// CreateWallet flips the wallet flag and assigns a fresh fake pubkey:
// PasskeyOnly -> Ready. Idempotent; an existing pubkey is kept.
func (s *Store) CreateWallet() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.HasWallet {
		return s.state.Pubkey, false
	}
	s.state.HasWallet = true
	if s.state.Pubkey == "" {
		s.state.Pubkey = format.PublicKey()
	}
	s.persistLocked()
	return s.state.Pubkey, true
}

// SetFiat switches the display currency.
func (s *Store) SetFiat(fiat entity.Fiat) error {
	if !fiat.Valid() {
		return fmt.Errorf("unsupported fiat %q", fiat)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Fiat = fiat
	s.persistLocked()
	return nil
}

// Replace installs a wholesale new state (demo reseed).
func (s *Store) Replace(state entity.WalletState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cloneState(state)
	s.persistLocked()
}

// ResetDemoData restores the initial snapshot the store was built with.
func (s *Store) ResetDemoData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cloneState(s.initial)
	s.persistLocked()
}

// ApplyPrices updates the display-only market fields from a refreshed
// price map keyed by symbol. Unknown symbols are ignored.
func (s *Store) ApplyPrices(prices map[string]float64) {
	if len(prices) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for i := range s.state.Tokens {
		if price, ok := prices[s.state.Tokens[i].Symbol]; ok && price > 0 {
			s.state.Tokens[i].PriceUSD = price
			updated++
		}
	}
	if updated > 0 {
		s.persistLocked()
		s.logger.Debug("Applied refreshed prices", zap.Int("updated", updated))
	}
}

func (s *Store) validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s", entity.ErrInvalidAmount, amount)
	}
	return nil
}

func (s *Store) newActivity(kind entity.ActivityKind, amount decimal.Decimal, token, summary string) entity.Activity {
	return entity.Activity{
		ID:      uuid.NewString(),
		Kind:    kind,
		TS:      s.now().Format(time.RFC3339),
		Summary: summary,
		Amount:  amount,
		Token:   token,
		Status:  entity.StatusSuccess,
	}
}

// commit prepends the activity entry and persists. Callers hold the lock.
func (s *Store) commit(act entity.Activity) {
	s.state.Activity = append([]entity.Activity{act}, s.state.Activity...)
	metrics.LedgerOpsTotal.WithLabelValues(string(act.Kind), "ok").Inc()
	s.persistLocked()
	s.logger.Info("Ledger mutation applied",
		zap.String("kind", string(act.Kind)),
		zap.String("summary", act.Summary))
}

func (s *Store) reject(kind entity.ActivityKind, err error) error {
	metrics.LedgerOpsTotal.WithLabelValues(string(kind), "rejected").Inc()
	s.logger.Warn("Ledger mutation rejected",
		zap.String("kind", string(kind)),
		zap.Error(err))
	return err
}

func (s *Store) persistLocked() {
	value, _ := s.portfolioValueLocked().Float64()
	metrics.PortfolioValueUSD.Set(value)
	if s.persister == nil {
		return
	}
	if err := s.persister.Persist(cloneState(s.state)); err != nil {
		s.logger.Error("Failed to persist wallet snapshot", zap.Error(err))
	}
}

func cloneState(state entity.WalletState) entity.WalletState {
	clone := state
	clone.Tokens = append([]entity.TokenHolding(nil), state.Tokens...)
	clone.Devices = append([]entity.Device(nil), state.Devices...)
	clone.Apps = append([]entity.AppCard(nil), state.Apps...)
	clone.Activity = append([]entity.Activity(nil), state.Activity...)
	return clone
}
