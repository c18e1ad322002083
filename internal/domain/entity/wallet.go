package entity

// OnboardingStage is the derived onboarding state machine position:
// NoPasskey -> PasskeyOnly -> Ready.
type OnboardingStage string

const (
	StageNoPasskey   OnboardingStage = "NoPasskey"
	StagePasskeyOnly OnboardingStage = "PasskeyOnly"
	StageReady       OnboardingStage = "Ready"
)

// WalletState is the root aggregate. A single instance is owned by the
// ledger store; everything else holds transient copies at most.
type WalletState struct {
	HasPasskey   bool           `json:"hasPasskey"`
	HasWallet    bool           `json:"hasWallet"`
	Pubkey       string         `json:"pubkey,omitempty"`
	Fiat         Fiat           `json:"fiat"`
	RateUSDToVND float64        `json:"rateUsdToVnd"`
	Tokens       []TokenHolding `json:"tokens"`
	Devices      []Device       `json:"devices"`
	Apps         []AppCard      `json:"apps"`
	Activity     []Activity     `json:"activity"`
}

// Stage derives the onboarding stage from the wallet flags.
func (w WalletState) Stage() OnboardingStage {
	switch {
	case w.HasPasskey && w.HasWallet:
		return StageReady
	case w.HasPasskey:
		return StagePasskeyOnly
	default:
		return StageNoPasskey
	}
}

// FindToken returns a pointer into Tokens for the given symbol, or nil.
func (w *WalletState) FindToken(symbol string) *TokenHolding {
	for i := range w.Tokens {
		if w.Tokens[i].Symbol == symbol {
			return &w.Tokens[i]
		}
	}
	return nil
}
