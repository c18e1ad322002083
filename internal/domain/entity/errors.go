package entity

import "errors"

// Ledger mutation errors. Unknown symbols and overdrafts are rejected with
// explicit errors rather than silently ignored.
var (
	ErrUnknownSymbol       = errors.New("unknown token symbol")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrDeviceNotFound      = errors.New("device not found")
)
