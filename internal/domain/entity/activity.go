package entity

import "github.com/shopspring/decimal"

// ActivityKind classifies a ledger mutation.
type ActivityKind string

const (
	KindOnramp  ActivityKind = "onramp"
	KindSwap    ActivityKind = "swap"
	KindSend    ActivityKind = "send"
	KindDeposit ActivityKind = "deposit"
)

// ActivityStatus is the simulated outcome of an activity entry.
type ActivityStatus string

const (
	StatusSuccess ActivityStatus = "Success"
	StatusPending ActivityStatus = "Pending"
	StatusFailed  ActivityStatus = "Failed"
)

// Activity is an immutable append-only log entry created by every ledger
// mutation. Newest entries are prepended. IDs are unique; timestamps are
// monotonically non-decreasing at insertion time.
type Activity struct {
	ID           string          `json:"id"`
	Kind         ActivityKind    `json:"kind"`
	TS           string          `json:"ts"`
	Summary      string          `json:"summary"`
	Amount       decimal.Decimal `json:"amount,omitempty"`
	Token        string          `json:"token,omitempty"`
	Counterparty string          `json:"counterparty,omitempty"`
	OrderID      string          `json:"orderId,omitempty"`
	Status       ActivityStatus  `json:"status,omitempty"`
}
