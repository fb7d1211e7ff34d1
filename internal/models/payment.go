package models

// PaymentEventKind classifies a normalized provider event.
type PaymentEventKind string

const (
	PaymentPaid      PaymentEventKind = "paid"
	PaymentRefunded  PaymentEventKind = "refunded"
	PaymentCancelled PaymentEventKind = "cancelled"
	PaymentUnknown   PaymentEventKind = "unknown"
)

// PurchaseTier is the plan implied by the paid amount.
type PurchaseTier string

const (
	TierStandard     PurchaseTier = "standard"
	TierReactivation PurchaseTier = "reactivation"
	TierLifetime     PurchaseTier = "lifetime"
)

// PaymentEvent is the canonical record the token state machine consumes.
// Provider-specific payload shapes are normalized into it before any
// business logic runs.
type PaymentEvent struct {
	Provider     string
	Event        PaymentEventKind
	OrderID      string
	Email        string
	CustomerName string
	AmountCents  int64
}
