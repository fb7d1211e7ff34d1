package dto

import (
	"strings"
	"time"

	"github.com/custozero/custozero-api/internal/models"
)

// KiwifyCustomer mirrors the Customer block of Kiwify's native payload.
type KiwifyCustomer struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	Mobile    string `json:"mobile"`
}

// KiwifyCommissions carries the charged amount in cents.
type KiwifyCommissions struct {
	ChargeAmount int64  `json:"charge_amount"`
	Currency     string `json:"product_base_price_currency"`
}

// LegacyCustomer is the nested customer of the pre-Kiwify flat shape.
type LegacyCustomer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// KiwifyWebhook accepts both payload shapes Kiwify has delivered over time:
// the native one (root-level fields, capitalized Customer block) and the
// legacy flat one. Which shape arrived is decided here, not by the token
// state machine.
type KiwifyWebhook struct {
	// Native shape.
	OrderID          string             `json:"order_id"`
	OrderStatus      string             `json:"order_status"`
	WebhookEventType string             `json:"webhook_event_type"`
	Customer         *KiwifyCustomer    `json:"Customer"`
	Commissions      *KiwifyCommissions `json:"Commissions"`

	// Legacy flat shape.
	Event          string          `json:"event"`
	LegacyCustomer *LegacyCustomer `json:"customer"`
	Amount         int64           `json:"amount"`
	Email          string          `json:"email"`
	TransactionID  string          `json:"transaction_id"`
	Status         string          `json:"status"`
	CustomerName   string          `json:"customer_name"`
}

// Normalize maps the payload to the canonical payment event.
func (p *KiwifyWebhook) Normalize() models.PaymentEvent {
	ev := models.PaymentEvent{Provider: "kiwify"}

	if p.WebhookEventType != "" && p.Customer != nil {
		switch {
		case p.WebhookEventType == "order_approved" || p.OrderStatus == "paid":
			ev.Event = models.PaymentPaid
		case p.WebhookEventType == "order_refunded":
			ev.Event = models.PaymentRefunded
		case p.WebhookEventType == "order_cancelled":
			ev.Event = models.PaymentCancelled
		default:
			ev.Event = models.PaymentUnknown
		}
		ev.OrderID = p.OrderID
		ev.Email = p.Customer.Email
		ev.CustomerName = firstNonEmpty(p.Customer.FullName, p.Customer.FirstName, "Cliente")
		if p.Commissions != nil {
			ev.AmountCents = p.Commissions.ChargeAmount
		}
		return ev
	}

	switch {
	case p.Event == "order.paid" || p.Status == "paid" || p.Status == "approved":
		ev.Event = models.PaymentPaid
	case p.Event == "order.refunded":
		ev.Event = models.PaymentRefunded
	case p.Event == "order.cancelled":
		ev.Event = models.PaymentCancelled
	default:
		ev.Event = models.PaymentUnknown
	}
	ev.OrderID = firstNonEmpty(p.OrderID, p.TransactionID)
	if p.LegacyCustomer != nil {
		ev.Email = p.LegacyCustomer.Email
	}
	if ev.Email == "" {
		ev.Email = p.Email
	}
	var legacyName string
	if p.LegacyCustomer != nil {
		legacyName = p.LegacyCustomer.Name
	}
	ev.CustomerName = firstNonEmpty(legacyName, p.CustomerName, "Cliente")
	ev.AmountCents = p.Amount
	return ev
}

// CaktoCustomer is the nested customer of Cakto's payload.
type CaktoCustomer struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	DocNumber string `json:"docNumber"`
}

// CaktoData is the nested transaction block of Cakto's payload.
type CaktoData struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Customer *CaktoCustomer `json:"customer"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
}

// CaktoWebhook mirrors Cakto's nested payload: the event name sits at the
// root, everything else under data.
type CaktoWebhook struct {
	Event string     `json:"event"`
	Data  *CaktoData `json:"data"`
}

// Normalize maps the payload to the canonical payment event.
func (p *CaktoWebhook) Normalize() models.PaymentEvent {
	ev := models.PaymentEvent{Provider: "cakto", Event: models.PaymentUnknown}

	var status string
	if p.Data != nil {
		status = p.Data.Status
		ev.OrderID = p.Data.ID
		ev.AmountCents = p.Data.Amount
		if p.Data.Customer != nil {
			ev.Email = p.Data.Customer.Email
			ev.CustomerName = p.Data.Customer.Name
		}
	}
	if ev.CustomerName == "" {
		ev.CustomerName = "Cliente"
	}
	if p.Event == "purchase_approved" || status == "paid" || status == "approved" {
		ev.Event = models.PaymentPaid
	}
	return ev
}

// WebhookResponse is the flat contract returned to payment providers. A
// duplicate delivery of an already-processed order returns the original
// token with success=true.
type WebhookResponse struct {
	Success     bool       `json:"success"`
	RedirectURL string     `json:"redirect_url,omitempty"`
	Token       string     `json:"token,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsLifetime  bool       `json:"is_lifetime,omitempty"`
	Message     string     `json:"message,omitempty"`
	Event       string     `json:"event,omitempty"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
