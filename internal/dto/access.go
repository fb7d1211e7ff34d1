package dto

import "time"

// PollRequest exchanges a customer email for an active token while the
// checkout webhook is in flight.
type PollRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PollResponse is the flat contract the SPA polls against. Terminal token
// states are 200s; Message is rendered verbatim to the user.
type PollResponse struct {
	Token       *string    `json:"token"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsLifetime  bool       `json:"is_lifetime,omitempty"`
	HasAnyToken bool       `json:"has_any_token"`
	EmailSent   bool       `json:"email_sent"`
	Expired     bool       `json:"expired"`
	Message     string     `json:"message"`
}

// ValidateRequest carries the opaque token value.
type ValidateRequest struct {
	Token string `json:"token" validate:"required"`
}

// ValidateResponse reports the token state. Valid=false with a reason is a
// normal outcome, not an HTTP error. SessionToken is only set by the redeem
// endpoint.
type ValidateResponse struct {
	Valid        bool       `json:"valid"`
	Email        string     `json:"email,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	IsLifetime   bool       `json:"is_lifetime,omitempty"`
	SessionToken string     `json:"session_token,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Invalid-token reasons surfaced in ValidateResponse.Error.
const (
	ReasonNotFound    = "invalid_token"
	ReasonAlreadyUsed = "token_already_used"
	ReasonExpired     = "token_expired"
)
