package models

import "time"

// AccessToken is the persisted access credential minted on a confirmed
// payment. Temporary tokens carry an absolute expiry; lifetime tokens keep
// expires_at null and never expire.
type AccessToken struct {
	ID           string     `db:"id" json:"id"`
	Token        string     `db:"token" json:"token"`
	Email        string     `db:"email" json:"email"`
	Used         bool       `db:"used" json:"used"`
	IsLifetime   bool       `db:"is_lifetime" json:"is_lifetime"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	OrderID      *string    `db:"order_id" json:"order_id,omitempty"`
	CustomerName string     `db:"customer_name" json:"customer_name"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// ExpiresAtOrDefault resolves the expiry instant of a temporary token.
// Rows written by this codebase always carry expires_at; rows from the
// earliest deployments may not, and fall back to created_at plus the pass
// duration. Meaningless for lifetime tokens.
func (t *AccessToken) ExpiresAtOrDefault(passDuration time.Duration) time.Time {
	if t.ExpiresAt != nil {
		return *t.ExpiresAt
	}
	return t.CreatedAt.Add(passDuration)
}

// IsExpired reports whether a temporary token is past its window.
// Lifetime tokens never expire.
func (t *AccessToken) IsExpired(now time.Time, passDuration time.Duration) bool {
	if t.IsLifetime {
		return false
	}
	return now.After(t.ExpiresAtOrDefault(passDuration))
}

// IsActive reports whether the token currently grants access.
func (t *AccessToken) IsActive(now time.Time, passDuration time.Duration) bool {
	return !t.Used && !t.IsExpired(now, passDuration)
}
