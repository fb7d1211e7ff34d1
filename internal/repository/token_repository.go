package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/custozero/custozero-api/internal/models"
)

// ErrDuplicateOrder signals an insert lost the race against another delivery
// of the same order: the unique index on order_id rejected the row. Callers
// resolve it by re-reading the winner.
var ErrDuplicateOrder = errors.New("duplicate order id")

const uniqueViolation = "23505"

const tokenColumns = `id, token, email, used, is_lifetime, expires_at, order_id, customer_name, created_at`

// TokenRepository provides database access to the access-token store.
type TokenRepository struct {
	db *sqlx.DB
}

// NewTokenRepository creates a new instance of TokenRepository.
func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// FindByToken returns the row matching an opaque token value.
func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*models.AccessToken, error) {
	const query = `SELECT ` + tokenColumns + ` FROM access_tokens WHERE token = $1 LIMIT 1`
	var row models.AccessToken
	if err := r.db.GetContext(ctx, &row, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &row, nil
}

// FindByOrderID returns the row minted for an upstream order, if any.
func (r *TokenRepository) FindByOrderID(ctx context.Context, orderID string) (*models.AccessToken, error) {
	const query = `SELECT ` + tokenColumns + ` FROM access_tokens WHERE order_id = $1 LIMIT 1`
	var row models.AccessToken
	if err := r.db.GetContext(ctx, &row, query, orderID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find token by order id: %w", err)
	}
	return &row, nil
}

// FindLatestByEmail returns the most relevant row for an email regardless of
// used state: lifetime rows first, then newest.
func (r *TokenRepository) FindLatestByEmail(ctx context.Context, email string) (*models.AccessToken, error) {
	const query = `SELECT ` + tokenColumns + ` FROM access_tokens WHERE email = $1 ORDER BY is_lifetime DESC, created_at DESC LIMIT 1`
	var row models.AccessToken
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find latest token by email: %w", err)
	}
	return &row, nil
}

// FindActiveByEmail returns the best unused row for an email: lifetime rows
// first, then newest. The caller still has to evaluate expiry.
func (r *TokenRepository) FindActiveByEmail(ctx context.Context, email string) (*models.AccessToken, error) {
	const query = `SELECT ` + tokenColumns + ` FROM access_tokens WHERE email = $1 AND used = FALSE ORDER BY is_lifetime DESC, created_at DESC LIMIT 1`
	var row models.AccessToken
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active token by email: %w", err)
	}
	return &row, nil
}

// Create inserts a new token row.
func (r *TokenRepository) Create(ctx context.Context, token *models.AccessToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO access_tokens (id, token, email, used, is_lifetime, expires_at, order_id, customer_name, created_at) VALUES (:id, :token, :email, :used, :is_lifetime, :expires_at, :order_id, :customer_name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

// UpgradeToLifetime converts a row to lifetime in place. The token value is
// preserved; only the tier, used flag and order reference change.
func (r *TokenRepository) UpgradeToLifetime(ctx context.Context, id, orderID, customerName string) error {
	const query = `UPDATE access_tokens SET is_lifetime = TRUE, used = FALSE, expires_at = NULL, order_id = $2, customer_name = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, nullIfEmpty(orderID), customerName); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("upgrade token to lifetime: %w", err)
	}
	return nil
}

// Renew reopens a temporary row for a fresh window.
func (r *TokenRepository) Renew(ctx context.Context, id string, expiresAt time.Time, orderID, customerName string) error {
	const query = `UPDATE access_tokens SET used = FALSE, expires_at = $2, order_id = $3, customer_name = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, expiresAt, nullIfEmpty(orderID), customerName); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("renew token: %w", err)
	}
	return nil
}

// Burn marks a token as used. The used = FALSE guard keeps concurrent
// burners from both claiming the row; it reports whether this call won.
func (r *TokenRepository) Burn(ctx context.Context, token string) (bool, error) {
	const query = `UPDATE access_tokens SET used = TRUE WHERE token = $1 AND used = FALSE`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("burn token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("burn token rows affected: %w", err)
	}
	return affected > 0, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
