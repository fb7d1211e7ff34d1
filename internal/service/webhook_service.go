package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custozero/custozero-api/internal/dto"
	"github.com/custozero/custozero-api/internal/models"
	"github.com/custozero/custozero-api/internal/repository"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
)

type webhookTokenRepository interface {
	FindByOrderID(ctx context.Context, orderID string) (*models.AccessToken, error)
	FindLatestByEmail(ctx context.Context, email string) (*models.AccessToken, error)
	Create(ctx context.Context, token *models.AccessToken) error
	UpgradeToLifetime(ctx context.Context, id, orderID, customerName string) error
	Renew(ctx context.Context, id string, expiresAt time.Time, orderID, customerName string) error
}

type welcomeNotifier interface {
	NotifyWelcome(msg WelcomeEmail)
}

// WebhookServiceConfig carries the tier thresholds and token window.
type WebhookServiceConfig struct {
	AppURL            string
	PassDuration      time.Duration
	ReactivationCents int64
	LifetimeCents     int64
}

// WebhookService turns normalized payment events into token-store mutations,
// exactly once per distinct order.
type WebhookService struct {
	repo    webhookTokenRepository
	emails  welcomeNotifier
	metrics *MetricsService
	logger  *zap.Logger
	config  WebhookServiceConfig
	now     func() time.Time
}

// NewWebhookService constructs a WebhookService instance.
func NewWebhookService(repo webhookTokenRepository, emails welcomeNotifier, metrics *MetricsService, logger *zap.Logger, config WebhookServiceConfig) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PassDuration <= 0 {
		config.PassDuration = 24 * time.Hour
	}
	return &WebhookService{
		repo:    repo,
		emails:  emails,
		metrics: metrics,
		logger:  logger,
		config:  config,
		now:     time.Now,
	}
}

// ProcessPayment runs the token state machine for one delivery. Non-paid
// events are acknowledged without mutation so providers stop retrying them.
func (s *WebhookService) ProcessPayment(ctx context.Context, ev models.PaymentEvent) (*dto.WebhookResponse, error) {
	if ev.Event != models.PaymentPaid {
		s.logger.Info("ignoring webhook event",
			zap.String("provider", ev.Provider),
			zap.String("event", string(ev.Event)),
			zap.String("order_id", ev.OrderID),
		)
		s.metrics.RecordWebhookEvent(ev.Provider, "ignored")
		return &dto.WebhookResponse{Message: "event ignored", Event: string(ev.Event)}, nil
	}

	email := strings.ToLower(strings.TrimSpace(ev.Email))
	if email == "" {
		s.metrics.RecordWebhookEvent(ev.Provider, "invalid")
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	ev.Email = email

	// Idempotency gate: a delivery already processed under this order id
	// returns the original token and writes nothing.
	if ev.OrderID != "" {
		existing, err := s.repo.FindByOrderID(ctx, ev.OrderID)
		if err == nil {
			s.logger.Info("duplicate webhook delivery",
				zap.String("provider", ev.Provider),
				zap.String("order_id", ev.OrderID),
			)
			s.metrics.RecordWebhookEvent(ev.Provider, "duplicate")
			return s.respond(existing, "token already created"), nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check order id")
		}
	}

	tier := s.classifyTier(ev.AmountCents)
	resp, err := s.apply(ctx, ev, tier)
	if err != nil {
		var dup *dto.WebhookResponse
		if errors.Is(err, repository.ErrDuplicateOrder) && ev.OrderID != "" {
			// Lost the insert race against a concurrent delivery of the
			// same order; the winner's token is the answer.
			winner, findErr := s.repo.FindByOrderID(ctx, ev.OrderID)
			if findErr == nil {
				dup = s.respond(winner, "token already created")
			}
		}
		if dup != nil {
			s.metrics.RecordWebhookEvent(ev.Provider, "duplicate")
			return dup, nil
		}
		s.metrics.RecordWebhookEvent(ev.Provider, "error")
		return nil, err
	}

	s.metrics.RecordWebhookEvent(ev.Provider, "processed")
	return resp, nil
}

func (s *WebhookService) classifyTier(amountCents int64) models.PurchaseTier {
	switch {
	case s.config.LifetimeCents > 0 && amountCents >= s.config.LifetimeCents:
		return models.TierLifetime
	case s.config.ReactivationCents > 0 && amountCents >= s.config.ReactivationCents &&
		(s.config.LifetimeCents <= 0 || amountCents < s.config.LifetimeCents):
		return models.TierReactivation
	default:
		return models.TierStandard
	}
}

func (s *WebhookService) apply(ctx context.Context, ev models.PaymentEvent, tier models.PurchaseTier) (*dto.WebhookResponse, error) {
	switch tier {
	case models.TierLifetime:
		return s.applyLifetime(ctx, ev)
	case models.TierReactivation:
		return s.applyReactivation(ctx, ev)
	default:
		return s.applyStandard(ctx, ev)
	}
}

func (s *WebhookService) applyLifetime(ctx context.Context, ev models.PaymentEvent) (*dto.WebhookResponse, error) {
	existing, err := s.repo.FindLatestByEmail(ctx, ev.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing token")
	}

	if existing != nil {
		// Upgrade in place: the token string is preserved so links already
		// sent to the customer keep working.
		if err := s.repo.UpgradeToLifetime(ctx, existing.ID, ev.OrderID, ev.CustomerName); err != nil {
			if errors.Is(err, repository.ErrDuplicateOrder) {
				return nil, err
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upgrade token to lifetime")
		}
		existing.IsLifetime = true
		existing.Used = false
		existing.ExpiresAt = nil
		s.logger.Info("token upgraded to lifetime", zap.String("email", ev.Email), zap.String("order_id", ev.OrderID))
		s.metrics.RecordTokenIssued(string(models.TierLifetime))
		s.notify(ev, existing)
		return s.respond(existing, "upgraded to lifetime access"), nil
	}

	row := s.newToken(ev, true, nil)
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lifetime token")
	}
	s.logger.Info("lifetime token created", zap.String("email", ev.Email), zap.String("order_id", ev.OrderID))
	s.metrics.RecordTokenIssued(string(models.TierLifetime))
	s.notify(ev, row)
	return s.respond(row, "lifetime access created"), nil
}

func (s *WebhookService) applyReactivation(ctx context.Context, ev models.PaymentEvent) (*dto.WebhookResponse, error) {
	existing, err := s.repo.FindLatestByEmail(ctx, ev.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing token")
	}

	if existing != nil && existing.IsLifetime {
		// Never downgrade a lifetime holder.
		s.logger.Info("reactivation ignored, user already lifetime", zap.String("email", ev.Email))
		return s.respond(existing, "user already has lifetime access"), nil
	}

	expiresAt := s.now().UTC().Add(s.config.PassDuration)

	if existing != nil {
		if err := s.repo.Renew(ctx, existing.ID, expiresAt, ev.OrderID, ev.CustomerName); err != nil {
			if errors.Is(err, repository.ErrDuplicateOrder) {
				return nil, err
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reactivate token")
		}
		existing.Used = false
		existing.ExpiresAt = &expiresAt
		s.logger.Info("token reactivated", zap.String("email", ev.Email), zap.Time("expires_at", expiresAt))
		s.metrics.RecordTokenIssued(string(models.TierReactivation))
		s.notify(ev, existing)
		return s.respond(existing, "token reactivated"), nil
	}

	row := s.newToken(ev, false, &expiresAt)
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}
	s.logger.Info("reactivation token created", zap.String("email", ev.Email), zap.Time("expires_at", expiresAt))
	s.metrics.RecordTokenIssued(string(models.TierReactivation))
	s.notify(ev, row)
	return s.respond(row, "token created"), nil
}

func (s *WebhookService) applyStandard(ctx context.Context, ev models.PaymentEvent) (*dto.WebhookResponse, error) {
	// A first purchase always gets a fresh pass, independent of any prior
	// row for the email.
	expiresAt := s.now().UTC().Add(s.config.PassDuration)
	row := s.newToken(ev, false, &expiresAt)
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}
	s.logger.Info("token created",
		zap.String("email", ev.Email),
		zap.String("order_id", ev.OrderID),
		zap.Time("expires_at", expiresAt),
	)
	s.metrics.RecordTokenIssued(string(models.TierStandard))
	s.notify(ev, row)
	return s.respond(row, "token created"), nil
}

func (s *WebhookService) newToken(ev models.PaymentEvent, lifetime bool, expiresAt *time.Time) *models.AccessToken {
	row := &models.AccessToken{
		ID:           uuid.NewString(),
		Token:        uuid.NewString(),
		Email:        ev.Email,
		IsLifetime:   lifetime,
		ExpiresAt:    expiresAt,
		CustomerName: ev.CustomerName,
		CreatedAt:    s.now().UTC(),
	}
	if ev.OrderID != "" {
		orderID := ev.OrderID
		row.OrderID = &orderID
	}
	return row
}

func (s *WebhookService) respond(tok *models.AccessToken, message string) *dto.WebhookResponse {
	return &dto.WebhookResponse{
		Success:     true,
		RedirectURL: fmt.Sprintf("%s/processando?email=%s", s.config.AppURL, url.QueryEscape(tok.Email)),
		Token:       tok.Token,
		ExpiresAt:   tok.ExpiresAt,
		IsLifetime:  tok.IsLifetime,
		Message:     message,
	}
}

func (s *WebhookService) notify(ev models.PaymentEvent, tok *models.AccessToken) {
	if s.emails == nil {
		return
	}
	s.emails.NotifyWelcome(WelcomeEmail{
		Email:      tok.Email,
		Name:       ev.CustomerName,
		AccessURL:  fmt.Sprintf("%s/diagnostico?token=%s", s.config.AppURL, tok.Token),
		ExpiresAt:  tok.ExpiresAt,
		IsLifetime: tok.IsLifetime,
	})
}
