package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/custozero/custozero-api/internal/dto"
	"github.com/custozero/custozero-api/internal/models"
	"github.com/custozero/custozero-api/pkg/config"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
)

type accessTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*models.AccessToken, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.AccessToken, error)
	FindLatestByEmail(ctx context.Context, email string) (*models.AccessToken, error)
	Burn(ctx context.Context, token string) (bool, error)
}

// User-facing poll messages, rendered verbatim by the SPA.
const (
	msgLifetimeActive = "Acesso vitalício ativo!"
	msgTokenFound     = "Token encontrado com sucesso"
	msgTokenExpired   = "Seu passe livre expirou. Renove seu acesso por apenas R$ 7,90!"
	msgTokenUsed      = "Seu passe livre já foi utilizado. Renove seu acesso por apenas R$ 7,90!"
	msgNoValidToken   = "Nenhum token válido encontrado. Verifique seu email."
	msgEmailNotFound  = "Email não encontrado em nossa base de dados."
)

// AccessService answers the three questions the funnel asks of a token:
// is it usable (check), consume it (redeem), and which token belongs to an
// email (poll). Expired temporary tokens are burned lazily on first touch.
type AccessService struct {
	repo     accessTokenRepository
	metrics  *MetricsService
	logger   *zap.Logger
	config   config.AccessConfig
	validate *validator.Validate
	now      func() time.Time
}

// NewAccessService constructs an AccessService instance.
func NewAccessService(repo accessTokenRepository, metrics *MetricsService, logger *zap.Logger, cfg config.AccessConfig) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PassDuration <= 0 {
		cfg.PassDuration = 24 * time.Hour
	}
	return &AccessService{
		repo:     repo,
		metrics:  metrics,
		logger:   logger,
		config:   cfg,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Check reports whether a token currently grants access without consuming
// it. The only write it may perform is the lazy burn of an expired row.
func (s *AccessService) Check(ctx context.Context, token string) (*dto.ValidateResponse, error) {
	row, resp, err := s.inspect(ctx, token)
	if err != nil || resp != nil {
		return resp, err
	}
	return s.validResponse(row, ""), nil
}

// Redeem consumes a valid temporary token and mints a session JWT. Lifetime
// tokens are never burned; they mint a fresh session on every redeem.
func (s *AccessService) Redeem(ctx context.Context, token string) (*dto.ValidateResponse, error) {
	row, resp, err := s.inspect(ctx, token)
	if err != nil || resp != nil {
		return resp, err
	}

	if !row.IsLifetime {
		won, err := s.repo.Burn(ctx, row.Token)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to redeem token")
		}
		if !won {
			// A concurrent redeem got there first.
			return &dto.ValidateResponse{Valid: false, Error: dto.ReasonAlreadyUsed}, nil
		}
		s.metrics.RecordTokenBurned("redeemed")
		s.logger.Info("token redeemed", zap.String("email", row.Email))
	}

	session, err := s.mintSession(row)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mint session")
	}
	return s.validResponse(row, session), nil
}

// inspect resolves a token to either a terminal invalid response or the
// usable row. Exactly one of the returns is set.
func (s *AccessService) inspect(ctx context.Context, token string) (*models.AccessToken, *dto.ValidateResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &dto.ValidateResponse{Valid: false, Error: dto.ReasonNotFound}, nil
	}

	row, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &dto.ValidateResponse{Valid: false, Error: dto.ReasonNotFound}, nil
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up token")
	}

	if row.Used {
		return nil, &dto.ValidateResponse{Valid: false, Error: dto.ReasonAlreadyUsed}, nil
	}

	if row.IsExpired(s.now().UTC(), s.config.PassDuration) {
		s.burnExpired(ctx, row)
		return nil, &dto.ValidateResponse{Valid: false, Error: dto.ReasonExpired}, nil
	}

	return row, nil, nil
}

// Poll looks up the freshest usable token for an email so the post-checkout
// page can hand off without the customer opening the email.
func (s *AccessService) Poll(ctx context.Context, email string) (*dto.PollResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "valid email is required")
	}

	row, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up token by email")
	}

	if row != nil {
		if row.IsLifetime {
			s.metrics.RecordPollOutcome("valid")
			return &dto.PollResponse{
				Token:       &row.Token,
				CreatedAt:   &row.CreatedAt,
				IsLifetime:  true,
				HasAnyToken: true,
				EmailSent:   true,
				Message:     msgLifetimeActive,
			}, nil
		}

		if !row.IsExpired(s.now().UTC(), s.config.PassDuration) {
			expiresAt := row.ExpiresAtOrDefault(s.config.PassDuration)
			s.metrics.RecordPollOutcome("valid")
			return &dto.PollResponse{
				Token:       &row.Token,
				CreatedAt:   &row.CreatedAt,
				ExpiresAt:   &expiresAt,
				HasAnyToken: true,
				EmailSent:   true,
				Message:     msgTokenFound,
			}, nil
		}

		s.burnExpired(ctx, row)
		s.metrics.RecordPollOutcome("expired")
		return &dto.PollResponse{
			HasAnyToken: true,
			Expired:     true,
			EmailSent:   true,
			Message:     msgTokenExpired,
		}, nil
	}

	// No unused row; distinguish a spent purchase from a stranger.
	latest, err := s.repo.FindLatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordPollOutcome("not_found")
			return &dto.PollResponse{Message: msgEmailNotFound}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up token history")
	}

	// A spent token is reported as expired access too: the SPA keys the
	// renewal offer on that flag. email_sent mirrors has_any_token.
	switch {
	case latest.Used:
		s.metrics.RecordPollOutcome("used")
		return &dto.PollResponse{HasAnyToken: true, Expired: true, EmailSent: true, Message: msgTokenUsed}, nil
	case latest.IsExpired(s.now().UTC(), s.config.PassDuration):
		s.metrics.RecordPollOutcome("expired")
		return &dto.PollResponse{HasAnyToken: true, Expired: true, EmailSent: true, Message: msgTokenExpired}, nil
	default:
		s.metrics.RecordPollOutcome("not_found")
		return &dto.PollResponse{HasAnyToken: true, EmailSent: true, Message: msgNoValidToken}, nil
	}
}

// ValidateSession parses and verifies a session JWT minted by Redeem.
func (s *AccessService) ValidateSession(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return claims, nil
}

func (s *AccessService) mintSession(row *models.AccessToken) (string, error) {
	now := s.now().UTC()

	// A temporary session dies with its token; a lifetime session just gets
	// re-minted on the next redeem.
	expiresAt := row.ExpiresAtOrDefault(s.config.PassDuration)
	if row.IsLifetime {
		expiresAt = now.Add(s.config.SessionTTL)
	}

	claims := models.SessionClaims{
		Email:      row.Email,
		TokenID:    row.ID,
		IsLifetime: row.IsLifetime,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   row.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *AccessService) validResponse(row *models.AccessToken, session string) *dto.ValidateResponse {
	resp := &dto.ValidateResponse{
		Valid:        true,
		Email:        row.Email,
		CreatedAt:    &row.CreatedAt,
		IsLifetime:   row.IsLifetime,
		SessionToken: session,
	}
	if !row.IsLifetime {
		expiresAt := row.ExpiresAtOrDefault(s.config.PassDuration)
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

func (s *AccessService) burnExpired(ctx context.Context, row *models.AccessToken) {
	won, err := s.repo.Burn(ctx, row.Token)
	if err != nil {
		// Expiry already denies access; the burn is bookkeeping.
		s.logger.Warn("failed to burn expired token", zap.String("email", row.Email), zap.Error(err))
		return
	}
	if won {
		s.metrics.RecordTokenBurned("expired")
		s.logger.Info("expired token burned", zap.String("email", row.Email))
	}
}
