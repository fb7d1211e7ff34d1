package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custozero/custozero-api/internal/models"
	"github.com/custozero/custozero-api/internal/repository"
)

type fakeTokenRepo struct {
	findByOrderID     func(ctx context.Context, orderID string) (*models.AccessToken, error)
	findLatestByEmail func(ctx context.Context, email string) (*models.AccessToken, error)
	create            func(ctx context.Context, token *models.AccessToken) error
	upgradeToLifetime func(ctx context.Context, id, orderID, customerName string) error
	renew             func(ctx context.Context, id string, expiresAt time.Time, orderID, customerName string) error
}

func (f *fakeTokenRepo) FindByOrderID(ctx context.Context, orderID string) (*models.AccessToken, error) {
	if f.findByOrderID != nil {
		return f.findByOrderID(ctx, orderID)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTokenRepo) FindLatestByEmail(ctx context.Context, email string) (*models.AccessToken, error) {
	if f.findLatestByEmail != nil {
		return f.findLatestByEmail(ctx, email)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *models.AccessToken) error {
	if f.create != nil {
		return f.create(ctx, token)
	}
	return nil
}

func (f *fakeTokenRepo) UpgradeToLifetime(ctx context.Context, id, orderID, customerName string) error {
	if f.upgradeToLifetime != nil {
		return f.upgradeToLifetime(ctx, id, orderID, customerName)
	}
	return nil
}

func (f *fakeTokenRepo) Renew(ctx context.Context, id string, expiresAt time.Time, orderID, customerName string) error {
	if f.renew != nil {
		return f.renew(ctx, id, expiresAt, orderID, customerName)
	}
	return nil
}

type capturedWelcome struct {
	messages []WelcomeEmail
}

func (c *capturedWelcome) NotifyWelcome(msg WelcomeEmail) {
	c.messages = append(c.messages, msg)
}

func newTestWebhookService(repo *fakeTokenRepo, emails *capturedWelcome) *WebhookService {
	var notifier welcomeNotifier
	if emails != nil {
		notifier = emails
	}
	svc := NewWebhookService(repo, notifier, nil, nil, WebhookServiceConfig{
		AppURL:            "https://app.custozero.com.br",
		PassDuration:      24 * time.Hour,
		ReactivationCents: 790,
		LifetimeCents:     4700,
	})
	return svc
}

func paidEvent() models.PaymentEvent {
	return models.PaymentEvent{
		Provider:     "kiwify",
		Event:        models.PaymentPaid,
		OrderID:      "order-1",
		Email:        "User@Example.COM",
		CustomerName: "Maria",
		AmountCents:  1990,
	}
}

func TestProcessPayment_IgnoresNonPaidEvents(t *testing.T) {
	createCalled := false
	repo := &fakeTokenRepo{
		create: func(ctx context.Context, token *models.AccessToken) error {
			createCalled = true
			return nil
		},
	}
	svc := newTestWebhookService(repo, nil)

	ev := paidEvent()
	ev.Event = models.PaymentRefunded

	resp, err := svc.ProcessPayment(context.Background(), ev)

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "event ignored", resp.Message)
	assert.Equal(t, string(models.PaymentRefunded), resp.Event)
	assert.False(t, createCalled)
}

func TestProcessPayment_RequiresEmail(t *testing.T) {
	svc := newTestWebhookService(&fakeTokenRepo{}, nil)

	ev := paidEvent()
	ev.Email = "   "

	resp, err := svc.ProcessPayment(context.Background(), ev)

	require.Error(t, err)
	assert.Nil(t, resp)
}

func TestProcessPayment_FirstPurchaseCreatesFreshToken(t *testing.T) {
	var created *models.AccessToken
	repo := &fakeTokenRepo{
		create: func(ctx context.Context, token *models.AccessToken) error {
			created = token
			return nil
		},
	}
	emails := &capturedWelcome{}
	svc := newTestWebhookService(repo, emails)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	resp, err := svc.ProcessPayment(context.Background(), paidEvent())

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "user@example.com", created.Email)
	assert.False(t, created.IsLifetime)
	require.NotNil(t, created.ExpiresAt)
	assert.Equal(t, now.Add(24*time.Hour), *created.ExpiresAt)
	require.NotNil(t, created.OrderID)
	assert.Equal(t, "order-1", *created.OrderID)

	assert.True(t, resp.Success)
	assert.Equal(t, created.Token, resp.Token)
	assert.False(t, resp.IsLifetime)
	assert.Contains(t, resp.RedirectURL, "/processando?email=user%40example.com")

	require.Len(t, emails.messages, 1)
	assert.Equal(t, "user@example.com", emails.messages[0].Email)
	assert.Contains(t, emails.messages[0].AccessURL, created.Token)
}

func TestProcessPayment_DuplicateOrderReturnsExistingToken(t *testing.T) {
	expires := time.Now().UTC().Add(10 * time.Hour)
	existing := &models.AccessToken{
		ID:        "id-1",
		Token:     "tok-1",
		Email:     "user@example.com",
		ExpiresAt: &expires,
	}
	createCalled := false
	repo := &fakeTokenRepo{
		findByOrderID: func(ctx context.Context, orderID string) (*models.AccessToken, error) {
			assert.Equal(t, "order-1", orderID)
			return existing, nil
		},
		create: func(ctx context.Context, token *models.AccessToken) error {
			createCalled = true
			return nil
		},
	}
	emails := &capturedWelcome{}
	svc := newTestWebhookService(repo, emails)

	resp, err := svc.ProcessPayment(context.Background(), paidEvent())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "token already created", resp.Message)
	assert.False(t, createCalled)
	assert.Empty(t, emails.messages, "duplicate delivery must not re-send email")
}

func TestProcessPayment_DuplicateInsertRaceResolvesToWinner(t *testing.T) {
	winner := &models.AccessToken{ID: "id-w", Token: "tok-w", Email: "user@example.com"}
	firstLookup := true
	repo := &fakeTokenRepo{
		findByOrderID: func(ctx context.Context, orderID string) (*models.AccessToken, error) {
			if firstLookup {
				firstLookup = false
				return nil, sql.ErrNoRows
			}
			return winner, nil
		},
		create: func(ctx context.Context, token *models.AccessToken) error {
			return repository.ErrDuplicateOrder
		},
	}
	svc := newTestWebhookService(repo, nil)

	resp, err := svc.ProcessPayment(context.Background(), paidEvent())

	require.NoError(t, err)
	assert.Equal(t, "tok-w", resp.Token)
	assert.Equal(t, "token already created", resp.Message)
}

func TestProcessPayment_LifetimeUpgradePreservesTokenString(t *testing.T) {
	expires := time.Now().UTC().Add(-time.Hour)
	existing := &models.AccessToken{
		ID:        "id-1",
		Token:     "tok-original",
		Email:     "user@example.com",
		Used:      true,
		ExpiresAt: &expires,
	}
	var upgradedID string
	repo := &fakeTokenRepo{
		findLatestByEmail: func(ctx context.Context, email string) (*models.AccessToken, error) {
			return existing, nil
		},
		upgradeToLifetime: func(ctx context.Context, id, orderID, customerName string) error {
			upgradedID = id
			return nil
		},
	}
	emails := &capturedWelcome{}
	svc := newTestWebhookService(repo, emails)

	ev := paidEvent()
	ev.AmountCents = 4700

	resp, err := svc.ProcessPayment(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, "id-1", upgradedID)
	assert.Equal(t, "tok-original", resp.Token)
	assert.True(t, resp.IsLifetime)
	assert.Nil(t, resp.ExpiresAt)
	require.Len(t, emails.messages, 1)
	assert.True(t, emails.messages[0].IsLifetime)
}

func TestProcessPayment_LifetimeWithoutHistoryCreatesRow(t *testing.T) {
	var created *models.AccessToken
	repo := &fakeTokenRepo{
		create: func(ctx context.Context, token *models.AccessToken) error {
			created = token
			return nil
		},
	}
	svc := newTestWebhookService(repo, nil)

	ev := paidEvent()
	ev.AmountCents = 9900

	resp, err := svc.ProcessPayment(context.Background(), ev)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.IsLifetime)
	assert.Nil(t, created.ExpiresAt)
	assert.True(t, resp.IsLifetime)
}

func TestProcessPayment_ReactivationRenewsExistingRow(t *testing.T) {
	expires := time.Now().UTC().Add(-48 * time.Hour)
	existing := &models.AccessToken{
		ID:        "id-1",
		Token:     "tok-old",
		Email:     "user@example.com",
		Used:      true,
		ExpiresAt: &expires,
	}
	var renewedAt time.Time
	repo := &fakeTokenRepo{
		findLatestByEmail: func(ctx context.Context, email string) (*models.AccessToken, error) {
			return existing, nil
		},
		renew: func(ctx context.Context, id string, expiresAt time.Time, orderID, customerName string) error {
			assert.Equal(t, "id-1", id)
			renewedAt = expiresAt
			return nil
		},
	}
	svc := newTestWebhookService(repo, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ev := paidEvent()
	ev.AmountCents = 790

	resp, err := svc.ProcessPayment(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), renewedAt)
	assert.Equal(t, "tok-old", resp.Token)
	assert.False(t, resp.IsLifetime)
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, renewedAt, *resp.ExpiresAt)
}

func TestProcessPayment_ReactivationNeverDowngradesLifetime(t *testing.T) {
	existing := &models.AccessToken{
		ID:         "id-1",
		Token:      "tok-life",
		Email:      "user@example.com",
		IsLifetime: true,
	}
	renewCalled := false
	repo := &fakeTokenRepo{
		findLatestByEmail: func(ctx context.Context, email string) (*models.AccessToken, error) {
			return existing, nil
		},
		renew: func(ctx context.Context, id string, expiresAt time.Time, orderID, customerName string) error {
			renewCalled = true
			return nil
		},
	}
	svc := newTestWebhookService(repo, nil)

	ev := paidEvent()
	ev.AmountCents = 790

	resp, err := svc.ProcessPayment(context.Background(), ev)

	require.NoError(t, err)
	assert.False(t, renewCalled)
	assert.Equal(t, "tok-life", resp.Token)
	assert.True(t, resp.IsLifetime)
	assert.Equal(t, "user already has lifetime access", resp.Message)
}

func TestProcessPayment_ReactivationWithoutHistoryCreatesRow(t *testing.T) {
	var created *models.AccessToken
	repo := &fakeTokenRepo{
		create: func(ctx context.Context, token *models.AccessToken) error {
			created = token
			return nil
		},
	}
	svc := newTestWebhookService(repo, nil)

	ev := paidEvent()
	ev.AmountCents = 990

	_, err := svc.ProcessPayment(context.Background(), ev)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.IsLifetime)
	assert.NotNil(t, created.ExpiresAt)
}

func TestClassifyTier(t *testing.T) {
	svc := newTestWebhookService(&fakeTokenRepo{}, nil)

	tests := []struct {
		name   string
		amount int64
		want   models.PurchaseTier
	}{
		{"standard low", 100, models.TierStandard},
		{"just below reactivation", 789, models.TierStandard},
		{"reactivation floor", 790, models.TierReactivation},
		{"mid range", 1990, models.TierReactivation},
		{"just below lifetime", 4699, models.TierReactivation},
		{"lifetime floor", 4700, models.TierLifetime},
		{"lifetime above", 9900, models.TierLifetime},
		{"zero amount", 0, models.TierStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.classifyTier(tt.amount))
		})
	}
}

func TestClassifyTier_LifetimeTierDisabled(t *testing.T) {
	svc := NewWebhookService(&fakeTokenRepo{}, nil, nil, nil, WebhookServiceConfig{
		AppURL:            "https://app.custozero.com.br",
		PassDuration:      24 * time.Hour,
		ReactivationCents: 790,
	})

	assert.Equal(t, models.TierStandard, svc.classifyTier(789))
	assert.Equal(t, models.TierReactivation, svc.classifyTier(790))
	assert.Equal(t, models.TierReactivation, svc.classifyTier(9900))
}
