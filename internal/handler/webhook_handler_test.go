package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custozero/custozero-api/internal/models"
	"github.com/custozero/custozero-api/internal/service"
)

type webhookRepoMock struct {
	created []*models.AccessToken
	byOrder map[string]*models.AccessToken
}

func (m *webhookRepoMock) FindByOrderID(ctx context.Context, orderID string) (*models.AccessToken, error) {
	if row, ok := m.byOrder[orderID]; ok {
		return row, nil
	}
	return nil, sql.ErrNoRows
}

func (m *webhookRepoMock) FindLatestByEmail(ctx context.Context, email string) (*models.AccessToken, error) {
	return nil, sql.ErrNoRows
}

func (m *webhookRepoMock) Create(ctx context.Context, token *models.AccessToken) error {
	m.created = append(m.created, token)
	return nil
}

func (m *webhookRepoMock) UpgradeToLifetime(ctx context.Context, id, orderID, customerName string) error {
	return nil
}

func (m *webhookRepoMock) Renew(ctx context.Context, id string, expiresAt time.Time, orderID, customerName string) error {
	return nil
}

func newWebhookHandlerForTest(repo *webhookRepoMock) *WebhookHandler {
	svc := service.NewWebhookService(repo, nil, nil, nil, service.WebhookServiceConfig{
		AppURL:            "https://app.custozero.com.br",
		PassDuration:      24 * time.Hour,
		ReactivationCents: 790,
		LifetimeCents:     4700,
	})
	return NewWebhookHandler(svc)
}

func postJSON(t *testing.T, handle gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handle(c)
	return w
}

func TestWebhookHandler_KiwifyNativePayload(t *testing.T) {
	repo := &webhookRepoMock{}
	handler := newWebhookHandlerForTest(repo)

	body := `{
		"order_id": "order-1",
		"order_status": "paid",
		"webhook_event_type": "order_approved",
		"Customer": {"email": "User@Example.com", "full_name": "Maria Silva"},
		"Commissions": {"charge_amount": 1990}
	}`
	w := postJSON(t, handler.Kiwify, "/webhooks/kiwify", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "user@example.com", repo.created[0].Email)
	assert.Equal(t, "Maria Silva", repo.created[0].CustomerName)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, repo.created[0].Token, resp["token"])
	assert.Contains(t, resp["redirect_url"], "/processando?email=")
}

func TestWebhookHandler_KiwifyIgnoresRefund(t *testing.T) {
	repo := &webhookRepoMock{}
	handler := newWebhookHandlerForTest(repo)

	body := `{
		"order_id": "order-1",
		"webhook_event_type": "order_refunded",
		"Customer": {"email": "user@example.com"}
	}`
	w := postJSON(t, handler.Kiwify, "/webhooks/kiwify", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.created)
	assert.Contains(t, w.Body.String(), "event ignored")
}

func TestWebhookHandler_KiwifyMissingEmail(t *testing.T) {
	repo := &webhookRepoMock{}
	handler := newWebhookHandlerForTest(repo)

	body := `{
		"order_id": "order-1",
		"webhook_event_type": "order_approved",
		"Customer": {"email": ""}
	}`
	w := postJSON(t, handler.Kiwify, "/webhooks/kiwify", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.created)
}

func TestWebhookHandler_KiwifyMalformedJSON(t *testing.T) {
	handler := newWebhookHandlerForTest(&webhookRepoMock{})

	w := postJSON(t, handler.Kiwify, "/webhooks/kiwify", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_CaktoApprovedPurchase(t *testing.T) {
	repo := &webhookRepoMock{}
	handler := newWebhookHandlerForTest(repo)

	body := `{
		"event": "purchase_approved",
		"data": {
			"id": "cakto-1",
			"status": "paid",
			"customer": {"email": "user@example.com", "name": "João"},
			"amount": 790
		}
	}`
	w := postJSON(t, handler.Cakto, "/webhooks/cakto", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.created, 1)
	require.NotNil(t, repo.created[0].OrderID)
	assert.Equal(t, "cakto-1", *repo.created[0].OrderID)
}

func TestWebhookHandler_DuplicateDeliveryReturnsOriginalToken(t *testing.T) {
	expires := time.Now().UTC().Add(10 * time.Hour)
	existing := &models.AccessToken{ID: "id-1", Token: "tok-1", Email: "user@example.com", ExpiresAt: &expires}
	repo := &webhookRepoMock{byOrder: map[string]*models.AccessToken{"order-1": existing}}
	handler := newWebhookHandlerForTest(repo)

	body := `{
		"order_id": "order-1",
		"webhook_event_type": "order_approved",
		"Customer": {"email": "user@example.com"},
		"Commissions": {"charge_amount": 1990}
	}`
	w := postJSON(t, handler.Kiwify, "/webhooks/kiwify", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.created)
	assert.Contains(t, w.Body.String(), "tok-1")
}
