package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custozero/custozero-api/internal/dto"
	"github.com/custozero/custozero-api/internal/models"
	"github.com/custozero/custozero-api/internal/service"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
)

// WebhookHandler receives payment provider callbacks. Responses are flat
// JSON, the shape the providers' retry logic has always been pointed at.
type WebhookHandler struct {
	webhooks *service.WebhookService
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(webhooks *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// Kiwify godoc
// @Summary Kiwify payment webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param payload body dto.KiwifyWebhook true "Webhook payload"
// @Success 200 {object} dto.WebhookResponse
// @Router /webhooks/kiwify [post]
func (h *WebhookHandler) Kiwify(c *gin.Context) {
	var payload dto.KiwifyWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		flatError(c, appErrors.Clone(appErrors.ErrValidation, "invalid webhook payload"))
		return
	}
	h.process(c, payload.Normalize())
}

// Cakto godoc
// @Summary Cakto payment webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param payload body dto.CaktoWebhook true "Webhook payload"
// @Success 200 {object} dto.WebhookResponse
// @Router /webhooks/cakto [post]
func (h *WebhookHandler) Cakto(c *gin.Context) {
	var payload dto.CaktoWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		flatError(c, appErrors.Clone(appErrors.ErrValidation, "invalid webhook payload"))
		return
	}
	h.process(c, payload.Normalize())
}

func (h *WebhookHandler) process(c *gin.Context, ev models.PaymentEvent) {
	resp, err := h.webhooks.ProcessPayment(c.Request.Context(), ev)
	if err != nil {
		flatError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
