package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custozero/custozero-api/internal/dto"
	"github.com/custozero/custozero-api/internal/service"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
)

// AccessHandler exposes the token funnel endpoints: poll by email, check a
// token, redeem a token. All terminal token states are 200s; only malformed
// input is a 4xx.
type AccessHandler struct {
	access *service.AccessService
}

// NewAccessHandler constructs AccessHandler.
func NewAccessHandler(access *service.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

// Poll godoc
// @Summary Look up the freshest token for an email
// @Tags Access
// @Accept json
// @Produce json
// @Param payload body dto.PollRequest true "Customer email"
// @Success 200 {object} dto.PollResponse
// @Router /access/poll [post]
func (h *AccessHandler) Poll(c *gin.Context) {
	var req dto.PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		flatError(c, appErrors.Clone(appErrors.ErrValidation, "email is required"))
		return
	}

	resp, err := h.access.Poll(c.Request.Context(), req.Email)
	if err != nil {
		flatError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Validate godoc
// @Summary Check a token without consuming it
// @Tags Access
// @Accept json
// @Produce json
// @Param payload body dto.ValidateRequest true "Access token"
// @Success 200 {object} dto.ValidateResponse
// @Router /access/validate [post]
func (h *AccessHandler) Validate(c *gin.Context) {
	var req dto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		flatError(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	resp, err := h.access.Check(c.Request.Context(), req.Token)
	if err != nil {
		flatError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Redeem godoc
// @Summary Consume a token and mint a session
// @Tags Access
// @Accept json
// @Produce json
// @Param payload body dto.ValidateRequest true "Access token"
// @Success 200 {object} dto.ValidateResponse
// @Router /access/redeem [post]
func (h *AccessHandler) Redeem(c *gin.Context) {
	var req dto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		flatError(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	resp, err := h.access.Redeem(c.Request.Context(), req.Token)
	if err != nil {
		flatError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
