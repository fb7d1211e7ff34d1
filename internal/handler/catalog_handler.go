package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custozero/custozero-api/internal/catalog"
	"github.com/custozero/custozero-api/pkg/response"
)

// CatalogHandler serves the static service catalog.
type CatalogHandler struct{}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Categories godoc
// @Summary List service categories with price data
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	response.JSON(c, http.StatusOK, catalog.Categories())
}
