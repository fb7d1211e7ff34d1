package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/custozero/custozero-api/internal/middleware"
	"github.com/custozero/custozero-api/internal/models"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
)

// currentSession extracts the resolved session placed by the access
// middleware.
func currentSession(c *gin.Context) (*models.SessionClaims, bool) {
	value, ok := c.Get(middleware.ContextSessionKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.SessionClaims)
	return claims, ok
}

// flatError writes an error in the funnel endpoints' flat shape. Internal
// endpoints use response.Error instead.
func flatError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{
		"success": false,
		"error":   appErr.Message,
	})
}
