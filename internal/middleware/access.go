package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custozero/custozero-api/internal/models"
	"github.com/custozero/custozero-api/internal/service"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
	"github.com/custozero/custozero-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

// AccessTokenHeader carries a raw access token as an alternative to a
// session JWT. The token is only checked, never consumed, so the SPA can use
// it across the whole pass window.
const AccessTokenHeader = "X-Access-Token"

// Access protects report endpoints. It accepts either a session JWT from the
// redeem flow (Authorization: Bearer) or a raw access token header.
func Access(accessService *service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
				c.Abort()
				return
			}
			claims, err := accessService.ValidateSession(parts[1])
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			c.Set(ContextSessionKey, claims)
			c.Next()
			return
		}

		if token := c.GetHeader(AccessTokenHeader); token != "" {
			check, err := accessService.Check(c.Request.Context(), token)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if !check.Valid {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, check.Error))
				c.Abort()
				return
			}
			c.Set(ContextSessionKey, &models.SessionClaims{
				Email:      check.Email,
				IsLifetime: check.IsLifetime,
			})
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrUnauthorized)
		c.Abort()
	}
}
