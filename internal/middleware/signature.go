package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/gin-gonic/gin"

	appErrors "github.com/custozero/custozero-api/pkg/errors"
	"github.com/custozero/custozero-api/pkg/response"
)

// SignatureHeader carries the provider's HMAC of the raw request body.
const SignatureHeader = "X-Kiwify-Signature"

// KiwifySignature verifies the webhook HMAC-SHA256 when a secret is
// configured. Without a secret every delivery passes, which is how staging
// environments run.
func KiwifySignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unreadable request body"))
			c.Abort()
			return
		}
		// Hand the body back to the handler's binder.
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		provided, err := hex.DecodeString(c.GetHeader(SignatureHeader))
		if err != nil || len(provided) == 0 {
			response.Error(c, appErrors.ErrSignature)
			c.Abort()
			return
		}

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		if !hmac.Equal(mac.Sum(nil), provided) {
			response.Error(c, appErrors.ErrSignature)
			c.Abort()
			return
		}

		c.Next()
	}
}
