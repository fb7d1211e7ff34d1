package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func runSignature(t *testing.T, secret, signature string, body []byte) (*httptest.ResponseRecorder, []byte) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhooks/kiwify", bytes.NewReader(body))
	if signature != "" {
		c.Request.Header.Set(SignatureHeader, signature)
	}

	var seenBody []byte
	KiwifySignature(secret)(c)
	if !c.IsAborted() {
		read, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		seenBody = read
	}
	return w, seenBody
}

func TestKiwifySignature_SkipsWithoutSecret(t *testing.T) {
	body := []byte(`{"order_id":"1"}`)
	w, seen := runSignature(t, "", "", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, seen)
}

func TestKiwifySignature_AcceptsValidSignature(t *testing.T) {
	body := []byte(`{"order_id":"1"}`)
	w, seen := runSignature(t, "secret", signBody("secret", body), body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, seen, "body must be replayable after verification")
}

func TestKiwifySignature_RejectsBadSignature(t *testing.T) {
	body := []byte(`{"order_id":"1"}`)
	w, _ := runSignature(t, "secret", signBody("other", body), body)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")
}

func TestKiwifySignature_RejectsMissingSignature(t *testing.T) {
	w, _ := runSignature(t, "secret", "", []byte(`{}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestKiwifySignature_RejectsMalformedHex(t *testing.T) {
	w, _ := runSignature(t, "secret", "not-hex", []byte(`{}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
