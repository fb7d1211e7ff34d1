package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/custozero/custozero-api/internal/middleware"
	"github.com/custozero/custozero-api/internal/models"
	"github.com/custozero/custozero-api/internal/service"
)

func newDiagnosticHandlerForTest() *DiagnosticHandler {
	return NewDiagnosticHandler(service.NewDiagnosticService(nil), nil)
}

func TestDiagnosticHandler_CreateRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDiagnosticHandlerForTest()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/diagnostics", bytes.NewBufferString(`{}`))

	handler.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDiagnosticHandler_CreateRejectsInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDiagnosticHandlerForTest()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/diagnostics", bytes.NewBufferString(`{not json`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextSessionKey, &models.SessionClaims{Email: "user@example.com"})

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestDiagnosticHandler_CreateRejectsEmptyServices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDiagnosticHandlerForTest()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/diagnostics", bytes.NewBufferString(`{"services":[]}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextSessionKey, &models.SessionClaims{Email: "user@example.com"})

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
