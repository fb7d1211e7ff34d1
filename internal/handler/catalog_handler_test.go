package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandler_Categories(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/catalog/categories", nil)

	handler.Categories(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []struct {
			ID       string `json:"id"`
			Services []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"services"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data)
	assert.Equal(t, "streaming", envelope.Data[0].ID)
	assert.Equal(t, "netflix", envelope.Data[0].Services[0].ID)
}
