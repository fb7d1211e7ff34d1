package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custozero/custozero-api/internal/dto"
	"github.com/custozero/custozero-api/internal/service"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
	"github.com/custozero/custozero-api/pkg/response"
)

// DiagnosticHandler computes and serves the financial diagnostic.
type DiagnosticHandler struct {
	diagnostics *service.DiagnosticService
	reports     *service.ReportService
}

// NewDiagnosticHandler constructs DiagnosticHandler.
func NewDiagnosticHandler(diagnostics *service.DiagnosticService, reports *service.ReportService) *DiagnosticHandler {
	return &DiagnosticHandler{diagnostics: diagnostics, reports: reports}
}

// Create godoc
// @Summary Compute a diagnostic from the questionnaire
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Security AccessToken
// @Param payload body dto.DiagnosticRequest true "Questionnaire"
// @Success 201 {object} response.Envelope
// @Router /diagnostics [post]
func (h *DiagnosticHandler) Create(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.DiagnosticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid questionnaire payload"))
		return
	}

	result, err := h.diagnostics.Compute(session.Email, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.reports.Store(c.Request.Context(), result); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Get godoc
// @Summary Fetch a cached diagnostic
// @Tags Diagnostics
// @Produce json
// @Security AccessToken
// @Param id path string true "Diagnostic ID"
// @Success 200 {object} response.Envelope
// @Router /diagnostics/{id} [get]
func (h *DiagnosticHandler) Get(c *gin.Context) {
	result, err := h.reports.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// GetPDF godoc
// @Summary Download the diagnostic as PDF
// @Tags Diagnostics
// @Produce application/pdf
// @Security AccessToken
// @Param id path string true "Diagnostic ID"
// @Success 200 {file} binary
// @Router /diagnostics/{id}/pdf [get]
func (h *DiagnosticHandler) GetPDF(c *gin.Context) {
	id := c.Param("id")
	pdfBytes, err := h.reports.RenderPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="diagnostico-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GetCSV godoc
// @Summary Download the diagnostic line items as CSV
// @Tags Diagnostics
// @Produce text/csv
// @Security AccessToken
// @Param id path string true "Diagnostic ID"
// @Success 200 {file} binary
// @Router /diagnostics/{id}/export.csv [get]
func (h *DiagnosticHandler) GetCSV(c *gin.Context) {
	id := c.Param("id")
	csvBytes, err := h.reports.RenderCSV(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="diagnostico-%s.csv"`, id))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", csvBytes)
}
