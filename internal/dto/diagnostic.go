package dto

import "github.com/custozero/custozero-api/internal/models"

// DiagnosticRequest is the questionnaire submission.
type DiagnosticRequest struct {
	Services       []models.ServiceEntry  `json:"services" validate:"required,min=1,dive"`
	Habits         []models.HabitEntry    `json:"habits,omitempty" validate:"omitempty,dive"`
	FinancialBlock *models.FinancialBlock `json:"financial_block,omitempty"`
}
