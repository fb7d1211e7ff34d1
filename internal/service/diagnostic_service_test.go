package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custozero/custozero-api/internal/dto"
	"github.com/custozero/custozero-api/internal/models"
)

func TestCompute_RejectsEmptySubmission(t *testing.T) {
	svc := NewDiagnosticService(nil)

	_, err := svc.Compute("user@example.com", &dto.DiagnosticRequest{})
	assert.Error(t, err)
}

func TestCompute_RejectsUnknownFrequency(t *testing.T) {
	svc := NewDiagnosticService(nil)

	_, err := svc.Compute("user@example.com", &dto.DiagnosticRequest{
		Services: []models.ServiceEntry{
			{ServiceID: "netflix", MonthlyValue: 44.90, Frequency: "daily"},
		},
	})
	assert.Error(t, err)
}

func TestCompute_WasteAndTotals(t *testing.T) {
	svc := NewDiagnosticService(nil)

	req := &dto.DiagnosticRequest{
		Services: []models.ServiceEntry{
			{ServiceID: "netflix", MonthlyValue: 100, Frequency: models.FrequencyNever},
			{ServiceID: "spotify", MonthlyValue: 50, Frequency: models.FrequencyRarely},
			{ServiceID: "icloud", MonthlyValue: 10, Frequency: models.FrequencyAlways},
		},
		Habits: []models.HabitEntry{
			{Type: "delivery", Frequency: 4, AvgSpent: 50},
		},
		FinancialBlock: &models.FinancialBlock{TotalAnnuity: 120, MonthlyInterest: 30},
	}

	result, err := svc.Compute("user@example.com", req)
	require.NoError(t, err)

	// 100 + 50 + 10 services, 200 habits, 10 + 30 financial.
	assert.InDelta(t, 400.0, result.TotalMonthly, 0.001)
	assert.InDelta(t, 4800.0, result.TotalYearly, 0.001)

	// 100*1.0 + 50*0.7 + 10*0.
	assert.InDelta(t, 135.0, result.WasteMonthly, 0.001)
	assert.InDelta(t, 1620.0, result.WasteYearly, 0.001)

	assert.InDelta(t, 324.0, result.Savings.Conservative, 0.001)
	assert.InDelta(t, 567.0, result.Savings.Realistic, 0.001)
	assert.InDelta(t, 810.0, result.Savings.Aggressive, 0.001)

	assert.Equal(t, "user@example.com", result.Email)
	assert.NotEmpty(t, result.ID)
}

func TestCompute_TopWastersExcludeActiveAndRankByYearly(t *testing.T) {
	svc := NewDiagnosticService(nil)

	req := &dto.DiagnosticRequest{
		Services: []models.ServiceEntry{
			{ServiceID: "netflix", MonthlyValue: 20, Frequency: models.FrequencyRarely},
			{ServiceID: "spotify", MonthlyValue: 30, Frequency: models.FrequencyNever},
			{ServiceID: "icloud", MonthlyValue: 90, Frequency: models.FrequencySometimes},
		},
	}

	result, err := svc.Compute("user@example.com", req)
	require.NoError(t, err)

	require.Len(t, result.TopWasters, 2)
	assert.Equal(t, "spotify", result.TopWasters[0].ServiceID)
	assert.Equal(t, models.WasteFull, result.TopWasters[0].WasteLevel)
	assert.InDelta(t, 360.0, result.TopWasters[0].YearlyValue, 0.001)
	assert.Equal(t, "netflix", result.TopWasters[1].ServiceID)
	assert.Equal(t, models.WasteLowUse, result.TopWasters[1].WasteLevel)

	// Catalog fills in display names and logos.
	assert.Equal(t, "Spotify", result.TopWasters[0].ServiceName)
	assert.NotEmpty(t, result.TopWasters[0].Logo)
}

func TestCompute_CustomServiceNameWins(t *testing.T) {
	svc := NewDiagnosticService(nil)

	req := &dto.DiagnosticRequest{
		Services: []models.ServiceEntry{
			{ServiceID: "custom-1", Name: "Clube do Vinho", MonthlyValue: 80, Frequency: models.FrequencyNever},
		},
	}

	result, err := svc.Compute("user@example.com", req)
	require.NoError(t, err)

	require.Len(t, result.TopWasters, 1)
	assert.Equal(t, "Clube do Vinho", result.TopWasters[0].ServiceName)
}

func TestTransportInsights_UberOneRecommendation(t *testing.T) {
	insights := transportInsights([]models.ServiceEntry{
		{ServiceID: ridesServiceID, MonthlyValue: 400, Frequency: models.FrequencyAlways},
	})

	require.Len(t, insights, 1)
	assert.Equal(t, "optimization", insights[0].Type)
	assert.Equal(t, 4, insights[0].RidesPerWeek)
	assert.Contains(t, insights[0].Description, "R$ 400,00")
	assert.Contains(t, insights[0].Description, "R$ 19,90")
}

func TestTransportInsights_NoRecommendationWhenAlreadySubscribed(t *testing.T) {
	insights := transportInsights([]models.ServiceEntry{
		{ServiceID: ridesServiceID, MonthlyValue: 400, Frequency: models.FrequencyAlways},
		{ServiceID: uberOneServiceID, MonthlyValue: 19.90, Frequency: models.FrequencyAlways},
	})

	assert.Empty(t, insights)
}

func TestTransportInsights_UberOneWaste(t *testing.T) {
	insights := transportInsights([]models.ServiceEntry{
		{ServiceID: ridesServiceID, MonthlyValue: 120, Frequency: models.FrequencySometimes},
		{ServiceID: uberOneServiceID, MonthlyValue: 19.90, Frequency: models.FrequencyRarely},
	})

	require.Len(t, insights, 1)
	assert.Equal(t, "waste", insights[0].Type)
}

func TestTransportInsights_HighSpendAlert(t *testing.T) {
	insights := transportInsights([]models.ServiceEntry{
		{ServiceID: ridesServiceID, MonthlyValue: 700, Frequency: models.FrequencyAlways},
	})

	require.Len(t, insights, 2, "R$700 triggers both the recommendation and the behavior alert")
	assert.Equal(t, "optimization", insights[0].Type)
	assert.Equal(t, "behavior", insights[1].Type)
	assert.Contains(t, insights[1].Description, "8.400")
	assert.Contains(t, insights[1].Description, "teto de 5 corridas")
}

func TestTransportInsights_NoRidesService(t *testing.T) {
	insights := transportInsights([]models.ServiceEntry{
		{ServiceID: "netflix", MonthlyValue: 44.90, Frequency: models.FrequencyAlways},
	})
	assert.Empty(t, insights)
}

func TestPossibilities(t *testing.T) {
	got := possibilities(7000)

	require.Len(t, got, 5)
	assert.Equal(t, "2", got[0].Value)          // 7000/3000 trips
	assert.Equal(t, "R$ 910,00", got[1].Value)  // 7000*0.13 Selic
	assert.Equal(t, "46", got[2].Value)         // 7000/150 baskets
	assert.Equal(t, "1", got[3].Value)          // 7000/6000 reserve months
	assert.Equal(t, "14", got[4].Value)         // 7000/500 courses
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "900", formatThousands(900))
	assert.Equal(t, "8.400", formatThousands(8400))
	assert.Equal(t, "1.234.567", formatThousands(1234567))
}
