package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custozero/custozero-api/internal/catalog"
	"github.com/custozero/custozero-api/internal/dto"
	"github.com/custozero/custozero-api/internal/models"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
)

// Waste share per reported usage frequency.
var wastePercentages = map[models.UsageFrequency]float64{
	models.FrequencyNever:     1.0,
	models.FrequencyRarely:    0.7,
	models.FrequencySometimes: 0.0,
	models.FrequencyAlways:    0.0,
}

// Savings scenarios as shares of the identified yearly waste.
const (
	savingsConservative = 0.20
	savingsRealistic    = 0.35
	savingsAggressive   = 0.50
)

// Ride-hailing rules, thresholds in BRL/month.
const (
	ridesServiceID        = "gastos-corridas"
	uberOneServiceID      = "uber-one"
	uberOneRecommendAbove = 300.0
	uberOneWasteBelow     = 199.0
	highSpendAlertAbove   = 500.0
	uberOnePrice          = 19.90
)

const maxServiceValue = 100000.0

// DiagnosticService is the scoring engine: it turns the questionnaire into
// the waste/savings report. Pure computation, no storage.
type DiagnosticService struct {
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewDiagnosticService constructs a DiagnosticService instance.
func NewDiagnosticService(logger *zap.Logger) *DiagnosticService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagnosticService{
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Compute validates the submission and produces the full report.
func (s *DiagnosticService) Compute(email string, req *dto.DiagnosticRequest) (*models.DiagnosticResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one service is required")
	}
	for _, svc := range req.Services {
		if !svc.Frequency.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown usage frequency %q", svc.Frequency))
		}
		if svc.MonthlyValue < 0 || svc.MonthlyValue > maxServiceValue {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("monthly value out of range for %q", svc.ServiceID))
		}
	}

	servicesMonthly := 0.0
	wasteMonthly := 0.0
	for _, svc := range req.Services {
		servicesMonthly += svc.MonthlyValue
		wasteMonthly += svc.MonthlyValue * wastePercentages[svc.Frequency]
	}

	habitsMonthly := 0.0
	for _, h := range req.Habits {
		habitsMonthly += h.Frequency * h.AvgSpent
	}

	financialMonthly := 0.0
	if req.FinancialBlock != nil {
		financialMonthly = req.FinancialBlock.TotalAnnuity/12 + req.FinancialBlock.MonthlyInterest
	}

	totalMonthly := servicesMonthly + habitsMonthly + financialMonthly
	wasteYearly := wasteMonthly * 12

	savings := models.SavingsScenarios{
		Conservative: wasteYearly * savingsConservative,
		Realistic:    wasteYearly * savingsRealistic,
		Aggressive:   wasteYearly * savingsAggressive,
	}

	result := &models.DiagnosticResult{
		ID:                uuid.NewString(),
		CreatedAt:         s.now().UTC(),
		Email:             email,
		Services:          req.Services,
		FinancialBlock:    req.FinancialBlock,
		Habits:            req.Habits,
		TotalMonthly:      totalMonthly,
		TotalYearly:       totalMonthly * 12,
		WasteMonthly:      wasteMonthly,
		WasteYearly:       wasteYearly,
		TopWasters:        rankTopWasters(req.Services),
		Savings:           savings,
		TransportInsights: transportInsights(req.Services),
		Possibilities:     possibilities(savings.Realistic),
	}

	s.logger.Info("diagnostic computed",
		zap.String("id", result.ID),
		zap.Int("services", len(req.Services)),
		zap.Float64("waste_yearly", wasteYearly),
	)
	return result, nil
}

func wasteLevel(freq models.UsageFrequency) models.WasteLevel {
	switch freq {
	case models.FrequencyNever:
		return models.WasteFull
	case models.FrequencyRarely:
		return models.WasteLowUse
	default:
		return models.WasteActive
	}
}

// rankTopWasters lists WASTE and LOW_USE services, biggest yearly spend
// first. Stable on ties so equal values keep submission order.
func rankTopWasters(services []models.ServiceEntry) []models.TopWaster {
	wasters := make([]models.TopWaster, 0, len(services))
	for _, svc := range services {
		level := wasteLevel(svc.Frequency)
		if level == models.WasteActive {
			continue
		}
		name := svc.Name
		logo := ""
		if entry := catalog.GetServiceByID(svc.ServiceID); entry != nil {
			if name == "" {
				name = entry.Name
			}
			logo = entry.Logo
		}
		if name == "" {
			name = svc.ServiceID
		}
		wasters = append(wasters, models.TopWaster{
			ServiceID:    svc.ServiceID,
			ServiceName:  name,
			Logo:         logo,
			MonthlyValue: svc.MonthlyValue,
			YearlyValue:  svc.MonthlyValue * 12,
			WasteLevel:   level,
		})
	}
	sort.SliceStable(wasters, func(i, j int) bool {
		return wasters[i].YearlyValue > wasters[j].YearlyValue
	})
	return wasters
}

// transportInsights applies the ride-hailing rules to the "gastos-corridas"
// pseudo-service, when present.
func transportInsights(services []models.ServiceEntry) []models.TransportInsight {
	var rides *models.ServiceEntry
	hasUberOne := false
	for i := range services {
		switch services[i].ServiceID {
		case ridesServiceID:
			rides = &services[i]
		case uberOneServiceID:
			hasUberOne = true
		}
	}
	if rides == nil {
		return nil
	}

	monthly := rides.MonthlyValue
	// Rough estimate, same heuristic the report has always used.
	ridesPerWeek := int(math.Round(monthly / 100))

	var insights []models.TransportInsight

	if monthly > uberOneRecommendAbove && !hasUberOne {
		insights = append(insights, models.TransportInsight{
			Type:  "optimization",
			Title: "Oportunidade de Economia",
			Description: fmt.Sprintf(
				"Você está deixando dinheiro na mesa! Com seu gasto de R$ %s, assinar o Uber One (R$ %s) traria um retorno líquido positivo em cashback, cobrindo a mensalidade e gerando economia.",
				formatAmount(monthly), formatAmount(uberOnePrice)),
			MonthlyValue: monthly,
			RidesPerWeek: ridesPerWeek,
		})
	}

	if monthly < uberOneWasteBelow && hasUberOne {
		insights = append(insights, models.TransportInsight{
			Type:  "waste",
			Title: "Prejuízo Detectado",
			Description: fmt.Sprintf(
				"Você gasta menos de R$ 200 em corridas, o que não cobre o custo da assinatura Uber One. Cancele e economize R$ %s por mês.",
				formatAmount(uberOnePrice)),
			MonthlyValue: monthly,
			RidesPerWeek: ridesPerWeek,
		})
	}

	if monthly > highSpendAlertAbove {
		suggested := ridesPerWeek - 2
		if suggested < 1 {
			suggested = 1
		}
		insights = append(insights, models.TransportInsight{
			Type:  "behavior",
			Title: "Alerta de Comportamento",
			Description: fmt.Sprintf(
				"Transporte é um dos seus maiores vilões! Você gasta mais de R$ %s/ano em apps de corrida. Tente estabelecer um teto de %d corridas por semana.",
				formatThousands(int(monthly*12)), suggested),
			MonthlyValue: monthly,
			RidesPerWeek: ridesPerWeek,
		})
	}

	return insights
}

// possibilities translates the realistic yearly savings into tangible
// equivalents for the report's closing section.
func possibilities(realistic float64) []models.Possibility {
	return []models.Possibility{
		{
			Icon:        "✈️",
			Title:       "Viagens",
			Value:       strconv.Itoa(int(realistic / 3000)),
			Description: "viagens nacionais por ano",
		},
		{
			Icon:        "💰",
			Title:       "Rendimento na Selic",
			Value:       "R$ " + formatAmount(realistic*0.13),
			Description: "em 1 ano investindo na Selic",
		},
		{
			Icon:        "❤️",
			Title:       "Cestas básicas",
			Value:       strconv.Itoa(int(realistic / 150)),
			Description: "cestas básicas doadas",
		},
		{
			Icon:        "🛡️",
			Title:       "Reserva de emergência",
			Value:       strconv.Itoa(int(realistic / 6000)),
			Description: "meses de reserva (baseado em R$ 6.000)",
		},
		{
			Icon:        "🎓",
			Title:       "Cursos",
			Value:       strconv.Itoa(int(realistic / 500)),
			Description: "cursos profissionalizantes",
		},
	}
}

// formatAmount renders a BRL amount with the pt-BR decimal comma.
func formatAmount(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}

// formatThousands renders an integer with pt-BR thousand separators.
func formatThousands(v int) string {
	s := strconv.Itoa(v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
