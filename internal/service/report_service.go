package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/custozero/custozero-api/internal/models"
	appErrors "github.com/custozero/custozero-api/pkg/errors"
	"github.com/custozero/custozero-api/pkg/export"
)

const reportKeyPrefix = "diagnostic:"

// ReportService stores computed diagnostics in Redis for the pass window and
// renders the downloadable artifacts. A result that ages out of the cache is
// simply recomputed by the SPA resubmitting the questionnaire.
type ReportService struct {
	redis   redis.Cmdable
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
}

// NewReportService constructs a ReportService instance.
func NewReportService(client redis.Cmdable, metrics *MetricsService, logger *zap.Logger, ttl time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReportService{
		redis:   client,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		metrics: metrics,
		logger:  logger,
		ttl:     ttl,
	}
}

// Store caches a computed result under its id.
func (s *ReportService) Store(ctx context.Context, result *models.DiagnosticResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal diagnostic result: %w", err)
	}
	if err := s.redis.Set(ctx, reportKeyPrefix+result.ID, payload, s.ttl).Err(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store diagnostic result")
	}
	s.logger.Info("diagnostic stored", zap.String("id", result.ID), zap.Duration("ttl", s.ttl))
	return nil
}

// Fetch loads a cached result by id.
func (s *ReportService) Fetch(ctx context.Context, id string) (*models.DiagnosticResult, error) {
	start := time.Now()
	payload, err := s.redis.Get(ctx, reportKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.metrics.RecordCacheOperation(false, time.Since(start))
			return nil, appErrors.Clone(appErrors.ErrNotFound, "diagnostic not found or expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load diagnostic result")
	}
	s.metrics.RecordCacheOperation(true, time.Since(start))

	var result models.DiagnosticResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode diagnostic result")
	}
	return &result, nil
}

// RenderPDF produces the downloadable report for a cached result.
func (s *ReportService) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	result, err := s.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := s.pdf.Render(reportDocument(result))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return pdfBytes, nil
}

// RenderCSV produces the service line items for a cached result.
func (s *ReportService) RenderCSV(ctx context.Context, id string) ([]byte, error) {
	result, err := s.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	csvBytes, err := s.csv.Render(reportDataset(result))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return csvBytes, nil
}

// reportDocument lays out the PDF: impact header, waste, ranking, savings
// and possibilities, mirroring the SPA report page.
func reportDocument(result *models.DiagnosticResult) export.Document {
	doc := export.Document{
		Title:    "Diagnóstico Financeiro Pessoal",
		Subtitle: fmt.Sprintf("%s - %s", result.Email, result.CreatedAt.Format("02/01/2006")),
	}

	doc.Sections = append(doc.Sections, export.Section{
		Heading: "Resumo",
		Lines: []string{
			fmt.Sprintf("Gasto mensal total: R$ %s", formatAmount(result.TotalMonthly)),
			fmt.Sprintf("Gasto anual total: R$ %s", formatAmount(result.TotalYearly)),
			fmt.Sprintf("Desperdício mensal: R$ %s", formatAmount(result.WasteMonthly)),
			fmt.Sprintf("Desperdício anual: R$ %s", formatAmount(result.WasteYearly)),
		},
	})

	if len(result.TopWasters) > 0 {
		table := &export.Dataset{Headers: []string{"Serviço", "Mensal (R$)", "Anual (R$)", "Nível"}}
		for _, w := range result.TopWasters {
			table.Rows = append(table.Rows, map[string]string{
				"Serviço":     w.ServiceName,
				"Mensal (R$)": formatAmount(w.MonthlyValue),
				"Anual (R$)":  formatAmount(w.YearlyValue),
				"Nível":       string(w.WasteLevel),
			})
		}
		doc.Sections = append(doc.Sections, export.Section{
			Heading: "Maiores desperdícios",
			Table:   table,
		})
	}

	doc.Sections = append(doc.Sections, export.Section{
		Heading: "Cenários de economia anual",
		Lines: []string{
			fmt.Sprintf("Conservador (20%%): R$ %s", formatAmount(result.Savings.Conservative)),
			fmt.Sprintf("Realista (35%%): R$ %s", formatAmount(result.Savings.Realistic)),
			fmt.Sprintf("Agressivo (50%%): R$ %s", formatAmount(result.Savings.Aggressive)),
		},
	})

	if len(result.TransportInsights) > 0 {
		section := export.Section{Heading: "Transporte"}
		for _, insight := range result.TransportInsights {
			section.Lines = append(section.Lines, fmt.Sprintf("%s: %s", insight.Title, insight.Description))
		}
		doc.Sections = append(doc.Sections, section)
	}

	if len(result.Possibilities) > 0 {
		section := export.Section{Heading: "O que você pode fazer com essa economia"}
		for _, p := range result.Possibilities {
			section.Lines = append(section.Lines, fmt.Sprintf("%s: %s %s", p.Title, p.Value, p.Description))
		}
		doc.Sections = append(doc.Sections, section)
	}

	return doc
}

// reportDataset flattens the submitted services into CSV line items.
func reportDataset(result *models.DiagnosticResult) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"service_id", "name", "frequency", "monthly_value", "yearly_value", "waste_level"},
	}
	for _, svc := range result.Services {
		name := svc.Name
		if name == "" {
			name = svc.ServiceID
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"service_id":    svc.ServiceID,
			"name":          name,
			"frequency":     string(svc.Frequency),
			"monthly_value": strconv.FormatFloat(svc.MonthlyValue, 'f', 2, 64),
			"yearly_value":  strconv.FormatFloat(svc.MonthlyValue*12, 'f', 2, 64),
			"waste_level":   string(wasteLevel(svc.Frequency)),
		})
	}
	return dataset
}
