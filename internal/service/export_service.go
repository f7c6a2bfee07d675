package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/gasops-dashboard/internal/analytics"
	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

type ExcelGenerator interface {
	Generate(summary model.GasPaymentsSummary, stations []model.StationGasPayments) ([]byte, error)
}

// ExportService renders the gas-and-payments report for an explicit date
// range as a workbook.
type ExportService struct {
	reports ReportLoader
	excel   ExcelGenerator
	log     zerolog.Logger
}

type ExportGasPaymentsInput struct {
	StationIDs []uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Principal  model.Principal
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewExportService(reports ReportLoader, excel ExcelGenerator, log zerolog.Logger) *ExportService {
	return &ExportService{reports: reports, excel: excel, log: log}
}

func (s *ExportService) ExportGasPayments(ctx context.Context, input ExportGasPaymentsInput) (*ExportResult, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}
	start := period.DateOnly(input.StartDate)
	end := period.DateOnly(input.EndDate)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start_date must be before or equal to end_date", ErrInvalidInput)
	}

	stationIDs := input.StationIDs
	if len(stationIDs) == 0 {
		stationIDs = input.Principal.StationIDs
	}
	if !input.Principal.IsAdmin() {
		for _, id := range stationIDs {
			if !input.Principal.ManagesStation(id) {
				return nil, ErrPermissionDenied
			}
		}
	}
	if len(stationIDs) == 0 {
		return nil, fmt.Errorf("%w: no stations selected", ErrInvalidInput)
	}

	reports, _, err := s.reports.LoadReports(ctx, stationIDs,
		start.Format(period.DateLayout), end.Format(period.DateLayout))
	if err != nil {
		return nil, err
	}

	summary := analytics.GasAndPaymentsForRange(reports, start, end)
	stations := analytics.StationBreakdown(reports, start, end)

	content, err := s.excel.Generate(summary, stations)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("gas-payments-%s-%s.xlsx",
		start.Format("20060102"), end.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
