package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/gasops-dashboard/internal/balance"
	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

type SettlementStore interface {
	Find(ctx context.Context, stationID uuid.UUID, period string) (*model.GasSettlement, error)
	Save(ctx context.Context, s model.GasSettlement) (*model.GasSettlement, error)
	ListPeriods(ctx context.Context, stationID uuid.UUID) ([]model.SettlementPeriod, error)
	ListOpeningBalances(ctx context.Context) ([]model.OpeningBalance, error)
	ListPrices(ctx context.Context) ([]model.GasPrice, error)
}

type PDFGenerator interface {
	Generate(settlement model.GasSettlement, stationName string) ([]byte, error)
}

// SettlementService owns the monthly statement lifecycle. TotalAccruedAmount
// and EndBalance are recomputed on every save from the inputs of that save;
// stored derived values are never trusted to stay in sync on their own.
type SettlementService struct {
	store    SettlementStore
	stations StationDirectory
	pdf      PDFGenerator
	log      zerolog.Logger
}

func NewSettlementService(store SettlementStore, stations StationDirectory, pdf PDFGenerator, log zerolog.Logger) *SettlementService {
	return &SettlementService{store: store, stations: stations, pdf: pdf, log: log}
}

type SaveSettlementInput struct {
	StationID      uuid.UUID
	Period         string
	TotalAccruedM3 float64
	// GasPrice overrides the schedule; nil resolves the price effective at
	// the period's first day.
	GasPrice *float64
	// LimitAmount substitutes for the accrued amount when the station is
	// billed by contracted limit instead of metered volume.
	LimitAmount *float64
	Paid        float64

	MeterReadingM3       float64
	ConfigurationErrorM3 float64
	LowPressureM3        float64
	ActBasedM3           float64
	MeterDifferenceM3    float64
	OtherM3              float64

	Principal model.Principal
	AsOf      time.Time
}

func (s *SettlementService) Get(ctx context.Context, principal model.Principal, stationID uuid.UUID, periodTag string) (*model.GasSettlement, error) {
	if !principal.ManagesStation(stationID) {
		return nil, ErrPermissionDenied
	}
	settlement, err := s.store.Find(ctx, stationID, periodTag)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return settlement, nil
}

func (s *SettlementService) Save(ctx context.Context, input SaveSettlementInput) (*model.GasSettlement, error) {
	if input.StationID == uuid.Nil {
		return nil, fmt.Errorf("%w: station_id is required", ErrInvalidInput)
	}
	periodDate, ok := period.Parse(input.Period)
	if !ok {
		return nil, fmt.Errorf("%w: invalid period %q", ErrInvalidInput, input.Period)
	}
	if !input.Principal.ManagesStation(input.StationID) {
		return nil, ErrPermissionDenied
	}

	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	price, err := s.resolvePrice(ctx, input, periodDate, asOf)
	if err != nil {
		return nil, err
	}

	startBalance, err := s.startBalance(ctx, input.StationID, periodDate)
	if err != nil {
		return nil, err
	}

	// a station without metered accrual falls back to its contracted limit
	metered := input.TotalAccruedM3 * price
	var amount *float64
	if input.TotalAccruedM3 != 0 || input.LimitAmount == nil {
		amount = &metered
	}
	accrued := metered
	if amount == nil {
		accrued = *input.LimitAmount
	}

	settlement := model.GasSettlement{
		StationID:          input.StationID,
		Period:             periodDate.Format("2006-01"),
		StartBalance:       startBalance,
		TotalAccruedM3:     input.TotalAccruedM3,
		GasPrice:           price,
		TotalAccruedAmount: accrued,
		Paid:               input.Paid,
		EndBalance:         balance.EndBalance(startBalance, amount, input.LimitAmount, &input.Paid),

		MeterReadingM3:       input.MeterReadingM3,
		ConfigurationErrorM3: input.ConfigurationErrorM3,
		LowPressureM3:        input.LowPressureM3,
		ActBasedM3:           input.ActBasedM3,
		MeterDifferenceM3:    input.MeterDifferenceM3,
		OtherM3:              input.OtherM3,
	}

	return s.store.Save(ctx, settlement)
}

// Statement renders the settlement PDF for the station and period.
func (s *SettlementService) Statement(ctx context.Context, principal model.Principal, stationID uuid.UUID, periodTag string) (*ExportResult, error) {
	settlement, err := s.Get(ctx, principal, stationID, periodTag)
	if err != nil {
		return nil, err
	}

	stationName := stationID.String()
	if stations, err := s.stations.ListStations(ctx); err == nil {
		for _, st := range stations {
			if st.ID == stationID {
				stationName = st.Name
				break
			}
		}
	}

	content, err := s.pdf.Generate(*settlement, stationName)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(stationName)
	if name == "" {
		name = stationID.String()
	}
	return &ExportResult{
		FileName: fmt.Sprintf("settlement-%s-%s.pdf", name, settlement.Period),
		Content:  content,
	}, nil
}

func (s *SettlementService) resolvePrice(ctx context.Context, input SaveSettlementInput, periodDate, asOf time.Time) (float64, error) {
	if input.GasPrice != nil {
		return *input.GasPrice, nil
	}
	schedule, err := s.store.ListPrices(ctx)
	if err != nil {
		return 0, err
	}
	return balance.PriceForDate(schedule, periodDate, asOf), nil
}

func (s *SettlementService) startBalance(ctx context.Context, stationID uuid.UUID, periodDate time.Time) (float64, error) {
	openings, err := s.store.ListOpeningBalances(ctx)
	if err != nil {
		return 0, err
	}
	records, err := s.store.ListPeriods(ctx, stationID)
	if err != nil {
		return 0, err
	}
	return balance.StartBalance(openings, records, periodDate, stationID), nil
}
