package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

type fakeSettlementStore struct {
	settlements map[string]model.GasSettlement
	openings    []model.OpeningBalance
	periods     []model.SettlementPeriod
	prices      []model.GasPrice
}

func newFakeSettlementStore() *fakeSettlementStore {
	return &fakeSettlementStore{settlements: make(map[string]model.GasSettlement)}
}

func storeKey(stationID uuid.UUID, period string) string {
	return stationID.String() + "|" + period
}

func (f *fakeSettlementStore) Find(ctx context.Context, stationID uuid.UUID, period string) (*model.GasSettlement, error) {
	s, ok := f.settlements[storeKey(stationID, period)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeSettlementStore) Save(ctx context.Context, s model.GasSettlement) (*model.GasSettlement, error) {
	f.settlements[storeKey(s.StationID, s.Period)] = s
	return &s, nil
}

func (f *fakeSettlementStore) ListPeriods(ctx context.Context, stationID uuid.UUID) ([]model.SettlementPeriod, error) {
	return f.periods, nil
}

func (f *fakeSettlementStore) ListOpeningBalances(ctx context.Context) ([]model.OpeningBalance, error) {
	return f.openings, nil
}

func (f *fakeSettlementStore) ListPrices(ctx context.Context) ([]model.GasPrice, error) {
	return f.prices, nil
}

type fakePDFGenerator struct{}

func (fakePDFGenerator) Generate(settlement model.GasSettlement, stationName string) ([]byte, error) {
	return []byte("%PDF-1.4 " + stationName), nil
}

func admin() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: "ADMIN"}
}

func TestSaveSettlementRecomputesDerivedValues(t *testing.T) {
	station := uuid.New()
	store := newFakeSettlementStore()
	store.openings = []model.OpeningBalance{
		{StationID: station, StartBalance: 1000, StartDate: "2024-01-01"},
	}
	store.periods = []model.SettlementPeriod{
		{StationID: station, Period: "2024-01", Accrued: 500, Paid: 200},
		{StationID: station, Period: "2024-02", Accrued: 300, Paid: 400},
	}

	svc := NewSettlementService(store, &fakeStationDirectory{}, fakePDFGenerator{}, zerolog.Nop())

	price := 1500.0
	got, err := svc.Save(context.Background(), SaveSettlementInput{
		StationID:      station,
		Period:         "2024-03",
		TotalAccruedM3: 100,
		GasPrice:       &price,
		Paid:           50000,
		Principal:      admin(),
		AsOf:           time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// start = 1000 + (500-200) + (300-400); accrued = 100 m3 * 1500
	assert.InDelta(t, 1200, got.StartBalance, 1e-9)
	assert.InDelta(t, 150000, got.TotalAccruedAmount, 1e-9)
	assert.InDelta(t, 1200+150000-50000, got.EndBalance, 1e-9)
	assert.Equal(t, "2024-03", got.Period)
}

func TestSaveSettlementLimitFallback(t *testing.T) {
	station := uuid.New()
	svc := NewSettlementService(newFakeSettlementStore(), &fakeStationDirectory{}, fakePDFGenerator{}, zerolog.Nop())

	price := 1500.0
	limit := 75000.0
	got, err := svc.Save(context.Background(), SaveSettlementInput{
		StationID:      station,
		Period:         "2024-03",
		TotalAccruedM3: 0,
		GasPrice:       &price,
		LimitAmount:    &limit,
		Paid:           25000,
		Principal:      admin(),
	})
	require.NoError(t, err)

	// no metered volume, so the contracted limit is the accrual
	assert.InDelta(t, 75000, got.TotalAccruedAmount, 1e-9)
	assert.InDelta(t, 75000-25000, got.EndBalance, 1e-9)
}

func TestSaveSettlementResolvesPriceFromSchedule(t *testing.T) {
	station := uuid.New()
	store := newFakeSettlementStore()
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	store.prices = []model.GasPrice{
		{StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &feb, Price: 1400},
		{StartDate: feb, Price: 1600},
	}

	svc := NewSettlementService(store, &fakeStationDirectory{}, fakePDFGenerator{}, zerolog.Nop())

	got, err := svc.Save(context.Background(), SaveSettlementInput{
		StationID:      station,
		Period:         "2024-03",
		TotalAccruedM3: 10,
		Principal:      admin(),
	})
	require.NoError(t, err)

	assert.InDelta(t, 1600, got.GasPrice, 1e-9)
	assert.InDelta(t, 16000, got.TotalAccruedAmount, 1e-9)
}

func TestSaveSettlementValidation(t *testing.T) {
	svc := NewSettlementService(newFakeSettlementStore(), &fakeStationDirectory{}, fakePDFGenerator{}, zerolog.Nop())

	_, err := svc.Save(context.Background(), SaveSettlementInput{
		Period:    "2024-03",
		Principal: admin(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Save(context.Background(), SaveSettlementInput{
		StationID: uuid.New(),
		Period:    "not-a-period",
		Principal: admin(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettlementPermissions(t *testing.T) {
	owned := uuid.New()
	other := uuid.New()
	manager := model.Principal{UserID: uuid.New(), Role: "MANAGER", StationIDs: []uuid.UUID{owned}}

	store := newFakeSettlementStore()
	svc := NewSettlementService(store, &fakeStationDirectory{}, fakePDFGenerator{}, zerolog.Nop())

	_, err := svc.Get(context.Background(), manager, other, "2024-03")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Save(context.Background(), SaveSettlementInput{
		StationID: other,
		Period:    "2024-03",
		Principal: manager,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Get(context.Background(), manager, owned, "2024-03")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettlementStatement(t *testing.T) {
	station := uuid.New()
	store := newFakeSettlementStore()
	store.settlements[storeKey(station, "2024-03")] = model.GasSettlement{
		StationID: station,
		Period:    "2024-03",
	}
	directory := &fakeStationDirectory{stations: []model.Station{{ID: station, Name: "Chilonzor GS"}}}

	svc := NewSettlementService(store, directory, fakePDFGenerator{}, zerolog.Nop())

	result, err := svc.Statement(context.Background(), admin(), station, "2024-03")
	require.NoError(t, err)
	assert.Equal(t, "settlement-Chilonzor-GS-2024-03.pdf", result.FileName)
	assert.NotEmpty(t, result.Content)
}
