package balance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

var (
	stationA = uuid.New()
	stationB = uuid.New()
)

func TestStartBalanceRollForward(t *testing.T) {
	openings := []model.OpeningBalance{
		{StationID: stationA, StartBalance: 1000, StartDate: "2024-01"},
	}
	records := []model.SettlementPeriod{
		{StationID: stationA, Period: "2024-01", Accrued: 500, Paid: 200},
		{StationID: stationA, Period: "2024-02", Accrued: 300, Paid: 400},
		{StationID: stationB, Period: "2024-01", Accrued: 9999, Paid: 0},
	}
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got := StartBalance(openings, records, asOf, stationA)
	assert.Equal(t, 1200.0, got)
}

func TestStartBalanceAsOfMonthExcluded(t *testing.T) {
	openings := []model.OpeningBalance{
		{StationID: stationA, StartBalance: 100, StartDate: "2024-01"},
	}
	records := []model.SettlementPeriod{
		{StationID: stationA, Period: "2024-03", Accrued: 50, Paid: 0},
	}
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 100.0, StartBalance(openings, records, asOf, stationA))
}

func TestStartBalanceNoOpening(t *testing.T) {
	got := StartBalance(nil, nil, time.Now(), stationA)
	assert.Equal(t, 0.0, got)
}

func TestStartBalanceUnparseableStartDate(t *testing.T) {
	openings := []model.OpeningBalance{
		{StationID: stationA, StartBalance: 777, StartDate: "when it began"},
	}
	records := []model.SettlementPeriod{
		{StationID: stationA, Period: "2024-01", Accrued: 100, Paid: 0},
	}
	got := StartBalance(openings, records, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), stationA)
	assert.Equal(t, 777.0, got, "raw opening balance is returned unmodified")
}

func TestStartBalanceDeterministic(t *testing.T) {
	openings := []model.OpeningBalance{
		{StationID: stationA, StartBalance: 10, StartDate: "2024-01"},
	}
	records := []model.SettlementPeriod{
		{StationID: stationA, Period: "2024-02", Accrued: 5, Paid: 1},
		{StationID: stationA, Period: "2024-01", Accrued: 3, Paid: 2},
	}
	asOf := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	first := StartBalance(openings, records, asOf, stationA)
	second := StartBalance(openings, records, asOf, stationA)
	assert.Equal(t, first, second)
	assert.Equal(t, 15.0, first)
}

func TestEndBalance(t *testing.T) {
	amount := 500.0
	limit := 300.0
	paid := 200.0

	assert.Equal(t, 1300.0, EndBalance(1000, &amount, &limit, &paid))
	assert.Equal(t, 1100.0, EndBalance(1000, nil, &limit, &paid))
	assert.Equal(t, 800.0, EndBalance(1000, nil, nil, &paid))
	assert.Equal(t, 1000.0, EndBalance(1000, nil, nil, nil))
}

func TestPriceForDate(t *testing.T) {
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	aprEnd := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	schedule := []model.GasPrice{
		{StartDate: feb, EndDate: &aprEnd, Price: 1500},
		{StartDate: may, Price: 1700}, // open-ended
	}

	assert.Equal(t, 1500.0, PriceForDate(schedule, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 1700.0, PriceForDate(schedule, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0.0, PriceForDate(schedule, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0.0, PriceForDate(schedule, time.Time{}, now))
}

func TestPriceForDateOverlapFirstMatchWins(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	schedule := []model.GasPrice{
		{StartDate: jan, Price: 1000},
		{StartDate: jan, Price: 2000},
	}
	assert.Equal(t, 1000.0, PriceForDate(schedule, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), now))
}
