package model

import (
	"time"

	"github.com/google/uuid"
)

// GasSettlement is the monthly per-station statement. TotalAccruedAmount and
// EndBalance are derived and must be recomputed together whenever any input
// field changes; a stored settlement never carries stale derived values.
type GasSettlement struct {
	ID                 uuid.UUID
	StationID          uuid.UUID
	Period             string // YYYY-MM
	StartBalance       float64
	TotalAccruedM3     float64
	GasPrice           float64
	TotalAccruedAmount float64
	Paid               float64
	EndBalance         float64

	// Accrual breakdown, informational only. Not summed into TotalAccruedM3.
	MeterReadingM3       float64
	ConfigurationErrorM3 float64
	LowPressureM3        float64
	ActBasedM3           float64
	MeterDifferenceM3    float64
	OtherM3              float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpeningBalance is the station's balance anchor used by the carry-forward
// calculation. StartDate is kept as entered; an unparseable value means the
// raw balance is used as-is.
type OpeningBalance struct {
	StationID    uuid.UUID
	StartBalance float64
	StartDate    string
}

// SettlementPeriod is one month of accrual/payment history used to roll the
// opening balance forward.
type SettlementPeriod struct {
	StationID uuid.UUID
	Period    string // YYYY-MM
	Accrued   float64
	Paid      float64
}

// GasPrice is one entry of the price schedule. A nil EndDate means the entry
// is open-ended.
type GasPrice struct {
	StartDate time.Time
	EndDate   *time.Time
	Price     float64
}
