package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

type SettlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) Find(ctx context.Context, stationID uuid.UUID, period string) (*model.GasSettlement, error) {
	var s model.GasSettlement
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			station_id,
			period,
			start_balance,
			total_accrued_m3,
			gas_price,
			total_accrued_amount,
			paid,
			end_balance,
			meter_reading_m3,
			configuration_error_m3,
			low_pressure_m3,
			act_based_m3,
			meter_difference_m3,
			other_m3,
			created_at,
			updated_at
		FROM gas_settlements
		WHERE station_id = ? AND period = ?
		LIMIT 1
	`, stationID, period).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

// Save upserts the settlement for (station, period). Derived fields must
// already be recomputed by the caller; the store never recalculates them.
func (r *SettlementRepository) Save(ctx context.Context, s model.GasSettlement) (*model.GasSettlement, error) {
	var saved model.GasSettlement
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO gas_settlements (
			station_id,
			period,
			start_balance,
			total_accrued_m3,
			gas_price,
			total_accrued_amount,
			paid,
			end_balance,
			meter_reading_m3,
			configuration_error_m3,
			low_pressure_m3,
			act_based_m3,
			meter_difference_m3,
			other_m3
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (station_id, period) DO UPDATE SET
			start_balance = EXCLUDED.start_balance,
			total_accrued_m3 = EXCLUDED.total_accrued_m3,
			gas_price = EXCLUDED.gas_price,
			total_accrued_amount = EXCLUDED.total_accrued_amount,
			paid = EXCLUDED.paid,
			end_balance = EXCLUDED.end_balance,
			meter_reading_m3 = EXCLUDED.meter_reading_m3,
			configuration_error_m3 = EXCLUDED.configuration_error_m3,
			low_pressure_m3 = EXCLUDED.low_pressure_m3,
			act_based_m3 = EXCLUDED.act_based_m3,
			meter_difference_m3 = EXCLUDED.meter_difference_m3,
			other_m3 = EXCLUDED.other_m3,
			updated_at = NOW()
		RETURNING
			id,
			station_id,
			period,
			start_balance,
			total_accrued_m3,
			gas_price,
			total_accrued_amount,
			paid,
			end_balance,
			meter_reading_m3,
			configuration_error_m3,
			low_pressure_m3,
			act_based_m3,
			meter_difference_m3,
			other_m3,
			created_at,
			updated_at
	`,
		s.StationID,
		s.Period,
		s.StartBalance,
		s.TotalAccruedM3,
		s.GasPrice,
		s.TotalAccruedAmount,
		s.Paid,
		s.EndBalance,
		s.MeterReadingM3,
		s.ConfigurationErrorM3,
		s.LowPressureM3,
		s.ActBasedM3,
		s.MeterDifferenceM3,
		s.OtherM3,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListPeriods returns a station's full settlement history as carry-forward
// input records, oldest first.
func (r *SettlementRepository) ListPeriods(ctx context.Context, stationID uuid.UUID) ([]model.SettlementPeriod, error) {
	var rows []struct {
		StationID uuid.UUID
		Period    string
		Accrued   float64
		Paid      float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT station_id, period, total_accrued_amount AS accrued, paid
		FROM gas_settlements
		WHERE station_id = ?
		ORDER BY period ASC
	`, stationID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	periods := make([]model.SettlementPeriod, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, model.SettlementPeriod{
			StationID: row.StationID,
			Period:    row.Period,
			Accrued:   row.Accrued,
			Paid:      row.Paid,
		})
	}
	return periods, nil
}

func (r *SettlementRepository) ListOpeningBalances(ctx context.Context) ([]model.OpeningBalance, error) {
	var rows []model.OpeningBalance
	err := r.db.WithContext(ctx).Raw(`
		SELECT station_id, start_balance, start_date
		FROM station_opening_balances
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SettlementRepository) ListPrices(ctx context.Context) ([]model.GasPrice, error) {
	var rows []struct {
		StartDate time.Time
		EndDate   *time.Time
		Price     float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT start_date, end_date, price
		FROM gas_price_schedule
		ORDER BY start_date ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	prices := make([]model.GasPrice, 0, len(rows))
	for _, row := range rows {
		prices = append(prices, model.GasPrice{
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
			Price:     row.Price,
		})
	}
	return prices, nil
}
