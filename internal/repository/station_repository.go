package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

type StationRepository struct {
	db *gorm.DB
}

func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{db: db}
}

func (r *StationRepository) ListStations(ctx context.Context) ([]model.Station, error) {
	var stations []model.Station
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, COALESCE(address, '') AS address, COALESCE(bank_ref, '') AS bank_ref
		FROM stations
		ORDER BY name ASC
	`).Scan(&stations).Error
	if err != nil {
		return nil, err
	}
	return stations, nil
}
