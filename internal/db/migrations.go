package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS stations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(256) NOT NULL,
		address TEXT,
		bank_ref TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS document_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		label VARCHAR(256) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS station_documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		station_id UUID NOT NULL REFERENCES stations(id),
		doc_type_id UUID REFERENCES document_types(id),
		doc_number VARCHAR(128) NOT NULL DEFAULT '',
		issue_date DATE,
		expiry_date DATE,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_station_documents_station ON station_documents (station_id);`,
	`CREATE INDEX IF NOT EXISTS idx_station_documents_expiry ON station_documents (expiry_date) WHERE expiry_date IS NOT NULL;`,
	// legacy unpartitioned report group; quarter partitions share the layout
	`CREATE TABLE IF NOT EXISTS station_reports (
		station_id UUID NOT NULL REFERENCES stations(id),
		station_name VARCHAR(256) NOT NULL DEFAULT '',
		report_date DATE NOT NULL,
		payload JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (station_id, report_date)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_station_reports_date ON station_reports (report_date);`,
	`CREATE TABLE IF NOT EXISTS gas_settlements (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		station_id UUID NOT NULL REFERENCES stations(id),
		period VARCHAR(7) NOT NULL,
		start_balance NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_accrued_m3 NUMERIC(18,3) NOT NULL DEFAULT 0,
		gas_price NUMERIC(18,4) NOT NULL DEFAULT 0,
		total_accrued_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		paid NUMERIC(18,2) NOT NULL DEFAULT 0,
		end_balance NUMERIC(18,2) NOT NULL DEFAULT 0,
		meter_reading_m3 NUMERIC(18,3) NOT NULL DEFAULT 0,
		configuration_error_m3 NUMERIC(18,3) NOT NULL DEFAULT 0,
		low_pressure_m3 NUMERIC(18,3) NOT NULL DEFAULT 0,
		act_based_m3 NUMERIC(18,3) NOT NULL DEFAULT 0,
		meter_difference_m3 NUMERIC(18,3) NOT NULL DEFAULT 0,
		other_m3 NUMERIC(18,3) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_gas_settlements_station_period ON gas_settlements (station_id, period);`,
	`CREATE TABLE IF NOT EXISTS station_opening_balances (
		station_id UUID PRIMARY KEY REFERENCES stations(id),
		start_balance NUMERIC(18,2) NOT NULL DEFAULT 0,
		start_date VARCHAR(32) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS gas_price_schedule (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		start_date DATE NOT NULL,
		end_date DATE,
		price NUMERIC(18,4) NOT NULL
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return ensureCurrentPartitions(db)
}

// ensureCurrentPartitions creates the quarter report tables around the
// current date so the loader's 30-day lookback always finds its partitions.
// Stepping starts from the first day of the current quarter; raw 3-month
// arithmetic from a month-end date can normalize into the wrong quarter.
func ensureCurrentPartitions(db *gorm.DB) error {
	now := time.Now()
	quarterMonth := time.Month(((int(now.Month())-1)/3)*3 + 1)
	anchor := time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{anchor.AddDate(0, -3, 0), anchor} {
		quarter := (int(at.Month())-1)/3 + 1
		table := fmt.Sprintf("station_reports_q%d_%d", quarter, at.Year())
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			station_id UUID NOT NULL REFERENCES stations(id),
			station_name VARCHAR(256) NOT NULL DEFAULT '',
			report_date DATE NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (station_id, report_date)
		);`, table)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("partition %s failed: %w", table, err)
		}
	}
	return nil
}
