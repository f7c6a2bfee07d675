package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type failingDriver struct{ err error }

func (d failingDriver) Open(string) (driver.Conn, error) { return nil, d.err }

type failingConnector struct{ err error }

func (c failingConnector) Connect(context.Context) (driver.Conn, error) { return nil, c.err }
func (c failingConnector) Driver() driver.Driver                        { return failingDriver{err: c.err} }

func unreachableDB(t *testing.T, err error) *gorm.DB {
	t.Helper()
	db, openErr := gorm.Open(postgres.New(postgres.Config{
		Conn: sql.OpenDB(failingConnector{err: err}),
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, openErr)
	return db
}

func TestLoadReportsUnreachableStoreFails(t *testing.T) {
	storeErr := errors.New("store unreachable")
	repo := NewReportRepository(unreachableDB(t, storeErr), zerolog.Nop())

	reports, queried, err := repo.LoadReports(context.Background(),
		[]uuid.UUID{uuid.New()}, "2024-04-01", "2024-05-01")

	require.Error(t, err, "a store where no relation can even be checked must not look empty")
	assert.ErrorContains(t, err, "store unreachable")
	assert.Empty(t, reports)
	assert.Empty(t, queried)
}

func TestLoadReportsEmptyStationSet(t *testing.T) {
	repo := NewReportRepository(unreachableDB(t, errors.New("store unreachable")), zerolog.Nop())

	reports, queried, err := repo.LoadReports(context.Background(), nil, "2024-04-01", "2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Empty(t, queried)
}

func TestPartitionTable(t *testing.T) {
	assert.Equal(t, "station_reports_q1_2024", partitionTable("QI_2024"))
	assert.Equal(t, "station_reports_q2_2024", partitionTable("QII_2024"))
	assert.Equal(t, "station_reports_q4_2023", partitionTable("QIV_2023"))
	assert.Equal(t, LegacyReportsTable, partitionTable("legacy"))
}
