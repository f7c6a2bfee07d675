package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/gasops-dashboard/internal/config"
	"github.com/nurpe/gasops-dashboard/internal/model"
)

type fakeReportLoader struct {
	mu         sync.Mutex
	reports    []model.NormalizedReport
	partitions []string
	err        error
	calls      int
	block      chan struct{}
}

func (f *fakeReportLoader) LoadReports(ctx context.Context, stationIDs []uuid.UUID, startDate, endDate string) ([]model.NormalizedReport, []string, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.reports, f.partitions, nil
}

func (f *fakeReportLoader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDocumentLoader struct {
	documents []model.Document
	types     map[uuid.UUID]string
	calls     int
}

func (f *fakeDocumentLoader) LoadDocuments(ctx context.Context, stationIDs []uuid.UUID) ([]model.Document, error) {
	f.calls++
	return f.documents, nil
}

func (f *fakeDocumentLoader) LoadDocumentTypes(ctx context.Context) (map[uuid.UUID]string, error) {
	return f.types, nil
}

type fakeStationDirectory struct {
	stations []model.Station
}

func (f *fakeStationDirectory) ListStations(ctx context.Context) ([]model.Station, error) {
	return f.stations, nil
}

func testConfig() config.DashboardConfig {
	return config.DashboardConfig{
		LookbackDays:    30,
		Debounce:        time.Second,
		SignificantDiff: 100,
	}
}

func nr(station uuid.UUID, name, date string) model.NormalizedReport {
	return model.NormalizedReport{StationID: station, StationName: name, ReportDate: date, HoseTotalGas: 10}
}

func TestRefreshEndToEnd(t *testing.T) {
	stationA := uuid.New()
	stationB := uuid.New()
	stationC := uuid.New()
	asOf := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	// 10 reports over 5 days
	reports := []model.NormalizedReport{
		nr(stationA, "A", "2024-05-06"),
		nr(stationA, "A", "2024-05-07"),
		nr(stationA, "A", "2024-05-08"),
		nr(stationA, "A", "2024-05-09"),
		nr(stationA, "A", "2024-05-10"),
		nr(stationB, "B", "2024-05-08"),
		nr(stationB, "B", "2024-05-09"),
		nr(stationB, "B", "2024-05-10"),
		nr(stationC, "C", "2024-05-09"),
		nr(stationC, "C", "2024-05-10"),
	}

	expired := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	documents := []model.Document{
		{StationID: stationA, StationName: "A", DocNumber: "L-1", ExpiryDate: &expired},
		{StationID: stationB, StationName: "B", DocNumber: "L-2", ExpiryDate: &future},
	}

	reportsLoader := &fakeReportLoader{reports: reports, partitions: []string{"QII_2024", "legacy"}}
	docsLoader := &fakeDocumentLoader{documents: documents, types: map[uuid.UUID]string{}}
	directory := &fakeStationDirectory{stations: []model.Station{
		{ID: stationA, Name: "A"},
		{ID: stationB, Name: "B"},
		{ID: stationC, Name: "C"},
	}}

	svc := NewDashboardService(reportsLoader, docsLoader, directory, testConfig(), zerolog.Nop())

	err := svc.Refresh(context.Background(), RefreshInput{
		StationIDs: []uuid.UUID{stationA, stationB, stationC},
		Filters:    model.AnalyticsFilters{Missing: "3days"},
		AsOf:       asOf,
	})
	require.NoError(t, err)

	state, snap, lastErr := svc.Current()
	assert.Equal(t, model.DashboardReady, state)
	assert.Empty(t, lastErr)

	assert.Equal(t, 10, snap.Counters.ReportsLoaded)
	assert.Equal(t, 2, snap.Counters.DocumentsLoaded)
	assert.Equal(t, 3, snap.Counters.StationsManaged)
	assert.Equal(t, []string{"QII_2024", "legacy"}, snap.Counters.PartitionsQueried)

	require.Len(t, snap.ExpiredDocuments, 1)
	assert.Equal(t, stationA, snap.ExpiredDocuments[0].StationID)

	// 3days window is 2024-05-07..2024-05-10; only B and C have gaps
	require.Len(t, snap.MissingReports, 3)
	assert.Equal(t, model.MissingReport{StationID: stationB, StationName: "B", Date: "2024-05-07"}, snap.MissingReports[0])
	assert.Equal(t, model.MissingReport{StationID: stationC, StationName: "C", Date: "2024-05-07"}, snap.MissingReports[1])
	assert.Equal(t, model.MissingReport{StationID: stationC, StationName: "C", Date: "2024-05-08"}, snap.MissingReports[2])
}

func TestRefreshEmptyStationSetSkipsLoaders(t *testing.T) {
	reportsLoader := &fakeReportLoader{}
	docsLoader := &fakeDocumentLoader{}
	svc := NewDashboardService(reportsLoader, docsLoader, &fakeStationDirectory{}, testConfig(), zerolog.Nop())

	err := svc.Refresh(context.Background(), RefreshInput{AsOf: time.Now()})
	require.NoError(t, err)

	state, snap, _ := svc.Current()
	assert.Equal(t, model.DashboardReady, state)
	assert.Equal(t, 0, snap.Counters.ReportsLoaded)
	assert.Equal(t, 0, reportsLoader.callCount(), "no store calls for an empty station set")
	assert.Equal(t, 0, docsLoader.calls)
}

func TestRefreshDebounce(t *testing.T) {
	station := uuid.New()
	asOf := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	block := make(chan struct{})
	reportsLoader := &fakeReportLoader{block: block}
	docsLoader := &fakeDocumentLoader{types: map[uuid.UUID]string{}}
	svc := NewDashboardService(reportsLoader, docsLoader, &fakeStationDirectory{}, testConfig(), zerolog.Nop())

	input := RefreshInput{StationIDs: []uuid.UUID{station}, AsOf: asOf}

	done := make(chan error, 1)
	go func() {
		done <- svc.Refresh(context.Background(), input)
	}()

	// wait for the first load to reach the blocking loader
	require.Eventually(t, func() bool {
		return reportsLoader.callCount() == 1
	}, time.Second, time.Millisecond)

	// a second trigger inside the debounce window is dropped
	second := input
	second.AsOf = asOf.Add(500 * time.Millisecond)
	err := svc.Refresh(context.Background(), second)
	assert.ErrorIs(t, err, ErrLoadInFlight)

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, reportsLoader.callCount())
}

func TestRefreshLoaderErrorKeepsCountersAndRecovers(t *testing.T) {
	station := uuid.New()
	asOf := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	reportsLoader := &fakeReportLoader{
		reports:    []model.NormalizedReport{nr(station, "A", "2024-05-10")},
		partitions: []string{"QII_2024"},
	}
	docsLoader := &fakeDocumentLoader{types: map[uuid.UUID]string{}}
	directory := &fakeStationDirectory{stations: []model.Station{{ID: station, Name: "A"}}}
	svc := NewDashboardService(reportsLoader, docsLoader, directory, testConfig(), zerolog.Nop())

	input := RefreshInput{StationIDs: []uuid.UUID{station}, AsOf: asOf}
	require.NoError(t, svc.Refresh(context.Background(), input))

	// the next cycle fails; counters from the successful cycle survive
	reportsLoader.err = errors.New("store unreachable")
	failing := input
	failing.AsOf = asOf.Add(5 * time.Second)
	err := svc.Refresh(context.Background(), failing)
	require.Error(t, err)

	state, snap, lastErr := svc.Current()
	assert.Equal(t, model.DashboardError, state)
	assert.Equal(t, "store unreachable", lastErr)
	assert.Equal(t, 1, snap.Counters.ReportsLoaded, "debug counters retain last success")

	// the orchestrator stays callable
	reportsLoader.err = nil
	recovered := input
	recovered.AsOf = asOf.Add(10 * time.Second)
	require.NoError(t, svc.Refresh(context.Background(), recovered))

	state, _, lastErr = svc.Current()
	assert.Equal(t, model.DashboardReady, state)
	assert.Empty(t, lastErr)
}

func TestGuardIsolatesPanics(t *testing.T) {
	svc := NewDashboardService(&fakeReportLoader{}, &fakeDocumentLoader{}, &fakeStationDirectory{}, testConfig(), zerolog.Nop())

	ran := false
	assert.NotPanics(t, func() {
		svc.guard("broken", func() { panic("boom") })
		svc.guard("healthy", func() { ran = true })
	})
	assert.True(t, ran, "a panic in one analysis must not stop the next")
}
