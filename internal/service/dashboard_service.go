package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/gasops-dashboard/internal/analytics"
	"github.com/nurpe/gasops-dashboard/internal/config"
	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/observability/metrics"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

// ReportLoader is the store-side contract: the union of all reports for the
// stations in [startDate, endDate] inclusive, deduplicated, already
// normalized, together with the partition names that were queried.
type ReportLoader interface {
	LoadReports(ctx context.Context, stationIDs []uuid.UUID, startDate, endDate string) ([]model.NormalizedReport, []string, error)
}

type DocumentLoader interface {
	LoadDocuments(ctx context.Context, stationIDs []uuid.UUID) ([]model.Document, error)
	LoadDocumentTypes(ctx context.Context) (map[uuid.UUID]string, error)
}

type StationDirectory interface {
	ListStations(ctx context.Context) ([]model.Station, error)
}

// DashboardService coordinates one load cycle: fetch a fixed-lookback
// superset of reports and documents for the managed stations, run every
// analysis against it with its own filter, and publish one consolidated
// snapshot. States move Idle → Loading → Ready, or Loading → Error; an
// errored service stays callable.
type DashboardService struct {
	reports   ReportLoader
	documents DocumentLoader
	stations  StationDirectory
	cfg       config.DashboardConfig
	log       zerolog.Logger

	mu          sync.Mutex
	state       model.DashboardState
	inFlight    bool
	lastTrigger time.Time
	lastError   string
	snapshot    model.DashboardSnapshot
}

type RefreshInput struct {
	StationIDs []uuid.UUID
	Filters    model.AnalyticsFilters
	// AsOf anchors all window math; zero means now.
	AsOf time.Time
}

func NewDashboardService(reports ReportLoader, documents DocumentLoader, stations StationDirectory, cfg config.DashboardConfig, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		reports:   reports,
		documents: documents,
		stations:  stations,
		cfg:       cfg,
		log:       log,
		state:     model.DashboardIdle,
	}
}

// Refresh runs one load cycle. A trigger arriving within the debounce window
// of the previous one while a load is still in flight is dropped with
// ErrLoadInFlight; the in-flight load is never cancelled. An empty station
// set short-circuits to Ready with empty results and no store calls.
func (s *DashboardService) Refresh(ctx context.Context, input RefreshInput) error {
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	s.mu.Lock()
	if s.inFlight && asOf.Sub(s.lastTrigger) < s.cfg.Debounce {
		s.mu.Unlock()
		return ErrLoadInFlight
	}
	s.lastTrigger = asOf

	if len(input.StationIDs) == 0 {
		s.state = model.DashboardReady
		s.lastError = ""
		s.snapshot = model.DashboardSnapshot{
			Counters: model.DebugCounters{LastLoadedAt: asOf},
		}
		s.mu.Unlock()
		return nil
	}

	s.inFlight = true
	s.state = model.DashboardLoading
	s.mu.Unlock()

	started := time.Now()
	snap, err := s.load(ctx, input, asOf)
	if err != nil {
		metrics.ObserveDashboardLoad("error", time.Since(started).Seconds())
		s.mu.Lock()
		s.state = model.DashboardError
		s.lastError = err.Error()
		// snapshot (and with it the debug counters) keeps the last
		// successful cycle's values
		s.inFlight = false
		s.mu.Unlock()
		return err
	}

	metrics.ObserveDashboardLoad("success", time.Since(started).Seconds())
	metrics.SetLoadedCounts(snap.Counters.ReportsLoaded, snap.Counters.DocumentsLoaded, snap.Counters.StationsManaged)

	s.mu.Lock()
	s.state = model.DashboardReady
	s.lastError = ""
	s.snapshot = snap
	s.inFlight = false
	s.mu.Unlock()
	return nil
}

func (s *DashboardService) load(ctx context.Context, input RefreshInput, asOf time.Time) (model.DashboardSnapshot, error) {
	if s.cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.LoadTimeout)
		defer cancel()
	}

	lookback := s.cfg.LookbackDays
	if lookback <= 0 {
		lookback = 30
	}
	end := period.DateOnly(asOf)
	start := end.AddDate(0, 0, -lookback)

	reports, partitions, err := s.reports.LoadReports(ctx, input.StationIDs,
		start.Format(period.DateLayout), end.Format(period.DateLayout))
	if err != nil {
		return model.DashboardSnapshot{}, err
	}

	documents, err := s.documents.LoadDocuments(ctx, input.StationIDs)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	docTypes, err := s.documents.LoadDocumentTypes(ctx)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}

	all, err := s.stations.ListStations(ctx)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	managed := managedStations(all, input.StationIDs)

	snap := s.runAnalyses(reports, documents, docTypes, managed, input.Filters, asOf)
	snap.Counters = model.DebugCounters{
		ReportsLoaded:     len(reports),
		DocumentsLoaded:   len(documents),
		StationsManaged:   len(input.StationIDs),
		PartitionsQueried: partitions,
		LastLoadedAt:      asOf,
	}
	return snap, nil
}

// runAnalyses computes the six views plus the gas-and-payments aggregation.
// Each analysis is isolated: a panic inside one leaves its slice empty and
// the other results intact.
func (s *DashboardService) runAnalyses(
	reports []model.NormalizedReport,
	documents []model.Document,
	docTypes map[uuid.UUID]string,
	managed []model.Station,
	filters model.AnalyticsFilters,
	asOf time.Time,
) model.DashboardSnapshot {
	var snap model.DashboardSnapshot
	s.guard("autopilot", func() {
		snap.Autopilot = analytics.AutopilotTotals(reports, filters.Autopilot, asOf)
	})
	s.guard("comparison", func() {
		snap.Comparison = analytics.Comparison(reports)
	})
	s.guard("negative_difference", func() {
		snap.NegativeDifference = analytics.NegativeDifference(reports, filters.Negative, asOf)
	})
	s.guard("missing_reports", func() {
		snap.MissingReports = analytics.MissingReports(reports, managed, filters.Missing, asOf)
	})
	s.guard("control_sum", func() {
		snap.ControlSum = analytics.ControlSumDifference(reports, filters.ControlSum, asOf, s.cfg.SignificantDiff)
	})
	s.guard("expired_documents", func() {
		snap.ExpiredDocuments = analytics.ExpiredDocuments(documents, docTypes, asOf)
	})
	s.guard("gas_payments", func() {
		snap.GasPayments = analytics.GasAndPaymentsByStation(reports, filters.GasPayments, asOf)
	})
	return snap
}

func (s *DashboardService) guard(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.AnalysisFailure(name)
			s.log.Error().Interface("panic", r).Str("analysis", name).
				Msg("analysis failed, returning empty result")
		}
	}()
	fn()
}

// Current returns the state, the latest consolidated snapshot and the last
// error message. The snapshot is replaced wholesale on success, so a reader
// never sees a half-updated result set.
func (s *DashboardService) Current() (model.DashboardState, model.DashboardSnapshot, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.snapshot, s.lastError
}

func managedStations(all []model.Station, ids []uuid.UUID) []model.Station {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var managed []model.Station
	for _, st := range all {
		if _, ok := want[st.ID]; ok {
			managed = append(managed, st)
		}
	}
	return managed
}
