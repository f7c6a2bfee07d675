package model

import (
	"time"

	"github.com/google/uuid"
)

// AutopilotStationTotal is one row of the autopilot analysis, ordered lowest
// total first so under-reporting stations surface at the top of the list.
type AutopilotStationTotal struct {
	StationID    uuid.UUID
	StationName  string
	Total        float64
	ReportsCount int
	Average      float64
}

type ComparisonEntry struct {
	StationID        uuid.UUID
	StationName      string
	LatestDate       string
	PreviousDate     string
	LatestGas        float64
	PreviousGas      float64
	Difference       float64
	PercentageChange float64
}

type NegativeDifferenceEntry struct {
	StationID    uuid.UUID
	StationName  string
	ReportDate   string
	HoseTotalGas float64
	Autopilot    float64
	Difference   float64 // always negative
}

type MissingReport struct {
	StationID   uuid.UUID
	StationName string
	Date        string
}

type ChannelDifference struct {
	Channel     string
	Actual      float64
	Control     float64
	Difference  float64
	Significant bool
}

type ControlSumEntry struct {
	StationID       uuid.UUID
	StationName     string
	ReportDate      string
	Channels        []ChannelDifference
	TotalActual     float64
	TotalControl    float64
	TotalDifference float64
}

type ExpiredDocument struct {
	StationID   uuid.UUID
	StationName string
	DocType     string
	DocNumber   string
	ExpiryDate  time.Time
	DaysOverdue int
}

type StationGasPayments struct {
	StationID         uuid.UUID
	StationName       string
	ReportsCount      int
	TotalGas          float64
	Cash              float64
	Humo              float64
	Uzcard            float64
	Electronic        float64
	TotalPayments     float64
	CashPercent       float64
	HumoPercent       float64
	UzcardPercent     float64
	ElectronicPercent float64
}

type GasPaymentsSummary struct {
	PeriodLabel   string
	ReportsCount  int
	TotalGas      float64
	Cash          float64
	Humo          float64
	Uzcard        float64
	Electronic    float64
	TotalPayments float64
}

// AnalyticsFilters carries the per-analysis period tags selected in the UI.
// Empty tags fall back to each analysis's default window.
type AnalyticsFilters struct {
	Autopilot   string
	Negative    string
	Missing     string
	ControlSum  string
	GasPayments string
}

type DashboardState string

const (
	DashboardIdle    DashboardState = "IDLE"
	DashboardLoading DashboardState = "LOADING"
	DashboardReady   DashboardState = "READY"
	DashboardError   DashboardState = "ERROR"
)

// DebugCounters are troubleshooting figures surfaced next to the results.
// They retain the last successful load's values across a failed cycle.
type DebugCounters struct {
	ReportsLoaded     int
	DocumentsLoaded   int
	StationsManaged   int
	PartitionsQueried []string
	LastLoadedAt      time.Time
}

// DashboardSnapshot is the consolidated result of one orchestrator cycle.
// It is replaced atomically; readers never observe a partially-built set.
type DashboardSnapshot struct {
	Autopilot          []AutopilotStationTotal
	Comparison         []ComparisonEntry
	NegativeDifference []NegativeDifferenceEntry
	MissingReports     []MissingReport
	ControlSum         []ControlSumEntry
	ExpiredDocuments   []ExpiredDocument
	GasPayments        []StationGasPayments
	Counters           DebugCounters
}
