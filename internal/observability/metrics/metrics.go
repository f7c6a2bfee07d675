// Package metrics registers the dashboard's Prometheus instruments. Init is
// idempotent; the observation helpers are no-ops until it runs, so unit
// tests never touch the default registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "gasops_"

var (
	registerOnce sync.Once

	dashboardLoads   *prometheus.CounterVec
	dashboardLatency *prometheus.HistogramVec

	analysisFailures *prometheus.CounterVec

	loadedReports   prometheus.Gauge
	loadedDocuments prometheus.Gauge
	managedStations prometheus.Gauge

	exportsTotal *prometheus.CounterVec
)

func Init() {
	registerOnce.Do(func() {
		dashboardLoads = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dashboard_loads_total",
				Help: "Dashboard load cycles by result",
			},
			[]string{"result"},
		)
		dashboardLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dashboard_load_seconds",
				Help:    "Dashboard load cycle duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		analysisFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "analysis_failures_total",
				Help: "Per-analysis isolated failures",
			},
			[]string{"analysis"},
		)
		loadedReports = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "loaded_reports",
			Help: "Reports loaded in the last successful cycle",
		})
		loadedDocuments = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "loaded_documents",
			Help: "Documents loaded in the last successful cycle",
		})
		managedStations = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "managed_stations",
			Help: "Stations in the last refresh's ownership set",
		})
		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Generated export files by kind",
			},
			[]string{"kind"},
		)

		prometheus.MustRegister(
			dashboardLoads,
			dashboardLatency,
			analysisFailures,
			loadedReports,
			loadedDocuments,
			managedStations,
			exportsTotal,
		)
	})
}

func ObserveDashboardLoad(result string, seconds float64) {
	if dashboardLoads == nil {
		return
	}
	dashboardLoads.WithLabelValues(result).Inc()
	dashboardLatency.WithLabelValues(result).Observe(seconds)
}

func SetLoadedCounts(reports, documents, stations int) {
	if loadedReports == nil {
		return
	}
	loadedReports.Set(float64(reports))
	loadedDocuments.Set(float64(documents))
	managedStations.Set(float64(stations))
}

func AnalysisFailure(name string) {
	if analysisFailures == nil {
		return
	}
	analysisFailures.WithLabelValues(name).Inc()
}

func ExportGenerated(kind string) {
	if exportsTotal == nil {
		return
	}
	exportsTotal.WithLabelValues(kind).Inc()
}
