package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
	"github.com/nurpe/gasops-dashboard/internal/report"
)

// LegacyReportsTable holds reports written before the store was split into
// quarter partitions. It is always queried alongside the partitions; a
// partitioned copy of the same (station, date) wins over the legacy one.
const LegacyReportsTable = "station_reports"

type ReportRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewReportRepository(db *gorm.DB, log zerolog.Logger) *ReportRepository {
	return &ReportRepository{db: db, log: log}
}

type reportRow struct {
	StationID   uuid.UUID
	StationName string
	ReportDate  string
	Payload     []byte
}

type reportPayload struct {
	HoseTotalGas float64            `json:"hoseTotalGas"`
	GeneralData  *model.GeneralData `json:"generalData"`
	PaymentData  *model.PaymentData `json:"paymentData"`
}

// LoadReports returns the deduplicated, normalized union of all reports for
// the stations whose date lies in [startDate, endDate] inclusive, drawn from
// every quarter partition overlapping the range plus the legacy table. An
// individual partition failure is logged and skipped; the call fails only
// when no relation could be queried at all. The second return lists the
// partitions actually queried, for the dashboard debug counters.
func (r *ReportRepository) LoadReports(ctx context.Context, stationIDs []uuid.UUID, startDate, endDate string) ([]model.NormalizedReport, []string, error) {
	if len(stationIDs) == 0 {
		return nil, nil, nil
	}

	start, ok := period.Parse(startDate)
	if !ok {
		return nil, nil, fmt.Errorf("invalid start date %q", startDate)
	}
	end, ok := period.Parse(endDate)
	if !ok {
		return nil, nil, fmt.Errorf("invalid end date %q", endDate)
	}

	type key struct {
		station uuid.UUID
		date    string
	}
	merged := make(map[key]model.Report)
	var order []key

	var queried []string
	var lastErr error
	collect := func(table, tag string) {
		exists, err := r.relationExists(ctx, table)
		if err != nil {
			lastErr = err
			r.log.Warn().Err(err).Str("partition", table).Msg("report partition check failed, skipping")
			return
		}
		if !exists {
			return
		}
		rows, err := r.queryTable(ctx, table, stationIDs, startDate, endDate)
		if err != nil {
			lastErr = err
			r.log.Warn().Err(err).Str("partition", table).Msg("report partition query failed, skipping")
			return
		}
		queried = append(queried, tag)
		for _, row := range rows {
			k := key{station: row.StationID, date: row.ReportDate}
			if _, ok := merged[k]; ok {
				continue
			}
			raw, err := decodeReport(row)
			if err != nil {
				r.log.Warn().Err(err).
					Str("station_id", row.StationID.String()).
					Str("report_date", row.ReportDate).
					Msg("malformed report payload, skipping")
				continue
			}
			merged[k] = raw
			order = append(order, k)
		}
	}

	for _, tag := range period.QuarterPartitions(start, end) {
		collect(partitionTable(tag), tag)
	}
	collect(LegacyReportsTable, "legacy")

	if len(queried) == 0 && lastErr != nil {
		return nil, nil, lastErr
	}

	raw := make([]model.Report, 0, len(order))
	for _, k := range order {
		raw = append(raw, merged[k])
	}
	return report.NormalizeAll(raw), queried, nil
}

func (r *ReportRepository) queryTable(ctx context.Context, table string, stationIDs []uuid.UUID, startDate, endDate string) ([]reportRow, error) {
	var rows []reportRow
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT
			station_id,
			station_name,
			to_char(report_date, 'YYYY-MM-DD') AS report_date,
			payload
		FROM %s
		WHERE station_id = ANY(?)
			AND report_date >= ?::date
			AND report_date <= ?::date
		ORDER BY report_date ASC
	`, table), stationIDs, startDate, endDate).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// relationExists distinguishes a genuinely absent relation from a failed
// check: only a successful probe may report absence, anything else surfaces
// as an error so an unreachable store is not mistaken for an empty one.
func (r *ReportRepository) relationExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw(`SELECT to_regclass(?) IS NOT NULL`, name).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists, nil
}

func decodeReport(row reportRow) (model.Report, error) {
	var payload reportPayload
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return model.Report{}, err
		}
	}
	return model.Report{
		StationID:    row.StationID,
		StationName:  row.StationName,
		ReportDate:   row.ReportDate,
		HoseTotalGas: payload.HoseTotalGas,
		GeneralData:  payload.GeneralData,
		PaymentData:  payload.PaymentData,
	}, nil
}

var romanQuarters = map[string]int{"I": 1, "II": 2, "III": 3, "IV": 4}

// partitionTable maps a quarter tag ("QII_2024") to its physical table name
// ("station_reports_q2_2024").
func partitionTable(tag string) string {
	parts := strings.SplitN(tag, "_", 2)
	if len(parts) != 2 {
		return LegacyReportsTable
	}
	quarter := romanQuarters[strings.TrimPrefix(parts[0], "Q")]
	return fmt.Sprintf("%s_q%d_%s", LegacyReportsTable, quarter, parts[1])
}
