package analytics

import (
	"math"
	"time"

	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

// DefaultSignificantDiff is the reconciliation tolerance: a channel is
// flagged only when the actual strays from the declared control sum by
// strictly more than this.
const DefaultSignificantDiff = 100.0

// ControlSumDifference reconciles each report's recorded payments against
// the declared control sums, channel by channel. A report makes the list
// only when at least one channel's |actual - control| exceeds the threshold
// (strict, so exactly-threshold stays quiet). The cash ledger total
// (zhisobot) reconciles against the declared grand total.
func ControlSumDifference(reports []model.NormalizedReport, tag string, asOf time.Time, threshold float64) []model.ControlSumEntry {
	if threshold <= 0 {
		threshold = DefaultSignificantDiff
	}

	var result []model.ControlSumEntry
	for _, r := range reports {
		if !period.InWindow(r.ReportDate, tag, asOf) {
			continue
		}

		channels := []model.ChannelDifference{
			channel("click", r.Click, r.ControlClick, threshold),
			channel("humo", r.Humo, r.ControlHumo, threshold),
			channel("payme", r.Payme, r.ControlPayme, threshold),
			channel("paynet", r.Paynet, r.ControlPaynet, threshold),
			channel("uzcard", r.Uzcard, r.ControlUzcard, threshold),
			channel("zhisobot", r.Cash, r.ControlTotal, threshold),
		}

		significant := false
		var totalActual, totalControl float64
		for _, ch := range channels {
			totalActual += ch.Actual
			totalControl += ch.Control
			if ch.Significant {
				significant = true
			}
		}
		if !significant {
			continue
		}

		result = append(result, model.ControlSumEntry{
			StationID:       r.StationID,
			StationName:     r.StationName,
			ReportDate:      r.ReportDate,
			Channels:        channels,
			TotalActual:     totalActual,
			TotalControl:    totalControl,
			TotalDifference: totalActual - totalControl,
		})
	}
	return result
}

func channel(name string, actual, control, threshold float64) model.ChannelDifference {
	diff := actual - control
	return model.ChannelDifference{
		Channel:     name,
		Actual:      actual,
		Control:     control,
		Difference:  diff,
		Significant: math.Abs(diff) > threshold,
	}
}
