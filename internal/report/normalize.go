// Package report converts the two historical report payload shapes into one
// canonical record. The current PaymentData fields win whenever they are
// present: zero is a value, only a nil pointer falls back to the legacy
// GeneralData fields. Control sums always come from GeneralData regardless of
// the shape the actuals were saved in.
package report

import "github.com/nurpe/gasops-dashboard/internal/model"

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func pick(current, legacy *float64) float64 {
	if current != nil {
		return *current
	}
	return deref(legacy)
}

// Normalize produces the canonical record for one raw report. It is run once
// per record at load time; analyses operate only on the result.
func Normalize(r model.Report) model.NormalizedReport {
	gd := r.GeneralData
	if gd == nil {
		gd = &model.GeneralData{}
	}
	pd := r.PaymentData

	n := model.NormalizedReport{
		StationID:    r.StationID,
		StationName:  r.StationName,
		ReportDate:   r.ReportDate,
		HoseTotalGas: r.HoseTotalGas,

		Autopilot: deref(gd.AutopilotReading),

		ControlTotal:      deref(gd.ControlTotalSum),
		ControlHumo:       deref(gd.ControlHumoSum),
		ControlUzcard:     deref(gd.ControlUzcardSum),
		ControlClick:      deref(gd.ControlClickSum),
		ControlPayme:      deref(gd.ControlPaymeSum),
		ControlPaynet:     deref(gd.ControlPaynetSum),
		ControlElectronic: deref(gd.ControlElectronicSum),
	}

	if pd == nil {
		n.Cash = deref(gd.CashAmount)
		n.Humo = deref(gd.HumoTerminal)
		n.Uzcard = deref(gd.UzcardTerminal)
		n.Electronic = deref(gd.ElectronicPaymentSystem)
		return n
	}

	n.Cash = pick(pd.Zhisobot, gd.CashAmount)
	n.Humo = pick(pd.Humo, gd.HumoTerminal)
	n.Uzcard = pick(pd.Uzcard, gd.UzcardTerminal)
	n.Click = deref(pd.Click)
	n.Payme = deref(pd.Payme)
	n.Paynet = deref(pd.Paynet)

	n.ElectronicNewShapePresent = pd.Click != nil || pd.Payme != nil || pd.Paynet != nil

	// The source system could not tell a genuinely zero electronic total in
	// the current shape from "use the legacy field"; an exact zero still
	// falls back for compatibility. ElectronicNewShapePresent lets callers
	// spot the ambiguous records.
	electronic := n.Click + n.Payme + n.Paynet
	if electronic == 0 {
		electronic = deref(gd.ElectronicPaymentSystem)
	}
	n.Electronic = electronic

	n.TotalPayments = deref(pd.Zhisobot) + deref(pd.Humo) + deref(pd.Uzcard) +
		deref(pd.Click) + deref(pd.Payme) + deref(pd.Paynet)

	return n
}

// NormalizeAll maps Normalize over a batch.
func NormalizeAll(raw []model.Report) []model.NormalizedReport {
	out := make([]model.NormalizedReport, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r))
	}
	return out
}
