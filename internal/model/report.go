package model

import "github.com/google/uuid"

// Report is the raw daily record as stored by field staff. Payment figures are
// present in one of two historical payload shapes: the legacy flat fields under
// GeneralData, or the current PaymentData block. Fields are pointers so that an
// absent value can be told apart from an explicit zero.
type Report struct {
	StationID    uuid.UUID    `json:"stationId"`
	StationName  string       `json:"stationName"`
	ReportDate   string       `json:"reportDate"` // YYYY-MM-DD
	HoseTotalGas float64      `json:"hoseTotalGas"`
	GeneralData  *GeneralData `json:"generalData,omitempty"`
	PaymentData  *PaymentData `json:"paymentData,omitempty"`
}

// GeneralData carries the legacy payment fields, the control (declared) sums
// and the autopilot meter reading. Control sums only ever live here, even for
// reports saved in the current shape.
type GeneralData struct {
	CashAmount              *float64 `json:"cashAmount,omitempty"`
	HumoTerminal            *float64 `json:"humoTerminal,omitempty"`
	UzcardTerminal          *float64 `json:"uzcardTerminal,omitempty"`
	ElectronicPaymentSystem *float64 `json:"electronicPaymentSystem,omitempty"`
	AutopilotReading        *float64 `json:"autopilotReading,omitempty"`
	ControlTotalSum         *float64 `json:"controlTotalSum,omitempty"`
	ControlHumoSum          *float64 `json:"controlHumoSum,omitempty"`
	ControlUzcardSum        *float64 `json:"controlUzcardSum,omitempty"`
	ControlClickSum         *float64 `json:"controlClickSum,omitempty"`
	ControlPaymeSum         *float64 `json:"controlPaymeSum,omitempty"`
	ControlPaynetSum        *float64 `json:"controlPaynetSum,omitempty"`
	ControlElectronicSum    *float64 `json:"controlElectronicSum,omitempty"`
}

// PaymentData is the current payload shape. Zhisobot is the cash ledger total.
type PaymentData struct {
	Zhisobot *float64 `json:"zhisobot,omitempty"`
	Humo     *float64 `json:"humo,omitempty"`
	Uzcard   *float64 `json:"uzcard,omitempty"`
	Click    *float64 `json:"click,omitempty"`
	Payme    *float64 `json:"payme,omitempty"`
	Paynet   *float64 `json:"paynet,omitempty"`
}

// NormalizedReport is the canonical per-day record every analysis consumes.
// It is produced once per raw record at load time; analyses never see the raw
// two-shape payload.
type NormalizedReport struct {
	StationID    uuid.UUID
	StationName  string
	ReportDate   string
	HoseTotalGas float64

	Cash       float64
	Humo       float64
	Uzcard     float64
	Click      float64
	Payme      float64
	Paynet     float64
	Electronic float64

	// TotalPayments sums the current-shape fields only; reports saved in the
	// legacy shape carry 0 here.
	TotalPayments float64

	Autopilot float64

	ControlTotal      float64
	ControlHumo       float64
	ControlUzcard     float64
	ControlClick      float64
	ControlPayme      float64
	ControlPaynet     float64
	ControlElectronic float64

	// ElectronicNewShapePresent reports whether any of click/payme/paynet was
	// present in the current shape. When it is true and Electronic was taken
	// from the legacy field anyway, the record hit the zero-vs-fallback
	// ambiguity of the source system.
	ElectronicNewShapePresent bool
}
