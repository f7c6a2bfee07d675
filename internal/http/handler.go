package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/gasops-dashboard/internal/http/middleware"
	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/observability/metrics"
	"github.com/nurpe/gasops-dashboard/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	dashboard   *service.DashboardService
	exports     *service.ExportService
	settlements *service.SettlementService
	log         zerolog.Logger
}

func NewHandler(dashboard *service.DashboardService, exports *service.ExportService, settlements *service.SettlementService, log zerolog.Logger) *Handler {
	return &Handler{
		dashboard:   dashboard,
		exports:     exports,
		settlements: settlements,
		log:         log,
	}
}

func (h *Handler) Register(protected *gin.RouterGroup) {
	protected.GET("/dashboard", h.getDashboard)
	protected.POST("/dashboard/refresh", h.refreshDashboard)
	protected.POST("/reports/gas-payments/export", h.exportGasPayments)
	protected.GET("/settlements/:stationID/:period", h.getSettlement)
	protected.PUT("/settlements/:stationID/:period", h.saveSettlement)
	protected.GET("/settlements/:stationID/:period/pdf", h.settlementPDF)
}

type refreshFilters struct {
	Autopilot   string `json:"autopilot"`
	Negative    string `json:"negative"`
	Missing     string `json:"missing"`
	ControlSum  string `json:"control_sum"`
	GasPayments string `json:"gas_payments"`
}

type refreshRequest struct {
	StationIDs []string       `json:"station_ids"`
	Filters    refreshFilters `json:"filters"`
}

func (h *Handler) refreshDashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	// an empty body means "refresh my own stations with default filters"
	var req refreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	stationIDs, err := resolveStations(principal, req.StationIDs)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	input := service.RefreshInput{
		StationIDs: stationIDs,
		Filters: model.AnalyticsFilters{
			Autopilot:   req.Filters.Autopilot,
			Negative:    req.Filters.Negative,
			Missing:     req.Filters.Missing,
			ControlSum:  req.Filters.ControlSum,
			GasPayments: req.Filters.GasPayments,
		},
		AsOf: time.Now(),
	}

	if err := h.dashboard.Refresh(c.Request.Context(), input); err != nil {
		if errors.Is(err, service.ErrLoadInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.handleError(c, err)
		return
	}
	h.getDashboard(c)
}

func (h *Handler) getDashboard(c *gin.Context) {
	state, snapshot, lastError := h.dashboard.Current()
	c.JSON(http.StatusOK, gin.H{
		"state":   state,
		"error":   lastError,
		"results": snapshot,
	})
}

type exportRequest struct {
	StationIDs []string `json:"station_ids"`
	StartDate  string   `json:"start_date" binding:"required"`
	EndDate    string   `json:"end_date" binding:"required"`
}

func (h *Handler) exportGasPayments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	stationIDs, err := parseStationIDs(req.StationIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station_ids"})
		return
	}

	result, err := h.exports.ExportGasPayments(c.Request.Context(), service.ExportGasPaymentsInput{
		StationIDs: stationIDs,
		StartDate:  start,
		EndDate:    end,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	metrics.ExportGenerated("gas_payments_xlsx")
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

type saveSettlementRequest struct {
	TotalAccruedM3 float64  `json:"total_accrued_m3"`
	GasPrice       *float64 `json:"gas_price"`
	LimitAmount    *float64 `json:"limit_amount"`
	Paid           float64  `json:"paid"`

	MeterReadingM3       float64 `json:"meter_reading_m3"`
	ConfigurationErrorM3 float64 `json:"configuration_error_m3"`
	LowPressureM3        float64 `json:"low_pressure_m3"`
	ActBasedM3           float64 `json:"act_based_m3"`
	MeterDifferenceM3    float64 `json:"meter_difference_m3"`
	OtherM3              float64 `json:"other_m3"`
}

func (h *Handler) getSettlement(c *gin.Context) {
	principal, stationID, periodTag, ok := h.settlementParams(c)
	if !ok {
		return
	}

	settlement, err := h.settlements.Get(c.Request.Context(), principal, stationID, periodTag)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

func (h *Handler) saveSettlement(c *gin.Context) {
	principal, stationID, periodTag, ok := h.settlementParams(c)
	if !ok {
		return
	}

	var req saveSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.settlements.Save(c.Request.Context(), service.SaveSettlementInput{
		StationID:            stationID,
		Period:               periodTag,
		TotalAccruedM3:       req.TotalAccruedM3,
		GasPrice:             req.GasPrice,
		LimitAmount:          req.LimitAmount,
		Paid:                 req.Paid,
		MeterReadingM3:       req.MeterReadingM3,
		ConfigurationErrorM3: req.ConfigurationErrorM3,
		LowPressureM3:        req.LowPressureM3,
		ActBasedM3:           req.ActBasedM3,
		MeterDifferenceM3:    req.MeterDifferenceM3,
		OtherM3:              req.OtherM3,
		Principal:            principal,
		AsOf:                 time.Now(),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) settlementPDF(c *gin.Context) {
	principal, stationID, periodTag, ok := h.settlementParams(c)
	if !ok {
		return
	}

	result, err := h.settlements.Statement(c.Request.Context(), principal, stationID, periodTag)
	if err != nil {
		h.handleError(c, err)
		return
	}

	metrics.ExportGenerated("settlement_pdf")
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) settlementParams(c *gin.Context) (model.Principal, uuid.UUID, string, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, uuid.Nil, "", false
	}

	stationID, err := uuid.Parse(strings.TrimSpace(c.Param("stationID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station id"})
		return model.Principal{}, uuid.Nil, "", false
	}

	periodTag := strings.TrimSpace(c.Param("period"))
	if periodTag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
		return model.Principal{}, uuid.Nil, "", false
	}

	return principal, stationID, periodTag, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func resolveStations(principal model.Principal, raw []string) ([]uuid.UUID, error) {
	stationIDs, err := parseStationIDs(raw)
	if err != nil {
		return nil, errors.New("invalid station_ids")
	}
	if len(stationIDs) == 0 {
		return principal.StationIDs, nil
	}
	if !principal.IsAdmin() {
		for _, id := range stationIDs {
			if !principal.ManagesStation(id) {
				return nil, errors.New("station outside ownership set")
			}
		}
	}
	return stationIDs, nil
}

func parseStationIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
