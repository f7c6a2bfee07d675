package main

import (
	"fmt"
	"os"

	"github.com/nurpe/gasops-dashboard/internal/auth"
	"github.com/nurpe/gasops-dashboard/internal/config"
	"github.com/nurpe/gasops-dashboard/internal/db"
	"github.com/nurpe/gasops-dashboard/internal/excel"
	httphandler "github.com/nurpe/gasops-dashboard/internal/http"
	"github.com/nurpe/gasops-dashboard/internal/http/middleware"
	"github.com/nurpe/gasops-dashboard/internal/logger"
	"github.com/nurpe/gasops-dashboard/internal/observability/metrics"
	"github.com/nurpe/gasops-dashboard/internal/pdf"
	"github.com/nurpe/gasops-dashboard/internal/repository"
	"github.com/nurpe/gasops-dashboard/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)
	metrics.Init()

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	reportRepo := repository.NewReportRepository(database, log)
	documentRepo := repository.NewDocumentRepository(database)
	stationRepo := repository.NewStationRepository(database)
	settlementRepo := repository.NewSettlementRepository(database)

	dashboardService := service.NewDashboardService(reportRepo, documentRepo, stationRepo, cfg.Dashboard, log)
	exportService := service.NewExportService(reportRepo, excel.NewGenerator(), log)
	settlementService := service.NewSettlementService(settlementRepo, stationRepo, pdf.NewGenerator(), log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(dashboardService, exportService, settlementService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting dashboard service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
