package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ttvMolten/Egov-services-db/internal/config"
	"github.com/ttvMolten/Egov-services-db/internal/db"
	"github.com/ttvMolten/Egov-services-db/internal/handler"
	"github.com/ttvMolten/Egov-services-db/internal/notify"
	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/ttvMolten/Egov-services-db/internal/repository"
	"github.com/ttvMolten/Egov-services-db/internal/server"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := repository.Migrate(ctx, pg); err != nil {
		logger.Error("failed to migrate schema", "err", err)
		os.Exit(1)
	}

	// notifier
	var sender notify.Sender = notify.LogSender{Logger: logger}
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Error("failed to init telegram, reports will only be logged", "err", err)
		} else {
			sender = tg
		}
	}
	dispatcher := &notify.Dispatcher{Sender: sender, Logger: logger, Timeout: cfg.NotifyTimeout}
	defer dispatcher.Wait()

	// services
	store := repository.Store{DB: pg}
	format := report.Format{Location: cfg.Location(), Currency: cfg.CurrencySymbol}
	authSvc := service.AuthService{Store: store, Config: cfg, Logger: logger}
	shiftSvc := service.ShiftService{Store: store, Logger: logger, Format: format, Notifier: dispatcher}
	orderSvc := service.OrderService{Store: store, Logger: logger}
	reportSvc := service.ReportService{Store: store, Logger: logger, Format: format, Notifier: dispatcher}
	catalogSvc := service.CatalogService{Store: store, Logger: logger}

	if err := authSvc.EnsureAdmin(ctx, cfg.BootstrapAdminName, cfg.BootstrapAdminPIN, 1); err != nil {
		logger.Error("failed to seed admin", "err", err)
		os.Exit(1)
	}

	if cfg.DailyReportCron != "" {
		c := cron.New(cron.WithLocation(cfg.Location()))
		_, err := c.AddFunc(cfg.DailyReportCron, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := reportSvc.SendScheduled(jobCtx); err != nil {
				logger.Error("scheduled daily report failed", "err", err)
			}
		})
		if err != nil {
			logger.Error("invalid DAILY_REPORT_CRON", "spec", cfg.DailyReportCron, "err", err)
			os.Exit(1)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
		logger.Info("daily report scheduled", "spec", cfg.DailyReportCron, "zone", cfg.Location().String())
	}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	catalogHandler := handler.CatalogHandler{Service: &catalogSvc}
	orderHandler := handler.OrderHandler{Service: &orderSvc}
	shiftHandler := handler.ShiftHandler{Service: &shiftSvc}
	employeeHandler := handler.EmployeeHandler{Catalog: &catalogSvc, Auth: &authSvc}
	reportHandler := handler.ReportHandler{Service: &reportSvc}

	router := server.NewRouter(cfg, logger, healthHandler, authHandler, catalogHandler, orderHandler, shiftHandler, employeeHandler, reportHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
