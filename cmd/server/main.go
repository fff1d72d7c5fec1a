package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/liancar/yard/internal/config"
	"github.com/liancar/yard/internal/export"
	"github.com/liancar/yard/internal/receipt"
	"github.com/liancar/yard/internal/repository/backend"
	"github.com/liancar/yard/internal/scheduler"
	"github.com/liancar/yard/internal/server/handlers"
	"github.com/liancar/yard/internal/server/router"
	commandsvc "github.com/liancar/yard/internal/service/commands"
	financesvc "github.com/liancar/yard/internal/service/finance"
	reportingsvc "github.com/liancar/yard/internal/service/reporting"
	whatsappsvc "github.com/liancar/yard/internal/service/whatsapp"
	yardsvc "github.com/liancar/yard/internal/service/yard"
	whatsappclient "github.com/liancar/yard/pkg/clients/whatsapp"
	"github.com/liancar/yard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Env))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	stores, err := backend.Open(context.Background(), cfg, baseLogger.Named("repo"))
	if err != nil {
		baseLogger.Fatal("failed to open record stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close record stores", zap.Error(err))
		}
	}()

	loc := cfg.Reporting.Location()

	boardSvc := yardsvc.NewService(stores.Services, baseLogger.Named("svc.yard"))
	financeSvc := financesvc.NewService(boardSvc, stores.Expenses, baseLogger.Named("svc.finance"))
	reportingSvc := reportingsvc.NewService(financeSvc, stores.Reports, baseLogger.Named("svc.reporting"))

	var notifier handlers.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp delivery enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, daily close delivery disabled")
	}

	routes := router.Handlers{
		Yard:    handlers.NewYardHandler(boardSvc, receipt.NewGenerator(loc), loc, baseLogger.Named("handlers.yard")),
		Finance: handlers.NewFinanceHandler(financeSvc, export.NewGenerator(loc), loc, baseLogger.Named("handlers.finance")),
		Reports: handlers.NewReportHandler(reportingSvc, notifier, cfg.WhatsApp.ReportTo, loc, baseLogger.Named("handlers.reports")),
	}
	if cfg.WhatsApp.VerifyToken != "" {
		commandDispatcher := commandsvc.NewService(boardSvc, reportingSvc, loc, baseLogger.Named("svc.commands"))
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, notifier, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		baseLogger.Info("whatsapp webhook enabled")
	}
	engine := router.New(cfg.Server, routes, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Error("daily close job not scheduled", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
