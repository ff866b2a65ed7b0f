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

	"github.com/mamadbah2/shopledger/internal/auth"
	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/repository"
	"github.com/mamadbah2/shopledger/internal/repository/mongodb"
	"github.com/mamadbah2/shopledger/internal/repository/store"
	"github.com/mamadbah2/shopledger/internal/scheduler"
	"github.com/mamadbah2/shopledger/internal/server/handlers"
	"github.com/mamadbah2/shopledger/internal/server/router"
	bookkeepingsvc "github.com/mamadbah2/shopledger/internal/service/bookkeeping"
	commandsvc "github.com/mamadbah2/shopledger/internal/service/commands"
	inventorysvc "github.com/mamadbah2/shopledger/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/shopledger/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/shopledger/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/shopledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/shopledger/pkg/logger"
	"github.com/mamadbah2/shopledger/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, baseLogger.Named("telemetry"))
	if err != nil {
		baseLogger.Fatal("failed to init telemetry", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			baseLogger.Error("failed to flush telemetry", zap.Error(err))
		}
	}()

	backend, err := repository.OpenStore(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init ledger store", zap.Error(err))
	}
	ledgerRepo := store.NewLedger(backend, baseLogger.Named("repo.ledger"))
	// Persist canonical headers and order IDs before the first request reads them.
	if err := ledgerRepo.Migrate(ctx); err != nil {
		baseLogger.Warn("failed to migrate ledger tables", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.Error(err))
	}

	// A nil *MongoDBRepository must not reach the reporting service as a non-nil
	// Archive interface.
	var archive reportingsvc.Archive
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI empty, daily reports will not be archived")
	}

	policy := ledger.AllowDuplicates
	if cfg.Inventory.UniqueLabels {
		policy = ledger.UniqueLabels
	}

	inventorySvc := inventorysvc.NewService(ledgerRepo, policy, baseLogger.Named("svc.inventory"))
	bookkeepingSvc := bookkeepingsvc.NewService(ledgerRepo, baseLogger.Named("svc.bookkeeping"))
	reportingSvc := reportingsvc.NewService(ledgerRepo, archive, cfg.Inventory.LowStockThreshold, loc, baseLogger.Named("svc.reporting"))

	sessions, err := auth.NewSessionManager(cfg.Auth)
	if err != nil {
		baseLogger.Fatal("failed to init console sessions", zap.Error(err))
	}

	routes := router.Handlers{
		Auth:        handlers.NewAuthHandler(sessions, baseLogger.Named("handlers.auth")),
		Inventory:   handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Bookkeeping: handlers.NewBookkeepingHandler(bookkeepingSvc, baseLogger.Named("handlers.bookkeeping")),
		Reports:     handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}

	var sender scheduler.Sender
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(inventorySvc, bookkeepingSvc, reportingSvc, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		sender = messagingSvc
	} else {
		baseLogger.Warn("whatsapp token missing, chat commands and report delivery disabled")
	}

	engine := router.New(routes, cfg.Telemetry.ServiceName, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, cfg.WhatsApp.ManagerID, reportingSvc, sender, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Store.Backend))
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
