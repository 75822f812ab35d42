package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/vendorlink/supplierflow/internal/application/machine"
	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/application/service"
	appwf "github.com/vendorlink/supplierflow/internal/application/workflow"
	"github.com/vendorlink/supplierflow/internal/config"
	"github.com/vendorlink/supplierflow/internal/infrastructure/persistence/repository"
	"github.com/vendorlink/supplierflow/internal/infrastructure/persistence/sqlite"
	"github.com/vendorlink/supplierflow/internal/infrastructure/scheduler"
	httpserver "github.com/vendorlink/supplierflow/internal/interfaces/http"
	"github.com/vendorlink/supplierflow/pkg/database"
	"github.com/vendorlink/supplierflow/pkg/utils"
)

func main() {
	// Load .env if present; real environment wins
	_ = gotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting supplier lifecycle service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.Fatal("Failed to create data directory", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(os.DirFS(cfg.Database.MigrationsDir)); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	sqliteDB := sqlite.NewDB(db.DB, logger)

	// Repositories
	supplierRepo := repository.NewSupplierRepository(sqliteDB, logger)
	rfqRepo := repository.NewRfqRepository(sqliteDB, logger)
	quoteRepo := repository.NewQuoteRepository(sqliteDB, logger)
	reconciliationRepo := repository.NewReconciliationRepository(sqliteDB, logger)
	historyRepo := repository.NewHistoryRepository(sqliteDB, logger)
	workflowRepo := repository.NewWorkflowRepository(sqliteDB, logger)
	changeRequestRepo := repository.NewChangeRequestRepository(sqliteDB, logger)

	kvLogger := utils.NewKVLogger(logger)
	clock := port.ClockFunc(time.Now)

	// State machines
	rfqMachine := machine.NewRfqMachine(rfqRepo, historyRepo, clock, kvLogger)
	quoteMachine := machine.NewQuoteMachine(quoteRepo, historyRepo, clock, kvLogger)
	reconciliationMachine := machine.NewReconciliationMachine(reconciliationRepo, historyRepo, clock, kvLogger)

	// Workflow engine and services
	engine := appwf.NewEngine(workflowRepo, clock, kvLogger, appwf.WithStepDue(cfg.Workflow.StepDue))

	statusService := service.NewStatusService(
		rfqRepo, quoteRepo, reconciliationRepo,
		rfqMachine, quoteMachine, reconciliationMachine, kvLogger)
	supplierService := service.NewSupplierService(supplierRepo, workflowRepo, engine, sqliteDB, kvLogger)
	changeRequestService := service.NewChangeRequestService(supplierRepo, changeRequestRepo, sqliteDB, clock, kvLogger)

	// Overdue step scanner
	scanner := scheduler.NewOverdueScanner(workflowRepo, clock, scheduler.Config{
		Interval:  cfg.Workflow.OverdueScanEvery,
		BatchSize: cfg.Workflow.OverdueScanBatch,
	}, logger)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, statusService, supplierService, changeRequestService, kvLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scanner.Start(ctx); err != nil {
		logger.Fatal("Failed to start overdue scanner", zap.Error(err))
	}
	defer scanner.Stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		cancel()
		<-serverErr
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// configPath resolves the config file location, overridable via CONFIG_PATH
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}
