package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/zainhoda/sij-manager-sub003/internal/cli"
	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
	"github.com/zainhoda/sij-manager-sub003/internal/server"
	"github.com/zainhoda/sij-manager-sub003/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.sij/sij.db
	dbPath := os.Getenv("SIJ_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".sij", "sij.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	productRepo := repository.NewSQLiteProductRepo(database)
	workerRepo := repository.NewSQLiteWorkerRepo(database)
	equipmentRepo := repository.NewSQLiteEquipmentRepo(database)
	demandRepo := repository.NewSQLiteDemandRepo(database)
	planningRepo := repository.NewSQLitePlanningRepo(database)
	taskRepo := repository.NewSQLitePlanTaskRepo(database)
	proficRepo := repository.NewSQLiteProficiencyRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(os.Stderr)

	planningSvc := service.NewPlanningService(uow, planningRepo, taskRepo, demandRepo,
		productRepo, workerRepo, equipmentRepo, settingsRepo, proficRepo, observer)
	replanSvc := service.NewReplanService(uow, taskRepo, demandRepo,
		productRepo, workerRepo, equipmentRepo, settingsRepo, observer)
	proficSvc := service.NewProficiencyService(uow, proficRepo, taskRepo,
		workerRepo, productRepo, settingsRepo, observer)
	capacitySvc := service.NewCapacityService(demandRepo, productRepo, workerRepo,
		settingsRepo, observer)

	app := &cli.App{
		Products:  service.NewProductService(productRepo),
		Workers:   service.NewWorkerService(workerRepo, equipmentRepo),
		Equipment: service.NewEquipmentService(equipmentRepo),
		Demand:    service.NewDemandService(demandRepo, productRepo),
		Planning:  planningSvc,
		Replan:    replanSvc,
		Profic:    proficSvc,
		Capacity:  capacitySvc,
		Settings:  service.NewSettingsService(settingsRepo),
		Import:    service.NewImportService(uow, observer),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.ServeHTTP = func(addr string) error {
		if addr == "" {
			addr = os.Getenv("SIJ_ADDR")
		}
		if addr == "" {
			addr = ":8080"
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		srv := server.New(server.Services{
			Products:  app.Products,
			Workers:   app.Workers,
			Equipment: app.Equipment,
			Demand:    app.Demand,
			Planning:  app.Planning,
			Replan:    app.Replan,
			Profic:    app.Profic,
			Capacity:  app.Capacity,
			Settings:  app.Settings,
			Import:    app.Import,
		}, logger)
		return srv.Run(addr)
	}

	return cli.NewRootCmd(app).Execute()
}
