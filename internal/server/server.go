// Package server is the HTTP/JSON surface: a gin router over the service
// layer. Handlers stay thin; every decision lives in a service.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zainhoda/sij-manager-sub003/internal/service"
)

type Server struct {
	products  service.ProductService
	workers   service.WorkerService
	equipment service.EquipmentService
	demand    service.DemandService
	planning  service.PlanningService
	replan    service.ReplanService
	profic    service.ProficiencyService
	capacity  service.CapacityService
	settings  service.SettingsService
	importSvc service.ImportService
	logger    *slog.Logger
}

type Services struct {
	Products  service.ProductService
	Workers   service.WorkerService
	Equipment service.EquipmentService
	Demand    service.DemandService
	Planning  service.PlanningService
	Replan    service.ReplanService
	Profic    service.ProficiencyService
	Capacity  service.CapacityService
	Settings  service.SettingsService
	Import    service.ImportService
}

func New(svcs Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		products:  svcs.Products,
		workers:   svcs.Workers,
		equipment: svcs.Equipment,
		demand:    svcs.Demand,
		planning:  svcs.Planning,
		replan:    svcs.Replan,
		profic:    svcs.Profic,
		capacity:  svcs.Capacity,
		settings:  svcs.Settings,
		importSvc: svcs.Import,
		logger:    logger,
	}
}

// Router assembles the full route table.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger))

	api := r.Group("/api")

	planning := api.Group("/planning")
	{
		planning.POST("/runs", s.createRun)
		planning.GET("/runs", s.listRuns)
		planning.GET("/runs/active", s.getActiveRun)
		planning.GET("/runs/:id", s.getRun)
		planning.POST("/runs/:id/accept/:scenarioId", s.acceptScenario)
		planning.POST("/runs/:id/archive", s.archiveRun)
		planning.GET("/scenarios/:id", s.getScenario)
		planning.GET("/scenarios/:id/validate", s.validateScenario)
		planning.GET("/compare/:runId", s.compareRun)
	}

	schedules := api.Group("/schedules")
	{
		schedules.POST("/:id/replan", s.buildReplan)
		schedules.POST("/:id/replan/commit", s.commitReplan)
		schedules.POST("/tasks/:id/progress", s.recordTaskProgress)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/workers/:id/productivity", s.workerProductivity)
		analytics.POST("/recalculate-proficiencies", s.recalculateProficiencies)
		analytics.GET("/assignments/:id/trend", s.assignmentTrend)
		analytics.POST("/capacity", s.analyzeCapacity)
	}

	s.registerCatalog(api)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// Run serves the router until the listener fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", "addr", addr)
	return srv.ListenAndServe()
}
