package service

import (
	"context"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/importer"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
	"github.com/zainhoda/sij-manager-sub003/internal/scheduler"
)

type ProductService interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error

	AddStep(ctx context.Context, s *domain.ProductStep) error
	ListSteps(ctx context.Context, productID int64) ([]domain.ProductStep, error)
	UpdateStep(ctx context.Context, s *domain.ProductStep) error
	DeleteStep(ctx context.Context, id int64) error

	AddDependency(ctx context.Context, d *domain.StepDependency) error
	RemoveDependency(ctx context.Context, stepID, dependsOnStepID int64) error
	ListDependencies(ctx context.Context, productID int64) ([]domain.StepDependency, error)

	CreateBuildVersion(ctx context.Context, v *domain.BuildVersion) error
	ListBuildVersions(ctx context.Context, productID int64) ([]domain.BuildVersion, error)
	SetDefaultBuildVersion(ctx context.Context, productID, versionID int64) error
}

type WorkerService interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Worker, error)
	Update(ctx context.Context, w *domain.Worker) error
	Delete(ctx context.Context, id int64) error

	Certify(ctx context.Context, c *domain.EquipmentCertification) error
	Decertify(ctx context.Context, workerID, equipmentID int64) error
	ListCertifications(ctx context.Context) ([]domain.EquipmentCertification, error)
}

type EquipmentService interface {
	Create(ctx context.Context, e *domain.Equipment) error
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	List(ctx context.Context) ([]domain.Equipment, error)
	Update(ctx context.Context, e *domain.Equipment) error
	Delete(ctx context.Context, id int64) error
}

type DemandService interface {
	Create(ctx context.Context, d *domain.DemandEntry) error
	GetByID(ctx context.Context, id int64) (*domain.DemandEntry, error)
	List(ctx context.Context, filter repository.DemandFilter) ([]domain.DemandEntry, error)
	Update(ctx context.Context, d *domain.DemandEntry) error
	Delete(ctx context.Context, id int64) error
}

type PlanningService interface {
	// CreateRun reads the planning inputs once, generates the three
	// strategy scenarios and persists the run with its scenarios in a
	// single transaction.
	CreateRun(ctx context.Context, req contract.CreateRunRequest) (*contract.RunDetail, error)
	GetRun(ctx context.Context, id int64) (*contract.RunDetail, error)
	ListRuns(ctx context.Context, filter contract.RunFilter) ([]domain.PlanningRun, error)
	GetActiveRun(ctx context.Context) (*contract.RunDetail, error)
	// Accept materializes the chosen scenario's blocks into plan tasks and
	// marks the run accepted. It refuses when the scenario does not belong
	// to the run or when another run already planned any of the demand.
	Accept(ctx context.Context, runID, scenarioID int64) (*contract.AcceptResult, error)
	Archive(ctx context.Context, runID int64) error
	Compare(ctx context.Context, runID int64) (*contract.RunComparison, error)
	GetScenario(ctx context.Context, scenarioID int64) (*contract.ScenarioDetail, error)
	// ValidateScenario re-checks a stored scenario's schedule against the
	// current catalog.
	ValidateScenario(ctx context.Context, scenarioID int64) (*scheduler.ValidationResult, error)
	// RecordTaskProgress updates one plan task's lifecycle and feeds the
	// output-history stream used by proficiency analytics.
	RecordTaskProgress(ctx context.Context, taskID int64, status domain.PlanTaskStatus, actualOutput int) error
}

type ReplanService interface {
	// BuildReplan computes a draft schedule for the demand's remaining
	// work from the next legal work moment. Nothing is persisted.
	BuildReplan(ctx context.Context, req contract.ReplanRequest) (*contract.ReplanResult, error)
	// CommitReplan replaces the demand's non-completed tasks with the
	// accepted entries, creating temporary workers as needed, in one
	// transaction.
	CommitReplan(ctx context.Context, req contract.CommitReplanRequest) (*contract.CommitReplanResult, error)
}

type ProficiencyService interface {
	// Recalculate scans recent completed work and applies automatic level
	// adjustments, recording each transition in the history book.
	Recalculate(ctx context.Context) (*contract.RecalculateResult, error)
	Productivity(ctx context.Context, workerID int64) (*contract.ProductivitySummary, error)
	// SetLevel applies a manual override and records it.
	SetLevel(ctx context.Context, workerID, stepID int64, level int) error
	OutputTrend(ctx context.Context, assignmentID int64) (*scheduler.TrendResult, error)
}

type CapacityService interface {
	Analyze(ctx context.Context, req contract.CapacityRequest) (*contract.CapacityView, error)
}

type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, s *domain.Settings) error
}

// ImportResult holds the outcome of a shop-dataset import.
type ImportResult struct {
	BatchTag       string
	Products       int
	Steps          int
	Equipment      int
	Workers        int
	Certifications int
	Demand         int
}

type ImportService interface {
	// ImportDataset loads a full catalog file in one transaction.
	ImportDataset(ctx context.Context, filePath string) (*ImportResult, error)
	ImportFromDataset(ctx context.Context, ds *importer.Dataset) (*ImportResult, error)
}
