package repository

import (
	"context"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// BOM is the resolved bill of materials for one demand entry: the steps in
// sequence order and the dependency edges between them.
type BOM struct {
	Steps        []domain.ProductStep
	Dependencies []domain.StepDependency
}

// DemandFilter narrows demand listings; zero values mean "no filter".
type DemandFilter struct {
	Status    domain.DemandStatus
	ProductID int64
	DueBefore *time.Time
	IDs       []int64
}

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error

	CreateStep(ctx context.Context, s *domain.ProductStep) error
	GetStep(ctx context.Context, id int64) (*domain.ProductStep, error)
	ListSteps(ctx context.Context, productID int64) ([]domain.ProductStep, error)
	UpdateStep(ctx context.Context, s *domain.ProductStep) error
	DeleteStep(ctx context.Context, id int64) error

	CreateDependency(ctx context.Context, d *domain.StepDependency) error
	DeleteDependency(ctx context.Context, stepID, dependsOnStepID int64) error
	ListDependencies(ctx context.Context, productID int64) ([]domain.StepDependency, error)

	// GetBOM resolves the steps and dependencies scheduling a demand needs:
	// the build version's step selection when set, otherwise the product's
	// full step list.
	GetBOM(ctx context.Context, productID int64, buildVersionID *int64) (*BOM, error)

	CreateBuildVersion(ctx context.Context, v *domain.BuildVersion) error
	ListBuildVersions(ctx context.Context, productID int64) ([]domain.BuildVersion, error)
	SetDefaultBuildVersion(ctx context.Context, productID, versionID int64) error
}

type WorkerRepo interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Worker, error)
	ListActive(ctx context.Context) ([]domain.Worker, error)
	Update(ctx context.Context, w *domain.Worker) error
	Delete(ctx context.Context, id int64) error

	CreateCertification(ctx context.Context, c *domain.EquipmentCertification) error
	ListCertifications(ctx context.Context) ([]domain.EquipmentCertification, error)
	DeleteCertification(ctx context.Context, workerID, equipmentID int64) error
}

type EquipmentRepo interface {
	Create(ctx context.Context, e *domain.Equipment) error
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	List(ctx context.Context) ([]domain.Equipment, error)
	Update(ctx context.Context, e *domain.Equipment) error
	Delete(ctx context.Context, id int64) error
}

type DemandRepo interface {
	Create(ctx context.Context, d *domain.DemandEntry) error
	GetByID(ctx context.Context, id int64) (*domain.DemandEntry, error)
	List(ctx context.Context, filter DemandFilter) ([]domain.DemandEntry, error)
	Update(ctx context.Context, d *domain.DemandEntry) error
	UpdateStatus(ctx context.Context, id int64, status domain.DemandStatus) error
	Delete(ctx context.Context, id int64) error
}

// RunFilter narrows planning-run listings.
type RunFilter struct {
	Status domain.RunStatus
	Limit  int
}

type PlanningRepo interface {
	CreateRun(ctx context.Context, r *domain.PlanningRun) error
	GetRun(ctx context.Context, id int64) (*domain.PlanningRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]domain.PlanningRun, error)
	// GetActiveRun returns the most recently accepted run, or nil when no
	// run has been accepted.
	GetActiveRun(ctx context.Context) (*domain.PlanningRun, error)
	SetRunStatus(ctx context.Context, id int64, status domain.RunStatus, acceptedScenarioID *int64) error

	CreateScenario(ctx context.Context, s *domain.PlanningScenario) error
	GetScenario(ctx context.Context, id int64) (*domain.PlanningScenario, error)
	ListScenarios(ctx context.Context, runID int64) ([]domain.PlanningScenario, error)
	LinkScenarioDemand(ctx context.Context, scenarioID int64, demandIDs []int64) error
	ListScenarioDemand(ctx context.Context, scenarioID int64) ([]int64, error)
}

type PlanTaskRepo interface {
	Create(ctx context.Context, t *domain.PlanTask) error
	GetByID(ctx context.Context, id int64) (*domain.PlanTask, error)
	ListByDemand(ctx context.Context, demandID int64) ([]domain.PlanTask, error)
	ListByRun(ctx context.Context, runID int64) ([]domain.PlanTask, error)
	// ListCompletedSince returns completed tasks whose completion falls at
	// or after the given instant, across all runs. Proficiency batches
	// read their sample window through it.
	ListCompletedSince(ctx context.Context, since time.Time) ([]domain.PlanTask, error)
	// RecordProgress updates a task's lifecycle status and actual output.
	RecordProgress(ctx context.Context, id int64, status domain.PlanTaskStatus, actualOutput int, completedAt *time.Time) error
	// DeleteNonCompleted removes the demand's tasks that have not run to
	// completion, returning the number removed. Replan commits call it
	// before persisting accepted entries.
	DeleteNonCompleted(ctx context.Context, demandID int64) (int, error)
	// AnyAcceptedForDemand reports whether any of the given demand entries
	// already carry plan tasks from a different run.
	AnyAcceptedForDemand(ctx context.Context, demandIDs []int64, excludeRunID int64) (bool, error)
}

type ProficiencyRepo interface {
	GetLevels(ctx context.Context, workerIDs, stepIDs []int64) ([]domain.WorkerProficiency, error)
	Upsert(ctx context.Context, workerID, stepID int64, level int) error
	AppendHistory(ctx context.Context, h *domain.ProficiencyHistory) error
	ListHistory(ctx context.Context, workerID int64) ([]domain.ProficiencyHistory, error)
	AppendOutput(ctx context.Context, assignmentID int64, output int, recordedAt time.Time) error
	ListOutputs(ctx context.Context, assignmentID int64) ([]domain.OutputSample, error)
}

type SettingsRepo interface {
	// Get returns the single settings row, falling back to defaults when
	// none has been stored.
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, s *domain.Settings) error
}
