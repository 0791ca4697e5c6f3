package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
	"github.com/zainhoda/sij-manager-sub003/internal/scheduler"
)

type planningService struct {
	uow       db.UnitOfWork
	planning  repository.PlanningRepo
	tasks     repository.PlanTaskRepo
	demand    repository.DemandRepo
	products  repository.ProductRepo
	workers   repository.WorkerRepo
	equipment repository.EquipmentRepo
	settings  repository.SettingsRepo
	profic    repository.ProficiencyRepo
	observer  UseCaseObserver
}

func NewPlanningService(
	uow db.UnitOfWork,
	planning repository.PlanningRepo,
	tasks repository.PlanTaskRepo,
	demand repository.DemandRepo,
	products repository.ProductRepo,
	workers repository.WorkerRepo,
	equipment repository.EquipmentRepo,
	settings repository.SettingsRepo,
	profic repository.ProficiencyRepo,
	observers ...UseCaseObserver,
) PlanningService {
	return &planningService{
		uow:       uow,
		planning:  planning,
		tasks:     tasks,
		demand:    demand,
		products:  products,
		workers:   workers,
		equipment: equipment,
		settings:  settings,
		profic:    profic,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) snapshotRepos() snapshotRepos {
	return snapshotRepos{
		products:  s.products,
		workers:   s.workers,
		equipment: s.equipment,
		settings:  s.settings,
	}
}

func scenarioName(strategy domain.Strategy) string {
	switch strategy {
	case domain.StrategyMeetDeadlines:
		return "Meet Deadlines"
	case domain.StrategyMinimizeCost:
		return "Minimize Cost"
	case domain.StrategyBalanced:
		return "Balanced"
	default:
		return string(strategy)
	}
}

func (s *planningService) CreateRun(ctx context.Context, req contract.CreateRunRequest) (detail *contract.RunDetail, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": req.Name}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-planning-run",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if req.Name == "" {
		return nil, contract.NewValidationError("run name is required")
	}
	windowStart, err := calendar.ParseDate(req.WindowStart)
	if err != nil {
		return nil, contract.NewValidationError("invalid window start %q", req.WindowStart)
	}
	windowEnd, err := calendar.ParseDate(req.WindowEnd)
	if err != nil {
		return nil, contract.NewValidationError("invalid window end %q", req.WindowEnd)
	}
	if windowEnd.Before(windowStart) {
		return nil, contract.NewPreconditionError("planning window inverted")
	}

	demand, err := s.resolveDemand(ctx, req.DemandIDs, windowEnd)
	if err != nil {
		return nil, err
	}
	if len(demand) == 0 {
		return nil, contract.NewPreconditionError("no open demand to plan")
	}
	fields["demand_count"] = len(demand)

	// One catalog read feeds all three generations.
	snap, err := loadSnapshot(ctx, s.snapshotRepos(), demand)
	if err != nil {
		return nil, err
	}
	input := snap.planInput(windowStart, windowEnd)
	if err := scheduler.ValidatePlanInput(input); err != nil {
		return nil, contract.NewPreconditionError("%s", err.Error())
	}

	results := make([]*scheduler.ScheduleResult, 0, 3)
	configs := scheduler.StrategyConfigs()
	for _, cfg := range configs {
		result, genErr := scheduler.Generate(ctx, input, cfg)
		if genErr != nil {
			err = fmt.Errorf("generating %s scenario: %w", cfg.Strategy, genErr)
			return nil, err
		}
		results = append(results, result)
	}

	run := &domain.PlanningRun{
		Name:      req.Name,
		StartDate: windowStart,
		EndDate:   windowEnd,
		Status:    domain.RunDraft,
		CreatedBy: req.CreatedBy,
	}
	demandIDs := make([]int64, len(demand))
	for i, d := range demand {
		demandIDs[i] = d.ID
	}

	var scenarios []domain.PlanningScenario
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlanning := repository.NewSQLitePlanningRepo(tx)
		if err := txPlanning.CreateRun(ctx, run); err != nil {
			return err
		}
		for i, result := range results {
			cfg := configs[i]
			scenario := &domain.PlanningScenario{
				RunID:                 run.ID,
				Name:                  scenarioName(cfg.Strategy),
				Strategy:              cfg.Strategy,
				AllowOvertime:         cfg.AllowOvertime,
				OvertimeLimitHoursDay: cfg.OvertimeLimitHoursDay,
				Metrics:               result.Metrics,
				Blocks:                result.Blocks,
				Projections:           result.Projections,
				Warnings:              result.Warnings,
			}
			if err := txPlanning.CreateScenario(ctx, scenario); err != nil {
				return err
			}
			if err := txPlanning.LinkScenarioDemand(ctx, scenario.ID, demandIDs); err != nil {
				return err
			}
			scenarios = append(scenarios, *scenario)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["run_id"] = run.ID
	return &contract.RunDetail{Run: *run, Scenarios: scenarios, Demand: demand}, nil
}

// resolveDemand loads the run's demand set: the explicit ids, or every
// pending entry due inside the window when none are given.
func (s *planningService) resolveDemand(ctx context.Context, ids []int64, windowEnd time.Time) ([]domain.DemandEntry, error) {
	if len(ids) > 0 {
		demand, err := s.demand.List(ctx, repository.DemandFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		if len(demand) != len(ids) {
			found := make(map[int64]bool, len(demand))
			for _, d := range demand {
				found[d.ID] = true
			}
			for _, id := range ids {
				if !found[id] {
					return nil, &contract.NotFoundError{Entity: "demand entry", ID: id}
				}
			}
		}
		for _, d := range demand {
			if d.Status == domain.DemandCompleted {
				return nil, contract.NewPreconditionError("demand %d is already completed", d.ID)
			}
		}
		return demand, nil
	}
	return s.demand.List(ctx, repository.DemandFilter{
		Status:    domain.DemandPending,
		DueBefore: &windowEnd,
	})
}

func (s *planningService) GetRun(ctx context.Context, id int64) (*contract.RunDetail, error) {
	run, err := s.planning.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.runDetail(ctx, run)
}

func (s *planningService) runDetail(ctx context.Context, run *domain.PlanningRun) (*contract.RunDetail, error) {
	scenarios, err := s.planning.ListScenarios(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	detail := &contract.RunDetail{Run: *run, Scenarios: scenarios}
	if len(scenarios) > 0 {
		demandIDs, err := s.planning.ListScenarioDemand(ctx, scenarios[0].ID)
		if err != nil {
			return nil, err
		}
		if len(demandIDs) > 0 {
			detail.Demand, err = s.demand.List(ctx, repository.DemandFilter{IDs: demandIDs})
			if err != nil {
				return nil, err
			}
		}
	}
	return detail, nil
}

func (s *planningService) ListRuns(ctx context.Context, filter contract.RunFilter) ([]domain.PlanningRun, error) {
	return s.planning.ListRuns(ctx, repository.RunFilter{Status: filter.Status, Limit: filter.Limit})
}

func (s *planningService) GetActiveRun(ctx context.Context) (*contract.RunDetail, error) {
	run, err := s.planning.GetActiveRun(ctx)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	return s.runDetail(ctx, run)
}

func (s *planningService) Accept(ctx context.Context, runID, scenarioID int64) (result *contract.AcceptResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"run_id": runID, "scenario_id": scenarioID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "accept-scenario",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	run, err := s.planning.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status == domain.RunAccepted {
		return nil, contract.NewConflictError("run %d is already accepted", runID)
	}
	if run.Status == domain.RunArchived {
		return nil, contract.NewPreconditionError("run %d is archived", runID)
	}
	scenario, err := s.planning.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if scenario.RunID != runID {
		return nil, contract.NewPreconditionError("scenario %d does not belong to run %d", scenarioID, runID)
	}

	demandIDs, err := s.planning.ListScenarioDemand(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	created := 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlanning := repository.NewSQLitePlanningRepo(tx)
		txTasks := repository.NewSQLitePlanTaskRepo(tx)
		txDemand := repository.NewSQLiteDemandRepo(tx)

		// Checked inside the transaction so two accepts racing over the
		// same demand cannot both pass.
		claimed, err := txTasks.AnyAcceptedForDemand(ctx, demandIDs, runID)
		if err != nil {
			return err
		}
		if claimed {
			return contract.NewConflictError("demand in this run is already planned by another run")
		}

		for _, b := range scenario.Blocks {
			task := &domain.PlanTask{
				RunID:         runID,
				DemandID:      b.DemandID,
				StepID:        b.StepID,
				BatchNumber:   b.BatchNumber,
				BatchQuantity: b.BatchQuantity,
				Date:          b.Date,
				StartMin:      b.StartMin,
				EndMin:        b.EndMin,
				PlannedOutput: b.PlannedOutput,
				WorkerIDs:     b.WorkerIDs,
				IsOvertime:    b.IsOvertime,
			}
			if err := txTasks.Create(ctx, task); err != nil {
				return err
			}
			created++
		}
		for _, demandID := range demandIDs {
			if err := txDemand.UpdateStatus(ctx, demandID, domain.DemandPlanned); err != nil {
				return err
			}
		}
		return txPlanning.SetRunStatus(ctx, runID, domain.RunAccepted, &scenarioID)
	})
	if err != nil {
		return nil, err
	}

	fields["tasks_created"] = created
	return &contract.AcceptResult{TasksCreated: created}, nil
}

func (s *planningService) Archive(ctx context.Context, runID int64) error {
	run, err := s.planning.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	return s.planning.SetRunStatus(ctx, runID, domain.RunArchived, run.AcceptedScenarioID)
}

func (s *planningService) Compare(ctx context.Context, runID int64) (*contract.RunComparison, error) {
	run, err := s.planning.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	scenarios, err := s.planning.ListScenarios(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &contract.RunComparison{Run: *run, Scenarios: scenarios}, nil
}

func (s *planningService) GetScenario(ctx context.Context, scenarioID int64) (*contract.ScenarioDetail, error) {
	scenario, err := s.planning.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	return &contract.ScenarioDetail{
		Scenario:    *scenario,
		Projections: scenario.Projections,
		Blocks:      scenario.Blocks,
		Warnings:    scenario.Warnings,
	}, nil
}

func (s *planningService) ValidateScenario(ctx context.Context, scenarioID int64) (*scheduler.ValidationResult, error) {
	scenario, err := s.planning.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	workers, err := s.workers.List(ctx, true)
	if err != nil {
		return nil, err
	}
	workerMap := make(map[int64]domain.Worker, len(workers))
	for _, w := range workers {
		workerMap[w.ID] = *w
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	stepMap := make(map[int64]domain.ProductStep)
	for _, p := range products {
		steps, err := s.products.ListSteps(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, step := range steps {
			stepMap[step.ID] = step
		}
	}

	certs, err := s.workers.ListCertifications(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	result := scheduler.ValidateSchedule(scenario.Blocks, scheduler.ValidationContext{
		Workers:        workerMap,
		Steps:          stepMap,
		Certifications: scheduler.BuildCertIndex(certs),
		Calendar:       calendarFromSettings(settings),
	})
	return &result, nil
}

func (s *planningService) RecordTaskProgress(ctx context.Context, taskID int64, status domain.PlanTaskStatus, actualOutput int) error {
	switch status {
	case domain.TaskScheduled, domain.TaskInProgress, domain.TaskCompleted:
	default:
		return contract.NewValidationError("unknown task status %q", status)
	}
	if actualOutput < 0 {
		return contract.NewValidationError("actual output cannot be negative")
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	var completedAt *time.Time
	if status == domain.TaskCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}
	if err := s.tasks.RecordProgress(ctx, taskID, status, actualOutput, completedAt); err != nil {
		return err
	}
	if status == domain.TaskCompleted && actualOutput > 0 {
		if err := s.profic.AppendOutput(ctx, taskID, actualOutput, time.Now().UTC()); err != nil {
			return err
		}
	}
	return s.rollDemandStatus(ctx, task.DemandID)
}

// rollDemandStatus moves the demand along its lifecycle from its tasks:
// in_progress once any task has started, completed once all have finished.
func (s *planningService) rollDemandStatus(ctx context.Context, demandID int64) error {
	tasks, err := s.tasks.ListByDemand(ctx, demandID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}
	allDone := true
	anyStarted := false
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskCompleted:
			anyStarted = true
		case domain.TaskInProgress:
			anyStarted = true
			allDone = false
		default:
			allDone = false
		}
	}
	switch {
	case allDone:
		return s.demand.UpdateStatus(ctx, demandID, domain.DemandCompleted)
	case anyStarted:
		return s.demand.UpdateStatus(ctx, demandID, domain.DemandInProgress)
	}
	return nil
}
