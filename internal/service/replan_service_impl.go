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

type replanService struct {
	uow       db.UnitOfWork
	tasks     repository.PlanTaskRepo
	demand    repository.DemandRepo
	products  repository.ProductRepo
	workers   repository.WorkerRepo
	equipment repository.EquipmentRepo
	settings  repository.SettingsRepo
	observer  UseCaseObserver
}

func NewReplanService(
	uow db.UnitOfWork,
	tasks repository.PlanTaskRepo,
	demand repository.DemandRepo,
	products repository.ProductRepo,
	workers repository.WorkerRepo,
	equipment repository.EquipmentRepo,
	settings repository.SettingsRepo,
	observers ...UseCaseObserver,
) ReplanService {
	return &replanService{
		uow:       uow,
		tasks:     tasks,
		demand:    demand,
		products:  products,
		workers:   workers,
		equipment: equipment,
		settings:  settings,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *replanService) BuildReplan(ctx context.Context, req contract.ReplanRequest) (result *contract.ReplanResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"demand_id": req.DemandID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "build-replan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	now := time.Now().UTC()
	if req.Now != nil {
		now = *req.Now
	}

	demand, err := s.demand.GetByID(ctx, req.DemandID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByDemand(ctx, req.DemandID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, contract.NewPreconditionError("demand %d has no accepted schedule to replan", req.DemandID)
	}

	snap, err := loadSnapshot(ctx, snapshotRepos{
		products:  s.products,
		workers:   s.workers,
		equipment: s.equipment,
		settings:  s.settings,
	}, []domain.DemandEntry{*demand})
	if err != nil {
		return nil, err
	}
	steps := snap.StepsByDemand[demand.ID]

	completed := completedOutputByStep(tasks)
	remaining := scheduler.RemainingByStep(demand.Quantity, steps, completed)
	if totalRemaining(remaining) == 0 {
		return nil, contract.NewPreconditionError("demand %d is fully produced", req.DemandID)
	}

	resume := scheduler.ResumePoint(snap.Calendar, now)
	windowEnd := demand.DueDate
	if windowEnd.Before(resume.Date) {
		windowEnd = resume.Date
	}
	input := snap.planInput(resume.Date, windowEnd)
	input.RemainingUnits = remaining
	input.ResumeMin = resume.Min

	// The draft uses the deadline-first profile: overtime allowed up to
	// its daily cap so the operator sees the most achievable schedule.
	cfg := scheduler.StrategyConfigs()[0]
	generated, err := scheduler.Generate(ctx, input, cfg)
	if err != nil {
		return nil, fmt.Errorf("generating replan draft: %w", err)
	}

	canMeet := true
	for _, p := range generated.Projections {
		if p.DemandID == demand.ID {
			canMeet = p.CanMeetTarget
		}
	}

	result = &contract.ReplanResult{
		DraftEntries:        generated.Blocks,
		RegularHoursNeeded:  generated.Metrics.LaborHours,
		OvertimeHoursNeeded: generated.Metrics.OvertimeHours,
		CanMeetDeadline:     canMeet,
		AvailableWorkers:    snap.Workers,
		Warnings:            generated.Warnings,
	}

	if shortfall := s.shortfallMinutes(snap, steps, remaining, resume, demand.DueDate); shortfall > 0 {
		target, stepErr := scheduler.FirstIncompleteStep(steps, remaining)
		if stepErr == nil {
			otCap := snap.Calendar.OvertimeEnd - snap.Calendar.AfternoonEnd
			suggestions := scheduler.BuildOvertimeSuggestions(
				snap.Calendar, resume, demand.DueDate, shortfall, otCap, target.ID, snap.Workers)
			for _, sg := range suggestions {
				result.OvertimeSuggestions = append(result.OvertimeSuggestions, contract.OvertimeSuggestionView{
					Date:      calendar.FormatDate(sg.Date),
					StartTime: calendar.FormatClock(sg.StartMin),
					EndTime:   calendar.FormatClock(sg.EndMin),
					WorkerID:  sg.WorkerID,
					StepID:    sg.StepID,
					Minutes:   sg.Minutes,
				})
			}
		}
	}

	fields["draft_entries"] = len(result.DraftEntries)
	fields["can_meet_deadline"] = result.CanMeetDeadline
	return result, nil
}

// shortfallMinutes compares the remaining work against the regular-hours
// workforce capacity between the resume moment and the due date.
func (s *replanService) shortfallMinutes(
	snap *planSnapshot,
	steps []domain.ProductStep,
	remaining map[int64]int,
	resume scheduler.Moment,
	dueDate time.Time,
) int {
	requiredMin := 0
	for _, step := range steps {
		requiredMin += remaining[step.ID] * step.TimePerPieceSeconds / 60
	}
	if dueDate.Before(resume.Date) {
		return requiredMin
	}
	days := snap.Calendar.WeekdaysBetween(resume.Date, dueDate)
	availableMin := days * snap.Calendar.RegularMinutes() * len(snap.Workers)
	return requiredMin - availableMin
}

func completedOutputByStep(tasks []domain.PlanTask) map[int64]int {
	out := make(map[int64]int)
	for _, t := range tasks {
		if t.Status == domain.TaskCompleted {
			out[t.StepID] += t.ActualOutput
		}
	}
	return out
}

func totalRemaining(remaining map[int64]int) int {
	total := 0
	for _, n := range remaining {
		total += n
	}
	return total
}

func (s *replanService) CommitReplan(ctx context.Context, req contract.CommitReplanRequest) (result *contract.CommitReplanResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"demand_id": req.DemandID, "entries": len(req.Entries)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "commit-replan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if len(req.Entries) == 0 {
		return nil, contract.NewValidationError("no entries to commit")
	}
	if _, err := s.demand.GetByID(ctx, req.DemandID); err != nil {
		return nil, err
	}
	existing, err := s.tasks.ListByDemand(ctx, req.DemandID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, contract.NewPreconditionError("demand %d has no accepted schedule to replan", req.DemandID)
	}
	runID := existing[0].RunID

	type parsedEntry struct {
		entry    contract.CommitEntry
		date     time.Time
		startMin int
		endMin   int
	}
	parsed := make([]parsedEntry, 0, len(req.Entries))
	for i, e := range req.Entries {
		date, err := calendar.ParseDate(e.Date)
		if err != nil {
			return nil, contract.NewValidationError("entry %d: invalid date %q", i, e.Date)
		}
		start, err := calendar.ParseClock(e.StartTime)
		if err != nil {
			return nil, contract.NewValidationError("entry %d: invalid start time %q", i, e.StartTime)
		}
		end, err := calendar.ParseClock(e.EndTime)
		if err != nil {
			return nil, contract.NewValidationError("entry %d: invalid end time %q", i, e.EndTime)
		}
		if end <= start {
			return nil, contract.NewValidationError("entry %d: end time not after start time", i)
		}
		if len(e.WorkerIDs) == 0 && len(e.WorkerNames) == 0 {
			return nil, contract.NewValidationError("entry %d: no workers assigned", i)
		}
		parsed = append(parsed, parsedEntry{entry: e, date: date, startMin: start, endMin: end})
	}

	result = &contract.CommitReplanResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLitePlanTaskRepo(tx)
		txWorkers := repository.NewSQLiteWorkerRepo(tx)

		// Temporary workers are created once per distinct name.
		tempByName := make(map[string]int64)
		for _, p := range parsed {
			for _, name := range p.entry.WorkerNames {
				if _, ok := tempByName[name]; ok {
					continue
				}
				w := &domain.Worker{Name: name, Status: domain.WorkerActive}
				if err := txWorkers.Create(ctx, w); err != nil {
					return fmt.Errorf("creating temporary worker %q: %w", name, err)
				}
				tempByName[name] = w.ID
				result.WorkersCreated++
			}
		}

		deleted, err := txTasks.DeleteNonCompleted(ctx, req.DemandID)
		if err != nil {
			return err
		}
		result.TasksDeleted = deleted

		for _, p := range parsed {
			workerIDs := append([]int64(nil), p.entry.WorkerIDs...)
			for _, name := range p.entry.WorkerNames {
				workerIDs = append(workerIDs, tempByName[name])
			}
			task := &domain.PlanTask{
				RunID:         runID,
				DemandID:      req.DemandID,
				StepID:        p.entry.StepID,
				BatchNumber:   p.entry.BatchNumber,
				BatchQuantity: p.entry.BatchQuantity,
				Date:          p.date,
				StartMin:      p.startMin,
				EndMin:        p.endMin,
				PlannedOutput: p.entry.PlannedOutput,
				WorkerIDs:     workerIDs,
				IsOvertime:    p.entry.IsOvertime,
			}
			if err := txTasks.Create(ctx, task); err != nil {
				return err
			}
			result.TasksCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Tasks, err = s.tasks.ListByDemand(ctx, req.DemandID)
	if err != nil {
		return nil, err
	}
	return result, nil
}
