package service

import (
	"context"
	"sort"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
	"github.com/zainhoda/sij-manager-sub003/internal/scheduler"
)

type proficiencyService struct {
	uow      db.UnitOfWork
	profic   repository.ProficiencyRepo
	tasks    repository.PlanTaskRepo
	workers  repository.WorkerRepo
	products repository.ProductRepo
	settings repository.SettingsRepo
	observer UseCaseObserver
	// now is swappable for tests.
	now func() time.Time
}

func NewProficiencyService(
	uow db.UnitOfWork,
	profic repository.ProficiencyRepo,
	tasks repository.PlanTaskRepo,
	workers repository.WorkerRepo,
	products repository.ProductRepo,
	settings repository.SettingsRepo,
	observers ...UseCaseObserver,
) ProficiencyService {
	return &proficiencyService{
		uow:      uow,
		profic:   profic,
		tasks:    tasks,
		workers:  workers,
		products: products,
		settings: settings,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// sampleWindow mirrors the scheduler's trailing adjustment window.
const sampleWindow = 30 * 24 * time.Hour

// completedWork derives per-(worker, step) efficiency samples from
// completed tasks. Every assigned worker inherits the block's efficiency.
func (s *proficiencyService) completedWork(ctx context.Context, since time.Time) ([]scheduler.CompletedWork, error) {
	tasks, err := s.tasks.ListCompletedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg := calendarFromSettings(settings)

	stepTimes := make(map[int64]int)
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		steps, err := s.products.ListSteps(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, step := range steps {
			stepTimes[step.ID] = step.TimePerPieceSeconds
		}
	}

	var work []scheduler.CompletedWork
	for _, t := range tasks {
		if t.CompletedAt == nil || t.ActualOutput <= 0 {
			continue
		}
		timePerPiece, ok := stepTimes[t.StepID]
		if !ok {
			continue
		}
		actualSeconds := cfg.WorkMinutes(t.StartMin, t.EndMin) * 60
		eff := scheduler.Efficiency(t.ActualOutput, timePerPiece, actualSeconds)
		for _, workerID := range t.WorkerIDs {
			work = append(work, scheduler.CompletedWork{
				WorkerID:      workerID,
				StepID:        t.StepID,
				EfficiencyPct: eff,
				CompletedAt:   *t.CompletedAt,
			})
		}
	}
	return work, nil
}

func (s *proficiencyService) Recalculate(ctx context.Context) (result *contract.RecalculateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "recalculate-proficiencies",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	now := s.now()
	work, err := s.completedWork(ctx, now.Add(-sampleWindow))
	if err != nil {
		return nil, err
	}

	levels, err := s.profic.GetLevels(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	current := make(map[scheduler.WorkerStepKey]int, len(levels))
	for _, l := range levels {
		current[scheduler.WorkerStepKey{WorkerID: l.WorkerID, StepID: l.StepID}] = l.Level
	}

	adjustments := scheduler.BuildAdjustments(work, current, now)
	result = &contract.RecalculateResult{Adjustments: []contract.AdjustmentView{}}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProfic := repository.NewSQLiteProficiencyRepo(tx)
		for _, a := range adjustments {
			if err := txProfic.Upsert(ctx, a.WorkerID, a.StepID, a.ToLevel); err != nil {
				return err
			}
			if err := txProfic.AppendHistory(ctx, &domain.ProficiencyHistory{
				WorkerID:      a.WorkerID,
				StepID:        a.StepID,
				FromLevel:     a.FromLevel,
				ToLevel:       a.ToLevel,
				Reason:        a.Reason,
				AvgEfficiency: a.AvgEfficiency,
				SampleSize:    a.SampleSize,
				RecordedAt:    now,
			}); err != nil {
				return err
			}
			result.Applied++
			result.Adjustments = append(result.Adjustments, contract.AdjustmentView{
				WorkerID:      a.WorkerID,
				StepID:        a.StepID,
				FromLevel:     a.FromLevel,
				ToLevel:       a.ToLevel,
				Reason:        a.Reason,
				AvgEfficiency: a.AvgEfficiency,
				SampleSize:    a.SampleSize,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["applied"] = result.Applied
	return result, nil
}

func (s *proficiencyService) Productivity(ctx context.Context, workerID int64) (*contract.ProductivitySummary, error) {
	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	work, err := s.completedWork(ctx, s.now().Add(-sampleWindow))
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	levels, err := s.profic.GetLevels(ctx, []int64{workerID}, nil)
	if err != nil {
		return nil, err
	}
	levelByStep := make(map[int64]int, len(levels))
	for _, l := range levels {
		levelByStep[l.StepID] = l.Level
	}

	stepCodes := make(map[int64]string)
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		steps, err := s.products.ListSteps(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, step := range steps {
			stepCodes[step.ID] = step.StepCode
		}
	}

	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	total := 0.0
	blocks := 0
	for _, w := range work {
		if w.WorkerID != workerID {
			continue
		}
		sums[w.StepID] += w.EfficiencyPct
		counts[w.StepID]++
		total += w.EfficiencyPct
		blocks++
	}

	summary := &contract.ProductivitySummary{
		WorkerID:    workerID,
		WorkerName:  worker.Name,
		TotalBlocks: blocks,
		Steps:       []contract.StepProductivity{},
	}
	if blocks > 0 {
		summary.AvgEfficiency = total / float64(blocks)
	}

	stepIDs := make([]int64, 0, len(counts))
	for id := range counts {
		stepIDs = append(stepIDs, id)
	}
	sort.Slice(stepIDs, func(i, j int) bool { return stepIDs[i] < stepIDs[j] })
	for _, stepID := range stepIDs {
		level := domain.DefaultProficiencyLevel
		if l, ok := levelByStep[stepID]; ok {
			level = l
		}
		avg := sums[stepID] / float64(counts[stepID])
		summary.Steps = append(summary.Steps, contract.StepProductivity{
			StepID:         stepID,
			StepCode:       stepCodes[stepID],
			Level:          level,
			SuggestedLevel: scheduler.LevelForEfficiency(avg, settings.LevelCutPoints),
			AvgEfficiency:  avg,
			SampleSize:     counts[stepID],
		})
	}
	return summary, nil
}

func (s *proficiencyService) SetLevel(ctx context.Context, workerID, stepID int64, level int) error {
	if level < domain.MinProficiencyLevel || level > domain.MaxProficiencyLevel {
		return contract.NewValidationError("proficiency level must be between 1 and 5")
	}
	if _, err := s.workers.GetByID(ctx, workerID); err != nil {
		return err
	}
	if _, err := s.products.GetStep(ctx, stepID); err != nil {
		return err
	}

	levels, err := s.profic.GetLevels(ctx, []int64{workerID}, []int64{stepID})
	if err != nil {
		return err
	}
	fromLevel := domain.DefaultProficiencyLevel
	if len(levels) > 0 {
		fromLevel = levels[0].Level
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProfic := repository.NewSQLiteProficiencyRepo(tx)
		if err := txProfic.Upsert(ctx, workerID, stepID, level); err != nil {
			return err
		}
		return txProfic.AppendHistory(ctx, &domain.ProficiencyHistory{
			WorkerID:   workerID,
			StepID:     stepID,
			FromLevel:  fromLevel,
			ToLevel:    level,
			Reason:     domain.AdjustManual,
			RecordedAt: s.now(),
		})
	})
}

func (s *proficiencyService) OutputTrend(ctx context.Context, assignmentID int64) (*scheduler.TrendResult, error) {
	samples, err := s.profic.ListOutputs(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	trend, ok := scheduler.OutputTrend(samples)
	if !ok {
		return nil, contract.NewPreconditionError("assignment %d has too few output samples for a trend", assignmentID)
	}
	return &trend, nil
}
