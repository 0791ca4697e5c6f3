package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
	"github.com/zainhoda/sij-manager-sub003/internal/scheduler"
)

type capacityService struct {
	demand   repository.DemandRepo
	products repository.ProductRepo
	workers  repository.WorkerRepo
	settings repository.SettingsRepo
	observer UseCaseObserver
}

func NewCapacityService(
	demand repository.DemandRepo,
	products repository.ProductRepo,
	workers repository.WorkerRepo,
	settings repository.SettingsRepo,
	observers ...UseCaseObserver,
) CapacityService {
	return &capacityService{
		demand:   demand,
		products: products,
		workers:  workers,
		settings: settings,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *capacityService) Analyze(ctx context.Context, req contract.CapacityRequest) (view *contract.CapacityView, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "analyze-capacity",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	from, err := calendar.ParseDate(req.From)
	if err != nil {
		return nil, contract.NewValidationError("from date: %v", err)
	}
	to, err := calendar.ParseDate(req.To)
	if err != nil {
		return nil, contract.NewValidationError("to date: %v", err)
	}
	if to.Before(from) {
		return nil, contract.NewValidationError("to date %s is before from date %s", req.To, req.From)
	}

	demand, err := s.demand.List(ctx, repository.DemandFilter{})
	if err != nil {
		return nil, err
	}
	open := demand[:0]
	for _, d := range demand {
		if d.Status == domain.DemandCompleted {
			continue
		}
		open = append(open, d)
	}

	steps := make(map[int64][]domain.ProductStep, len(open))
	for _, d := range open {
		bom, err := s.products.GetBOM(ctx, d.ProductID, d.BuildVersionID)
		if err != nil {
			return nil, fmt.Errorf("resolving BOM for demand %d: %w", d.ID, err)
		}
		steps[d.ID] = bom.Steps
	}

	// Overrides can re-enable an inactive worker, so the full roster is
	// handed to the analyzer.
	roster, err := s.workers.List(ctx, true)
	if err != nil {
		return nil, err
	}
	workers := make([]domain.Worker, 0, len(roster))
	for _, w := range roster {
		workers = append(workers, *w)
	}

	var overrides map[int64]scheduler.WorkerOverride
	if len(req.Overrides) > 0 {
		overrides = make(map[int64]scheduler.WorkerOverride, len(req.Overrides))
		for id, ov := range req.Overrides {
			overrides[id] = scheduler.WorkerOverride{
				Available:   ov.Available,
				HoursPerDay: ov.HoursPerDay,
			}
		}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	res := scheduler.AnalyzeCapacity(scheduler.CapacityInput{
		From:      from,
		To:        to,
		Demand:    open,
		Steps:     steps,
		Workers:   workers,
		Overrides: overrides,
		Calendar:  calendarFromSettings(settings),
	})

	view = &contract.CapacityView{
		AvailableHours: res.AvailableHours,
		RequiredHours:  res.RequiredHours,
		Risks:          make([]contract.DemandRiskView, 0, len(res.Risks)),
		Weekly:         make([]contract.WeekCapacityView, 0, len(res.Weekly)),
	}
	for _, r := range res.Risks {
		view.Risks = append(view.Risks, contract.DemandRiskView{
			DemandID:          r.DemandID,
			RequiredHours:     r.RequiredHours,
			AvailableHoursDue: r.AvailableHoursDue,
			CanMeet:           r.CanMeet,
			ShortfallHours:    r.ShortfallHours,
			Risk:              r.Risk,
		})
	}
	for _, w := range res.Weekly {
		view.Weekly = append(view.Weekly, contract.WeekCapacityView{
			WeekStart:      calendar.FormatDate(w.WeekStart),
			AvailableHours: w.AvailableHours,
			RequiredHours:  w.RequiredHours,
		})
	}
	fields["demand"] = len(open)
	return view, nil
}
