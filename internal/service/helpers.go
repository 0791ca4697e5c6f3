package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
	"github.com/zainhoda/sij-manager-sub003/internal/scheduler"
)

// calendarFromSettings projects the stored settings row onto the work-day
// policy, including the holiday list.
func calendarFromSettings(s *domain.Settings) calendar.Config {
	cfg := calendar.Config{
		MorningStart: s.MorningStart,
		LunchStart:   s.LunchStart,
		LunchEnd:     s.LunchEnd,
		AfternoonEnd: s.AfternoonEnd,
		OvertimeEnd:  s.OvertimeEnd,
	}
	if len(s.HolidayDates) > 0 {
		holidays := make(map[string]bool, len(s.HolidayDates))
		for _, d := range s.HolidayDates {
			holidays[d] = true
		}
		cfg.IsHoliday = func(d time.Time) bool {
			return holidays[calendar.FormatDate(d)]
		}
	}
	return cfg
}

// planSnapshot is the catalog read a scenario generation or replan runs on.
// All reads happen before any kernel call.
type planSnapshot struct {
	Demand         []domain.DemandEntry
	StepsByDemand  map[int64][]domain.ProductStep
	DepsByStep     map[int64][]domain.StepDependency
	Workers        []domain.Worker
	Equipment      map[int64]domain.Equipment
	Certifications []domain.EquipmentCertification
	Calendar       calendar.Config
}

type snapshotRepos struct {
	products  repository.ProductRepo
	workers   repository.WorkerRepo
	equipment repository.EquipmentRepo
	settings  repository.SettingsRepo
}

func loadSnapshot(ctx context.Context, repos snapshotRepos, demand []domain.DemandEntry) (*planSnapshot, error) {
	snap := &planSnapshot{
		Demand:        demand,
		StepsByDemand: make(map[int64][]domain.ProductStep, len(demand)),
		DepsByStep:    make(map[int64][]domain.StepDependency),
		Equipment:     make(map[int64]domain.Equipment),
	}

	for _, d := range demand {
		bom, err := repos.products.GetBOM(ctx, d.ProductID, d.BuildVersionID)
		if err != nil {
			return nil, fmt.Errorf("resolving BOM for demand %d: %w", d.ID, err)
		}
		snap.StepsByDemand[d.ID] = bom.Steps
		for _, dep := range bom.Dependencies {
			snap.DepsByStep[dep.StepID] = append(snap.DepsByStep[dep.StepID], dep)
		}
	}

	workers, err := repos.workers.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workers: %w", err)
	}
	snap.Workers = workers

	equipment, err := repos.equipment.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading equipment: %w", err)
	}
	for _, e := range equipment {
		snap.Equipment[e.ID] = e
	}

	certs, err := repos.workers.ListCertifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading certifications: %w", err)
	}
	snap.Certifications = certs

	settings, err := repos.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	snap.Calendar = calendarFromSettings(settings)
	return snap, nil
}

func (s *planSnapshot) planInput(windowStart, windowEnd time.Time) scheduler.PlanInput {
	return scheduler.PlanInput{
		WindowStart:    windowStart,
		WindowEnd:      windowEnd,
		Demand:         s.Demand,
		StepsByDemand:  s.StepsByDemand,
		DepsByStep:     s.DepsByStep,
		Workers:        s.Workers,
		Equipment:      s.Equipment,
		Certifications: s.Certifications,
		Calendar:       s.Calendar,
	}
}
