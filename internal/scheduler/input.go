package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// PlanInput is the full snapshot a scenario generation runs on. The kernel
// performs no I/O: every read happens before Generate is called.
type PlanInput struct {
	WindowStart time.Time
	WindowEnd   time.Time

	Demand []domain.DemandEntry
	// StepsByDemand holds the resolved BOM steps per demand entry.
	StepsByDemand map[int64][]domain.ProductStep
	// DepsByStep maps step id -> dependencies where the step is the
	// waiting side.
	DepsByStep map[int64][]domain.StepDependency

	Workers        []domain.Worker
	Equipment      map[int64]domain.Equipment
	Certifications []domain.EquipmentCertification

	Calendar calendar.Config

	// RemainingUnits overrides per-step quantities during a replan:
	// step id -> units still to produce. Empty means full quantities.
	RemainingUnits map[int64]int

	// ResumeMin is the earliest clock minute usable on WindowStart.
	// Replans set it to the next legal work moment; zero means the day
	// is open from morning start.
	ResumeMin int
}

// StrategyConfig tunes one scenario generation.
type StrategyConfig struct {
	Strategy              domain.Strategy
	AllowOvertime         bool
	OvertimeLimitHoursDay int
	PriorityWeight        float64
}

// StrategyConfigs returns the three generated strategy profiles, in their
// canonical order.
func StrategyConfigs() []StrategyConfig {
	return []StrategyConfig{
		{Strategy: domain.StrategyMeetDeadlines, AllowOvertime: true, OvertimeLimitHoursDay: 4, PriorityWeight: 1.5},
		{Strategy: domain.StrategyMinimizeCost, AllowOvertime: false, OvertimeLimitHoursDay: 0, PriorityWeight: 1.0},
		{Strategy: domain.StrategyBalanced, AllowOvertime: true, OvertimeLimitHoursDay: 2, PriorityWeight: 1.2},
	}
}

// ScheduleResult is one generated scenario: the schedule itself plus
// rolled-up metrics, per-demand projections and non-fatal warnings.
type ScheduleResult struct {
	Strategy    domain.Strategy
	Blocks      []domain.ScheduleBlock
	Metrics     domain.ScenarioMetrics
	Projections []domain.DemandProjection
	Warnings    []string
}

// InfeasibleError is fatal: the dependency graph cannot make progress
// (a cycle, detected by the stuck check). The scenario is abandoned.
type InfeasibleError struct {
	DemandID int64
	Detail   string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("schedule infeasible for demand %d: %s", e.DemandID, e.Detail)
}

// ValidatePlanInput enforces the generation preconditions: a non-inverted
// window, every demand carrying at least one BOM step, and every
// multi-step BOM carrying at least one dependency. Multi-step BOMs with no
// dependencies are rejected outright rather than silently scheduled in
// parallel. Disconnected dependency graphs are accepted as parallel
// chains.
func ValidatePlanInput(in PlanInput) error {
	if in.WindowEnd.Before(in.WindowStart) {
		return fmt.Errorf("planning window inverted: %s after %s",
			calendar.FormatDate(in.WindowStart), calendar.FormatDate(in.WindowEnd))
	}
	for _, d := range sortedDemand(in.Demand, 1.0) {
		steps := in.StepsByDemand[d.ID]
		if len(steps) == 0 {
			return fmt.Errorf("demand %d has no BOM steps", d.ID)
		}
		if len(steps) < 2 {
			continue
		}
		hasDep := false
		for _, s := range steps {
			if len(in.DepsByStep[s.ID]) > 0 {
				hasDep = true
				break
			}
		}
		if !hasDep {
			return fmt.Errorf("demand %d: multi-step BOM has no dependencies", d.ID)
		}
	}
	return nil
}

// sortedDemand orders demand for deterministic scheduling: weighted
// priority descending (priority 1 is highest, so lower raw value wins),
// then due date ascending, then id ascending.
func sortedDemand(demand []domain.DemandEntry, priorityWeight float64) []domain.DemandEntry {
	out := make([]domain.DemandEntry, len(demand))
	copy(out, demand)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		wa := float64(a.Priority) * priorityWeight
		wb := float64(b.Priority) * priorityWeight
		if wa != wb {
			return wa < wb
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})
	return out
}
