package scheduler

import (
	"sort"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// WorkerOverride tunes one worker's contribution to a capacity analysis.
type WorkerOverride struct {
	Available   bool
	HoursPerDay int
}

// DemandRisk is the deadline-risk readout for one open demand entry.
type DemandRisk struct {
	DemandID          int64
	RequiredHours     float64
	AvailableHoursDue float64
	CanMeet           bool
	ShortfallHours    float64
	Risk              domain.RiskLevel
}

// WeekCapacity is one row of the weekly breakdown, keyed by its Monday.
type WeekCapacity struct {
	WeekStart      time.Time
	AvailableHours float64
	RequiredHours  float64
}

// CapacityInput is the scenario-independent snapshot the analyzer runs on.
type CapacityInput struct {
	From    time.Time
	To      time.Time
	Demand  []domain.DemandEntry
	Steps   map[int64][]domain.ProductStep
	Workers []domain.Worker
	// Overrides adjusts availability per worker id; absent workers use
	// active status and the default day length.
	Overrides map[int64]WorkerOverride
	// Multipliers optionally scales each demand's required hours by a
	// proficiency time multiplier; absent demand ids use 1.0.
	Multipliers map[int64]float64
	Calendar    calendar.Config
}

// CapacityResult aggregates available workforce hours against required
// hours over the horizon.
type CapacityResult struct {
	AvailableHours float64
	RequiredHours  float64
	Risks          []DemandRisk
	Weekly         []WeekCapacity
}

const defaultHoursPerDay = 8

// AnalyzeCapacity maps remaining demand to workforce hours over the date
// range: total availability, per-demand deadline risk and a per-Monday
// weekly breakdown. It is scenario-agnostic: no schedule is consulted,
// only catalog data and the calendar.
func AnalyzeCapacity(in CapacityInput) CapacityResult {
	var res CapacityResult

	hoursPerDay := 0.0
	for _, w := range in.Workers {
		hoursPerDay += workerDailyHours(w, in.Overrides)
	}

	weekdays := in.Calendar.WeekdaysBetween(in.From, in.To)
	res.AvailableHours = hoursPerDay * float64(weekdays)

	demand := make([]domain.DemandEntry, len(in.Demand))
	copy(demand, in.Demand)
	sort.Slice(demand, func(i, j int) bool { return demand[i].ID < demand[j].ID })

	for _, d := range demand {
		if d.Status == domain.DemandCompleted {
			continue
		}
		required := requiredHours(d, in.Steps[d.ID])
		if m, ok := in.Multipliers[d.ID]; ok && m > 0 {
			required *= m
		}
		res.RequiredHours += required

		dueEnd := d.DueDate
		if dueEnd.After(in.To) {
			dueEnd = in.To
		}
		availUntilDue := 0.0
		if !dueEnd.Before(in.From) {
			availUntilDue = hoursPerDay * float64(in.Calendar.WeekdaysBetween(in.From, dueEnd))
		}

		shortfall := max(0, required-availUntilDue)
		risk := domain.RiskOnTrack
		switch {
		case shortfall > 0:
			risk = domain.RiskCritical
		case availUntilDue > 0 && required > 0.85*availUntilDue:
			risk = domain.RiskAtRisk
		}

		res.Risks = append(res.Risks, DemandRisk{
			DemandID:          d.ID,
			RequiredHours:     required,
			AvailableHoursDue: availUntilDue,
			CanMeet:           shortfall == 0,
			ShortfallHours:    shortfall,
			Risk:              risk,
		})
	}

	res.Weekly = weeklyBreakdown(in, demand, hoursPerDay)
	return res
}

func workerDailyHours(w domain.Worker, overrides map[int64]WorkerOverride) float64 {
	if ov, ok := overrides[w.ID]; ok {
		if !ov.Available {
			return 0
		}
		if ov.HoursPerDay > 0 {
			return float64(ov.HoursPerDay)
		}
		return defaultHoursPerDay
	}
	if w.Status != domain.WorkerActive {
		return 0
	}
	return defaultHoursPerDay
}

func requiredHours(d domain.DemandEntry, steps []domain.ProductStep) float64 {
	secPerPiece := 0
	for _, s := range steps {
		secPerPiece += s.TimePerPieceSeconds
	}
	return float64(d.Quantity) * float64(secPerPiece) / 3600
}

// weeklyBreakdown reports per-Monday available vs required hours. Each
// demand's requirement lands in the week of its due date; demand due
// outside the range accrues to the nearest boundary week.
func weeklyBreakdown(in CapacityInput, demand []domain.DemandEntry, hoursPerDay float64) []WeekCapacity {
	start := mondayOf(in.From)
	end := mondayOf(in.To)

	var weeks []WeekCapacity
	index := make(map[string]int)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		weekEnd := d.AddDate(0, 0, 6)
		from, to := d, weekEnd
		if from.Before(in.From) {
			from = in.From
		}
		if to.After(in.To) {
			to = in.To
		}
		index[calendar.FormatDate(d)] = len(weeks)
		weeks = append(weeks, WeekCapacity{
			WeekStart:      d,
			AvailableHours: hoursPerDay * float64(in.Calendar.WeekdaysBetween(from, to)),
		})
	}
	if len(weeks) == 0 {
		return nil
	}

	for _, dem := range demand {
		if dem.Status == domain.DemandCompleted {
			continue
		}
		required := requiredHours(dem, in.Steps[dem.ID])
		if m, ok := in.Multipliers[dem.ID]; ok && m > 0 {
			required *= m
		}
		wk := mondayOf(dem.DueDate)
		if wk.Before(start) {
			wk = start
		}
		if wk.After(end) {
			wk = end
		}
		weeks[index[calendar.FormatDate(wk)]].RequiredHours += required
	}
	return weeks
}

func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
