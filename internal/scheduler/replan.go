package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// resumeGranularityMin rounds a replan start up to the next quarter hour.
const resumeGranularityMin = 15

// ResumePoint returns the next legal work moment at or after now: rounded
// up to the quarter hour, then pushed past pre-morning, lunch, day-end and
// non-workdays.
func ResumePoint(cfg calendar.Config, now time.Time) Moment {
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	minute := now.Hour()*60 + now.Minute()
	if now.Second() > 0 || now.Nanosecond() > 0 {
		minute++
	}
	if rem := minute % resumeGranularityMin; rem != 0 {
		minute += resumeGranularityMin - rem
	}

	for {
		if !cfg.IsWorkday(date) {
			date = cfg.NextWorkday(date)
			minute = cfg.MorningStart
			continue
		}
		switch {
		case minute < cfg.MorningStart:
			minute = cfg.MorningStart
		case minute >= cfg.LunchStart && minute < cfg.LunchEnd:
			minute = cfg.LunchEnd
		case minute >= cfg.AfternoonEnd:
			date = cfg.NextWorkday(date)
			minute = cfg.MorningStart
			continue
		}
		return Moment{Date: date, Min: minute}
	}
}

// OvertimeSuggestion is a non-committed candidate overtime block offered
// when a replanned schedule would miss its due date.
type OvertimeSuggestion struct {
	Date     time.Time
	StartMin int
	EndMin   int
	WorkerID int64
	StepID   int64
	Minutes  int
}

// suggestionBufferMin pads the overtime ask past the bare shortfall.
const suggestionBufferMin = 120

// BuildOvertimeSuggestions emits candidate blocks in the overtime window
// of each workday between start and the due date until the aggregate
// overtime covers shortfallMin plus a two-hour buffer. The target step is
// the first step that still needs work, matching the long-standing replan
// behavior rather than the critical path. Suggestions are advisory; none
// is committed.
func BuildOvertimeSuggestions(
	cfg calendar.Config,
	start Moment,
	dueDate time.Time,
	shortfallMin int,
	otCapMin int,
	stepID int64,
	workers []domain.Worker,
) []OvertimeSuggestion {
	if shortfallMin <= 0 || len(workers) == 0 || otCapMin <= 0 {
		return nil
	}

	sorted := make([]domain.Worker, len(workers))
	copy(sorted, workers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	otEnd := min(cfg.AfternoonEnd+otCapMin, cfg.OvertimeEnd)
	if otEnd <= cfg.AfternoonEnd {
		return nil
	}

	need := shortfallMin + suggestionBufferMin
	var out []OvertimeSuggestion

	day := start.Date
	if !cfg.IsWorkday(day) {
		day = cfg.NextWorkday(day)
	}
	for !day.After(dueDate) && need > 0 {
		for _, w := range sorted {
			if need <= 0 {
				break
			}
			minutes := otEnd - cfg.AfternoonEnd
			out = append(out, OvertimeSuggestion{
				Date:     day,
				StartMin: cfg.AfternoonEnd,
				EndMin:   otEnd,
				WorkerID: w.ID,
				StepID:   stepID,
				Minutes:  minutes,
			})
			need -= minutes
		}
		day = cfg.NextWorkday(day)
	}
	return out
}

// RemainingByStep derives how many units each step still owes from
// completed task output: total minus completed, floored at zero.
func RemainingByStep(totalUnits int, steps []domain.ProductStep, completed map[int64]int) map[int64]int {
	out := make(map[int64]int, len(steps))
	for _, s := range steps {
		left := totalUnits - completed[s.ID]
		if left < 0 {
			left = 0
		}
		out[s.ID] = left
	}
	return out
}

// FirstIncompleteStep returns the lowest-sequence step with remaining
// units, used as the overtime-suggestion target.
func FirstIncompleteStep(steps []domain.ProductStep, remaining map[int64]int) (domain.ProductStep, error) {
	sorted := make([]domain.ProductStep, len(steps))
	copy(sorted, steps)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Sequence != sorted[j].Sequence {
			return sorted[i].Sequence < sorted[j].Sequence
		}
		return sorted[i].ID < sorted[j].ID
	})
	for _, s := range sorted {
		if remaining[s.ID] > 0 {
			return s, nil
		}
	}
	return domain.ProductStep{}, fmt.Errorf("no step has remaining work")
}
