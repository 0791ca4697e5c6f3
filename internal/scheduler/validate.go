package scheduler

import (
	"fmt"
	"sort"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// ValidationContext carries the catalog snapshot an edited schedule is
// checked against.
type ValidationContext struct {
	Workers        map[int64]domain.Worker
	Steps          map[int64]domain.ProductStep
	Certifications CertIndex
	Calendar       calendar.Config
}

// ValidationResult separates rejecting errors from advisory warnings.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the schedule passed with no errors.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateSchedule checks an edited schedule: unknown ids, certification
// coverage, per-worker overlap on a date, time-window sanity and positive
// output are errors; inactive or missing workers are warnings. It is a
// pure function over its inputs.
func ValidateSchedule(blocks []domain.ScheduleBlock, vctx ValidationContext) ValidationResult {
	var res ValidationResult

	type workerDate struct {
		workerID int64
		date     string
	}
	byWorkerDate := make(map[workerDate][]Interval)

	for i, b := range blocks {
		ref := fmt.Sprintf("block %d (step %d batch %d)", i+1, b.StepID, b.BatchNumber)

		if b.EndMin <= b.StartMin {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: end time not after start time", ref))
		}
		if b.PlannedOutput <= 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: planned output must be positive", ref))
		}

		step, stepKnown := vctx.Steps[b.StepID]
		if !stepKnown {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown step %d", ref, b.StepID))
		}

		if len(b.WorkerIDs) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: no workers assigned", ref))
		}

		for _, wid := range b.WorkerIDs {
			w, known := vctx.Workers[wid]
			if !known {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown worker %d", ref, wid))
				continue
			}
			if w.Status != domain.WorkerActive {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: worker %s is %s", ref, w.Name, w.Status))
			}
			if stepKnown && step.EquipmentID != nil &&
				!vctx.Certifications.Holds(wid, *step.EquipmentID, b.Date) {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"%s: worker %s lacks a valid certification for equipment %d",
					ref, w.Name, *step.EquipmentID))
			}

			key := workerDate{workerID: wid, date: calendar.FormatDate(b.Date)}
			byWorkerDate[key] = append(byWorkerDate[key], Interval{Start: b.StartMin, End: b.EndMin})
		}
	}

	// Per-worker overlap detection, iterated in a stable order.
	keys := make([]workerDate, 0, len(byWorkerDate))
	for k := range byWorkerDate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].workerID != keys[j].workerID {
			return keys[i].workerID < keys[j].workerID
		}
		return keys[i].date < keys[j].date
	})
	for _, k := range keys {
		ivs := byWorkerDate[k]
		sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
		for i := 1; i < len(ivs); i++ {
			if ivs[i].Start < ivs[i-1].End {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"worker %d has overlapping blocks on %s (%s and %s)",
					k.workerID, k.date,
					calendar.FormatClock(ivs[i-1].Start), calendar.FormatClock(ivs[i].Start)))
			}
		}
	}

	return res
}
