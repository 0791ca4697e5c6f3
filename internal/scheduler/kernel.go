package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

const (
	// MaxIterations bounds the per-demand scheduling loop independent of
	// the cancellation token.
	MaxIterations = 10000

	// slotLookaheadDays bounds the forward search for a free slot.
	slotLookaheadDays = 60
)

type pendingItem struct {
	step         domain.ProductStep
	batch        int
	batchQty     int
	remainingMin int
	emitted      int
	dropped      bool
}

// Generate runs one scenario: it walks the demand pool in priority order
// and greedily books ready (step, batch) work onto qualified workers'
// calendars. Given identical inputs it produces identical schedules; all
// iteration runs over sorted ids and no wall clock is consulted.
func Generate(ctx context.Context, in PlanInput, cfg StrategyConfig) (*ScheduleResult, error) {
	if err := ValidatePlanInput(in); err != nil {
		return nil, err
	}

	res := &ScheduleResult{Strategy: cfg.Strategy}
	book := NewDayBook(in.Calendar)
	certs := BuildCertIndex(in.Certifications)
	otCapMin := cfg.OvertimeLimitHoursDay * 60

	windowStart := in.WindowStart
	if !in.Calendar.IsWorkday(windowStart) {
		windowStart = in.Calendar.NextWorkday(windowStart)
	}

	var latest *Moment

	for _, dem := range sortedDemand(in.Demand, cfg.PriorityWeight) {
		proj, err := scheduleDemand(ctx, in, cfg, dem, book, certs, otCapMin, windowStart, res)
		if err != nil {
			return nil, err
		}
		res.Projections = append(res.Projections, proj)
		if proj.CanMeetTarget {
			res.Metrics.DeadlinesMet++
		} else {
			res.Metrics.DeadlinesMissed++
		}
	}

	for i := range res.Blocks {
		b := &res.Blocks[i]
		m := Moment{Date: b.Date, Min: b.EndMin}
		if latest == nil || latest.Before(m) {
			latest = &m
		}
	}
	if latest != nil {
		d := latest.Date
		res.Metrics.LatestCompletion = &d
	}
	return res, nil
}

func scheduleDemand(
	ctx context.Context,
	in PlanInput,
	cfg StrategyConfig,
	dem domain.DemandEntry,
	book *DayBook,
	certs CertIndex,
	otCapMin int,
	windowStart time.Time,
	res *ScheduleResult,
) (domain.DemandProjection, error) {
	proj := domain.DemandProjection{DemandID: dem.ID}

	steps := make([]domain.ProductStep, len(in.StepsByDemand[dem.ID]))
	copy(steps, in.StepsByDemand[dem.ID])
	sort.Slice(steps, func(i, j int) bool {
		if steps[i].Sequence != steps[j].Sequence {
			return steps[i].Sequence < steps[j].Sequence
		}
		return steps[i].ID < steps[j].ID
	})

	tracker := NewStateTracker(in.DepsByStep)
	startMoment := Moment{Date: windowStart, Min: in.Calendar.MorningStart}

	var pending []*pendingItem
	for _, step := range steps {
		qty := dem.Quantity
		if in.RemainingUnits != nil {
			qty = in.RemainingUnits[step.ID]
		}
		if qty <= 0 {
			// Nothing left on this step; dependents may proceed.
			tracker.SetBatchCount(step.ID, 1)
			tracker.MarkCompleted(StepBatchKey{StepID: step.ID, Batch: 1}, startMoment)
			continue
		}
		batches := SplitBatches(qty, dem.MinBatchSize, dem.MaxBatchSize)
		tracker.SetBatchCount(step.ID, len(batches))
		for i, batchQty := range batches {
			pending = append(pending, &pendingItem{
				step:         step,
				batch:        i + 1,
				batchQty:     batchQty,
				remainingMin: (step.TimePerPieceSeconds*batchQty + 59) / 60,
			})
		}
	}

	var demandLatest *Moment
	horizonWarned := false

	for iter := 0; len(pending) > 0; iter++ {
		if err := ctx.Err(); err != nil {
			return proj, err
		}
		if iter >= MaxIterations {
			res.Warnings = append(res.Warnings, fmt.Sprintf("demand %d: schedule may be incomplete", dem.ID))
			break
		}

		var ready []*pendingItem
		for _, it := range pending {
			k := StepBatchKey{StepID: it.step.ID, Batch: it.batch}
			if tracker.Started(k) || tracker.Ready(k) {
				ready = append(ready, it)
			}
		}
		if len(ready) == 0 {
			return proj, &InfeasibleError{DemandID: dem.ID, Detail: "circular dependency: no step-batch is ready"}
		}

		for _, it := range ready {
			k := StepBatchKey{StepID: it.step.ID, Batch: it.batch}

			qualified := QualifiedWorkers(it.step, in.Workers, certs, windowStart)
			if len(qualified) == 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"demand %d: no qualified worker for step %s (batch %d); work dropped",
					dem.ID, it.step.StepCode, it.batch))
				tracker.MarkCompleted(k, Moment{Date: windowStart, Min: in.Calendar.MorningStart})
				it.dropped = true
				continue
			}

			searchFrom := windowStart
			minStart := in.ResumeMin
			earliest, constrained := tracker.EarliestStart(k)
			if constrained {
				if earliest.Date.After(searchFrom) {
					searchFrom = earliest.Date
					minStart = 0
				}
				if earliest.Date.Equal(searchFrom) && earliest.Min > minStart {
					minStart = earliest.Min
				}
			}

			workerID, date, slot, ok := findNextAvailableSlot(
				book, in.Calendar, certs, it.step, qualified,
				searchFrom, minStart, cfg.AllowOvertime, otCapMin)
			if !ok {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"demand %d: no available slot within %d days for step %s (batch %d); work dropped",
					dem.ID, slotLookaheadDays, it.step.StepCode, it.batch))
				tracker.MarkCompleted(k, Moment{Date: searchFrom, Min: in.Calendar.MorningStart})
				it.dropped = true
				continue
			}

			workMin := min(it.remainingMin, slot.Minutes())
			end := slot.Start + workMin
			output := workMin * 60 / it.step.TimePerPieceSeconds
			if it.emitted+output >= it.batchQty {
				// Pieces covered; any rounding slack in the minute
				// budget dies with this block.
				output = it.batchQty - it.emitted
				it.remainingMin = 0
			} else {
				it.remainingMin -= workMin
				if it.remainingMin == 0 {
					// Final block absorbs flooring losses from earlier
					// splits so the batch quantity is always covered.
					output = it.batchQty - it.emitted
				}
			}
			it.emitted += output

			block := domain.ScheduleBlock{
				DemandID:         dem.ID,
				StepID:           it.step.ID,
				BatchNumber:      it.batch,
				BatchQuantity:    it.batchQty,
				Date:             date,
				StartMin:         slot.Start,
				EndMin:           end,
				PlannedOutput:    output,
				WorkerIDs:        []int64{workerID},
				AssignmentReason: assignmentReason(in, it, qualified, constrained),
				IsOvertime:       end > in.Calendar.AfternoonEnd,
			}
			res.Blocks = append(res.Blocks, block)
			book.CommitSlot(workerID, date, slot.Start, end)
			accrueMetrics(&res.Metrics, in, it.step, workerID, date, slot.Start, end)

			tracker.MarkStarted(k, Moment{Date: date, Min: slot.Start})
			if it.remainingMin == 0 {
				tracker.MarkCompleted(k, Moment{Date: date, Min: end})
			}

			endMoment := Moment{Date: date, Min: end}
			if demandLatest == nil || demandLatest.Before(endMoment) {
				demandLatest = &endMoment
			}
			if !horizonWarned && date.After(in.WindowEnd) {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"demand %d: schedule extends beyond the planning window", dem.ID))
				horizonWarned = true
			}
		}

		var next []*pendingItem
		for _, it := range pending {
			if it.remainingMin > 0 && !it.dropped {
				next = append(next, it)
			}
		}
		pending = next
	}

	if demandLatest != nil {
		d := demandLatest.Date
		proj.ProjectedCompletion = &d
		proj.CanMeetTarget = !d.After(dem.DueDate)
	}
	return proj, nil
}

// findNextAvailableSlot scans qualified workers day by day (up to the
// look-ahead bound) and returns the lexicographically earliest
// (date, start, worker) gap of at least MinSlotMinutes. minStart applies
// only on the first searched date. Certification validity is re-checked at
// each candidate date so an expiring certification stops assignments at
// its expiry, not at run start.
func findNextAvailableSlot(
	book *DayBook,
	cal calendar.Config,
	certs CertIndex,
	step domain.ProductStep,
	qualified []domain.Worker,
	from time.Time,
	minStart int,
	allowOvertime bool,
	maxOvertimeMin int,
) (workerID int64, date time.Time, slot Interval, ok bool) {
	day := from
	if !cal.IsWorkday(day) {
		day = cal.NextWorkday(day)
		minStart = 0
	}

	for i := 0; i < slotLookaheadDays; i++ {
		best := Interval{}
		var bestWorker int64
		found := false
		for _, w := range qualified {
			if step.EquipmentID != nil && !certs.Holds(w.ID, *step.EquipmentID, day) {
				continue
			}
			gaps := book.FindSlots(w.ID, day, minStart, allowOvertime, maxOvertimeMin)
			if len(gaps) == 0 {
				continue
			}
			g := gaps[0]
			if !found || g.Start < best.Start || (g.Start == best.Start && w.ID < bestWorker) {
				best = g
				bestWorker = w.ID
				found = true
			}
		}
		if found {
			return bestWorker, day, best, true
		}
		day = cal.NextWorkday(day)
		minStart = 0
	}
	return 0, time.Time{}, Interval{}, false
}

func accrueMetrics(m *domain.ScenarioMetrics, in PlanInput, step domain.ProductStep, workerID int64, date time.Time, start, end int) {
	regularEnd := min(end, in.Calendar.AfternoonEnd)
	if regularEnd > start {
		m.LaborHours += float64(in.Calendar.WorkMinutes(start, regularEnd)) / 60
	}
	if end > in.Calendar.AfternoonEnd {
		m.OvertimeHours += float64(end-max(start, in.Calendar.AfternoonEnd)) / 60
	}

	durHours := float64(in.Calendar.WorkMinutes(start, end)) / 60
	for _, w := range in.Workers {
		if w.ID == workerID {
			m.LaborCost += durHours * w.HourlyCost()
			break
		}
	}
	if step.EquipmentID != nil {
		if eq, found := in.Equipment[*step.EquipmentID]; found && eq.HourlyCost != nil {
			m.EquipmentCost += durHours * *eq.HourlyCost
		}
	}
}

// assignmentReason names the constraints satisfied by the assignment.
func assignmentReason(in PlanInput, it *pendingItem, qualified []domain.Worker, depConstrained bool) string {
	var parts []string
	if depConstrained {
		var codes []string
		for _, d := range in.DepsByStep[it.step.ID] {
			if d.Kind == domain.DependFinish {
				codes = append(codes, fmt.Sprintf("step %d", d.DependsOnStepID))
			}
		}
		if len(codes) > 0 {
			parts = append(parts, "after finish of "+strings.Join(codes, ", "))
		}
	}
	if it.batch > 1 {
		parts = append(parts, fmt.Sprintf("batch %d follows batch %d", it.batch, it.batch-1))
	}
	if it.step.EquipmentID != nil {
		parts = append(parts, fmt.Sprintf("requires certification for equipment %d", *it.step.EquipmentID))
	}
	if len(qualified) == 1 {
		parts = append(parts, "sole qualified worker")
	}
	if len(parts) == 0 {
		return "earliest available qualified worker"
	}
	return strings.Join(parts, "; ")
}
