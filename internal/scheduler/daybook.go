package scheduler

import (
	"sort"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
)

// MinSlotMinutes is the smallest gap FindSlots will report. Anything
// shorter causes assignment thrashing for no useful output.
const MinSlotMinutes = 15

// Interval is a half-open [Start, End) span of clock minutes.
type Interval struct {
	Start int
	End   int
}

// Minutes returns the wall length of the interval.
func (iv Interval) Minutes() int {
	return iv.End - iv.Start
}

type dayKey struct {
	workerID int64
	date     string
}

type workerDay struct {
	regularUsed  int
	overtimeUsed int
	slots        []Interval // sorted by Start, non-overlapping
}

// DayBook tracks committed work per (worker, date): occupied intervals plus
// regular and overtime minute accrual. It is owned by a single scenario
// generation and is never shared.
type DayBook struct {
	cfg  calendar.Config
	days map[dayKey]*workerDay
}

// NewDayBook creates an empty book under the given work-day policy.
func NewDayBook(cfg calendar.Config) *DayBook {
	return &DayBook{cfg: cfg, days: make(map[dayKey]*workerDay)}
}

func (b *DayBook) day(workerID int64, date time.Time) *workerDay {
	k := dayKey{workerID: workerID, date: calendar.FormatDate(date)}
	d, ok := b.days[k]
	if !ok {
		d = &workerDay{}
		b.days[k] = d
	}
	return d
}

// FindSlots returns, in chronological order, every free gap of at least
// MinSlotMinutes on the worker's day. Gaps are confined to the morning and
// afternoon periods, extended past the regular day end by the worker's
// unexhausted overtime allowance when allowOvertime is set. earliestStart
// clips gap starts; pass 0 (or any pre-morning value) for no constraint.
func (b *DayBook) FindSlots(workerID int64, date time.Time, earliestStart int, allowOvertime bool, maxOvertimeMin int) []Interval {
	d := b.day(workerID, date)

	dayEnd := b.cfg.AfternoonEnd
	if allowOvertime && maxOvertimeMin > d.overtimeUsed {
		// Committed overtime slots still occupy their own intervals, so
		// the window extends by the full allowance, not the remainder.
		dayEnd = min(b.cfg.AfternoonEnd+maxOvertimeMin, b.cfg.OvertimeEnd)
	}

	periods := []Interval{
		{Start: b.cfg.MorningStart, End: b.cfg.LunchStart},
		{Start: b.cfg.LunchEnd, End: dayEnd},
	}

	var gaps []Interval
	for _, p := range periods {
		cursor := max(p.Start, earliestStart)
		for _, s := range d.slots {
			if s.End <= cursor || s.Start >= p.End {
				continue
			}
			if s.Start > cursor {
				gaps = appendGap(gaps, Interval{Start: cursor, End: min(s.Start, p.End)})
			}
			cursor = max(cursor, s.End)
		}
		if cursor < p.End {
			gaps = appendGap(gaps, Interval{Start: cursor, End: p.End})
		}
	}
	return gaps
}

func appendGap(gaps []Interval, g Interval) []Interval {
	if g.Minutes() < MinSlotMinutes {
		return gaps
	}
	return append(gaps, g)
}

// CommitSlot records [start, end) as occupied and accrues the regular and
// overtime portions. Callers must pass a gap (or a trimmed prefix of one)
// previously returned by FindSlots; intervals are non-overlapping by
// construction.
func (b *DayBook) CommitSlot(workerID int64, date time.Time, start, end int) {
	d := b.day(workerID, date)

	d.slots = append(d.slots, Interval{Start: start, End: end})
	sort.Slice(d.slots, func(i, j int) bool { return d.slots[i].Start < d.slots[j].Start })

	regularEnd := min(end, b.cfg.AfternoonEnd)
	if regularEnd > start {
		d.regularUsed += b.cfg.WorkMinutes(start, regularEnd)
	}
	if end > b.cfg.AfternoonEnd {
		d.overtimeUsed += end - max(start, b.cfg.AfternoonEnd)
	}
}

// UsedMinutes reports the regular and overtime minutes committed for the
// worker on the date.
func (b *DayBook) UsedMinutes(workerID int64, date time.Time) (regular, overtime int) {
	d := b.day(workerID, date)
	return d.regularUsed, d.overtimeUsed
}
