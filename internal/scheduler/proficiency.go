package scheduler

import (
	"sort"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// levelMultipliers maps proficiency levels to scheduling time multipliers.
var levelMultipliers = map[int]float64{
	1: 1.5,
	2: 1.25,
	3: 1.0,
	4: 0.85,
	5: 0.7,
}

// LevelMultiplier returns the time multiplier for a level; unknown levels
// fall back to the default level's multiplier.
func LevelMultiplier(level int) float64 {
	if m, ok := levelMultipliers[level]; ok {
		return m
	}
	return levelMultipliers[domain.DefaultProficiencyLevel]
}

// Efficiency computes the efficiency percentage of a completed block:
// planned seconds of output over actual seconds worked, times 100.
func Efficiency(actualOutput, timePerPieceSeconds, actualSeconds int) float64 {
	if actualSeconds <= 0 {
		return 0
	}
	return float64(actualOutput*timePerPieceSeconds) / float64(actualSeconds) * 100
}

// LevelForEfficiency maps an average efficiency to a level via the
// configured cut-points.
func LevelForEfficiency(avg float64, cuts domain.LevelCutPoints) int {
	switch {
	case avg >= cuts.Level5:
		return 5
	case avg >= cuts.Level4:
		return 4
	case avg >= cuts.Level3:
		return 3
	case avg >= cuts.Level2:
		return 2
	default:
		return 1
	}
}

// WorkerStepKey identifies a (worker, step) proficiency pair.
type WorkerStepKey struct {
	WorkerID int64
	StepID   int64
}

// CompletedWork is one completed block's contribution to proficiency
// derivation.
type CompletedWork struct {
	WorkerID      int64
	StepID        int64
	EfficiencyPct float64
	CompletedAt   time.Time
}

// ProposedAdjustment is a one-level proficiency change suggested by the
// auto-adjustment batch, with its trigger data.
type ProposedAdjustment struct {
	WorkerID      int64
	StepID        int64
	FromLevel     int
	ToLevel       int
	Reason        domain.AdjustmentReason
	AvgEfficiency float64
	SampleSize    int
}

// adjustment thresholds: pairs averaging above raiseAbove move up a level,
// below lowerBelow move down, with at least minSamples completed blocks in
// the trailing sampleWindow.
const (
	adjustMinSamples   = 5
	adjustSampleWindow = 30 * 24 * time.Hour
	adjustRaiseAbove   = 120.0
	adjustLowerBelow   = 80.0
)

// BuildAdjustments derives auto-adjustment proposals from completed work.
// For every (worker, step) pair with at least five completed blocks inside
// the trailing 30 days, a mean efficiency above 120% proposes a one-level
// increase (capped at 5) and below 80% a one-level decrease (floored at 1).
// currentLevels supplies stored levels; absent pairs default to level 3.
func BuildAdjustments(work []CompletedWork, currentLevels map[WorkerStepKey]int, now time.Time) []ProposedAdjustment {
	type pair struct {
		workerID int64
		stepID   int64
	}
	sums := make(map[pair]float64)
	counts := make(map[pair]int)

	cutoff := now.Add(-adjustSampleWindow)
	for _, w := range work {
		if w.CompletedAt.Before(cutoff) {
			continue
		}
		p := pair{workerID: w.WorkerID, stepID: w.StepID}
		sums[p] += w.EfficiencyPct
		counts[p]++
	}

	pairs := make([]pair, 0, len(counts))
	for p := range counts {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].workerID != pairs[j].workerID {
			return pairs[i].workerID < pairs[j].workerID
		}
		return pairs[i].stepID < pairs[j].stepID
	})

	var out []ProposedAdjustment
	for _, p := range pairs {
		n := counts[p]
		if n < adjustMinSamples {
			continue
		}
		avg := sums[p] / float64(n)

		level := domain.DefaultProficiencyLevel
		if l, ok := currentLevels[WorkerStepKey{WorkerID: p.workerID, StepID: p.stepID}]; ok {
			level = l
		}

		switch {
		case avg > adjustRaiseAbove && level < domain.MaxProficiencyLevel:
			out = append(out, ProposedAdjustment{
				WorkerID: p.workerID, StepID: p.stepID,
				FromLevel: level, ToLevel: level + 1,
				Reason: domain.AdjustAutoIncrease, AvgEfficiency: avg, SampleSize: n,
			})
		case avg < adjustLowerBelow && level > domain.MinProficiencyLevel:
			out = append(out, ProposedAdjustment{
				WorkerID: p.workerID, StepID: p.stepID,
				FromLevel: level, ToLevel: level - 1,
				Reason: domain.AdjustAutoDecrease, AvgEfficiency: avg, SampleSize: n,
			})
		}
	}
	return out
}

// TrendResult summarizes pace change over one assignment's output stream.
type TrendResult struct {
	// Stage averages are seconds per output unit.
	BeginSecPerUnit  float64
	MiddleSecPerUnit float64
	EndSecPerUnit    float64
	SpeedupPct       float64
	Samples          int
}

// OutputTrend computes pace intervals between consecutive output samples
// and averages them by stage: first quartile, middle half, last quartile.
// SpeedupPct is positive when the end stage runs faster than the
// beginning. It returns false when fewer than two samples carry a
// positive output delta.
func OutputTrend(samples []domain.OutputSample) (TrendResult, bool) {
	sorted := make([]domain.OutputSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RecordedAt.Before(sorted[j].RecordedAt) })

	type interval struct{ secPerUnit float64 }
	var intervals []interval
	for i := 1; i < len(sorted); i++ {
		dOut := sorted[i].Output - sorted[i-1].Output
		if dOut <= 0 {
			continue
		}
		dSec := sorted[i].RecordedAt.Sub(sorted[i-1].RecordedAt).Seconds()
		intervals = append(intervals, interval{secPerUnit: dSec / float64(dOut)})
	}
	if len(intervals) < 2 {
		return TrendResult{}, false
	}

	n := len(intervals)
	q := n / 4
	if q == 0 {
		q = 1
	}
	avg := func(from, to int) float64 {
		if to <= from {
			return 0
		}
		var s float64
		for _, iv := range intervals[from:to] {
			s += iv.secPerUnit
		}
		return s / float64(to-from)
	}

	begin := avg(0, q)
	middle := avg(q, n-q)
	end := avg(n-q, n)
	if middle == 0 {
		middle = begin
	}

	res := TrendResult{
		BeginSecPerUnit:  begin,
		MiddleSecPerUnit: middle,
		EndSecPerUnit:    end,
		Samples:          len(sorted),
	}
	if begin > 0 {
		res.SpeedupPct = (begin - end) / begin * 100
	}
	return res, true
}
