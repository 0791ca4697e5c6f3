package scheduler

import (
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// Moment is a point on the work calendar: a date plus a clock minute.
type Moment struct {
	Date time.Time
	Min  int
}

// Before reports whether m precedes o.
func (m Moment) Before(o Moment) bool {
	if !m.Date.Equal(o.Date) {
		return m.Date.Before(o.Date)
	}
	return m.Min < o.Min
}

// SplitBatches decomposes a quantity into batch sizes of at most maxBatch.
// A trailing batch smaller than minBatch is coalesced into its predecessor.
// Zero bounds mean "no batching": one batch of the full quantity.
func SplitBatches(quantity, minBatch, maxBatch int) []int {
	if quantity <= 0 {
		return nil
	}
	if maxBatch <= 0 || maxBatch >= quantity {
		return []int{quantity}
	}

	var batches []int
	left := quantity
	for left > 0 {
		n := min(left, maxBatch)
		batches = append(batches, n)
		left -= n
	}
	last := len(batches) - 1
	if last > 0 && minBatch > 0 && batches[last] < minBatch {
		batches[last-1] += batches[last]
		batches = batches[:last]
	}
	return batches
}

// StepBatchKey identifies one batch of one step.
type StepBatchKey struct {
	StepID int64
	Batch  int
}

type batchProgress struct {
	started     bool
	startedAt   Moment
	completed   bool
	completedAt Moment
}

// StateTracker is the per-(step, batch) state machine driving readiness:
// pending -> started -> completed. It also answers the earliest-start
// moment implied by finish dependencies and intra-step batch ordering.
type StateTracker struct {
	states map[StepBatchKey]*batchProgress
	deps   map[int64][]domain.StepDependency
	counts map[int64]int
}

// NewStateTracker initializes all (step, batch) states as pending.
func NewStateTracker(deps map[int64][]domain.StepDependency) *StateTracker {
	return &StateTracker{
		states: make(map[StepBatchKey]*batchProgress),
		deps:   deps,
		counts: make(map[int64]int),
	}
}

// SetBatchCount records how many batches a step splits into. Steps of one
// demand may batch unevenly (replan remainders, coalesced tails), so
// dependency lookups clamp to the prerequisite's own highest batch.
func (t *StateTracker) SetBatchCount(stepID int64, n int) {
	t.counts[stepID] = n
}

func (t *StateTracker) depKey(stepID int64, batch int) StepBatchKey {
	if n, ok := t.counts[stepID]; ok && batch > n {
		batch = n
	}
	return StepBatchKey{StepID: stepID, Batch: batch}
}

func (t *StateTracker) state(k StepBatchKey) *batchProgress {
	s, ok := t.states[k]
	if !ok {
		s = &batchProgress{}
		t.states[k] = s
	}
	return s
}

// MarkStarted records the first emitted block for the key.
func (t *StateTracker) MarkStarted(k StepBatchKey, at Moment) {
	s := t.state(k)
	if !s.started {
		s.started = true
		s.startedAt = at
	}
}

// MarkCompleted records the key's final block end.
func (t *StateTracker) MarkCompleted(k StepBatchKey, at Moment) {
	s := t.state(k)
	s.completed = true
	s.completedAt = at
	if !s.started {
		s.started = true
		s.startedAt = at
	}
}

// Started reports whether work on the key has begun.
func (t *StateTracker) Started(k StepBatchKey) bool {
	return t.state(k).started
}

// Completed reports whether the key is done.
func (t *StateTracker) Completed(k StepBatchKey) bool {
	return t.state(k).completed
}

// Ready reports whether the key may start: every finish dependency of the
// step is completed for the same batch, every start dependency has begun,
// and for batch > 1 the previous batch of the same step is completed.
func (t *StateTracker) Ready(k StepBatchKey) bool {
	for _, d := range t.deps[k.StepID] {
		dk := t.depKey(d.DependsOnStepID, k.Batch)
		switch d.Kind {
		case domain.DependFinish:
			if !t.Completed(dk) {
				return false
			}
		case domain.DependStart:
			if !t.Started(dk) {
				return false
			}
		}
	}
	if k.Batch > 1 && !t.Completed(StepBatchKey{StepID: k.StepID, Batch: k.Batch - 1}) {
		return false
	}
	return true
}

// EarliestStart returns the latest completion moment among the key's
// finish dependencies (same batch) and the previous batch of the same
// step. The second return is false when nothing constrains the start and
// the calendar alone decides.
func (t *StateTracker) EarliestStart(k StepBatchKey) (Moment, bool) {
	var at Moment
	found := false

	consider := func(dk StepBatchKey) {
		s := t.state(dk)
		if !s.completed {
			return
		}
		if !found || at.Before(s.completedAt) {
			at = s.completedAt
		}
		found = true
	}

	for _, d := range t.deps[k.StepID] {
		if d.Kind == domain.DependFinish {
			consider(t.depKey(d.DependsOnStepID, k.Batch))
		}
	}
	if k.Batch > 1 {
		consider(StepBatchKey{StepID: k.StepID, Batch: k.Batch - 1})
	}
	return at, found
}
