package domain

import "time"

// ScheduleBlock is a single contiguous work assignment: one (step, batch)
// worked on a date between two clock minutes. Start and end are minutes
// since midnight, always inside a single work day and never straddling the
// lunch window.
type ScheduleBlock struct {
	DemandID      int64
	StepID        int64
	BatchNumber   int
	BatchQuantity int
	Date          time.Time
	StartMin      int
	EndMin        int
	PlannedOutput int
	WorkerIDs     []int64
	// AssignmentReason names the constraints that produced this
	// assignment (dependency waits, batch ordering, certification).
	AssignmentReason string
	ConstraintNotes  []string
	IsOvertime       bool
	IsAutoSuggested  bool
}

type PlanTaskStatus string

const (
	TaskScheduled  PlanTaskStatus = "scheduled"
	TaskInProgress PlanTaskStatus = "in_progress"
	TaskCompleted  PlanTaskStatus = "completed"
)

// PlanTask is a materialized, executable schedule block created when a
// scenario is accepted. Unlike scenario blocks it carries identity, a
// lifecycle status and actual recorded output.
type PlanTask struct {
	ID            int64
	RunID         int64
	DemandID      int64
	StepID        int64
	BatchNumber   int
	BatchQuantity int
	Date          time.Time
	StartMin      int
	EndMin        int
	PlannedOutput int
	WorkerIDs     []int64
	Status        PlanTaskStatus
	ActualOutput  int
	IsOvertime    bool
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
