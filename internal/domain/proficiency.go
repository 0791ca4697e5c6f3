package domain

import "time"

// Proficiency levels run 1 (slowest) through 5 (fastest).
const (
	MinProficiencyLevel = 1
	MaxProficiencyLevel = 5
	// DefaultProficiencyLevel applies when a (worker, step) pair has no
	// stored proficiency row.
	DefaultProficiencyLevel = 3
)

// WorkerProficiency maps a (worker, step) pair to a level.
type WorkerProficiency struct {
	ID        int64
	WorkerID  int64
	StepID    int64
	Level     int
	UpdatedAt time.Time
}

// ProficiencyHistory is an append-only record of a level transition.
type ProficiencyHistory struct {
	ID        int64
	WorkerID  int64
	StepID    int64
	FromLevel int
	ToLevel   int
	Reason    AdjustmentReason
	// AvgEfficiency and SampleSize are the machine-readable trigger data
	// for automatic adjustments; zero for manual overrides.
	AvgEfficiency float64
	SampleSize    int
	RecordedAt    time.Time
}

// OutputSample is one row of the append-only per-assignment output stream,
// used to derive time-per-piece trends.
type OutputSample struct {
	ID           int64
	AssignmentID int64
	Output       int
	RecordedAt   time.Time
}
