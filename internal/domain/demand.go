package domain

import "time"

// DemandEntry is the scheduler's unit of input work: N units of a product
// due by a date. BuildVersionID selects the recipe; when nil the product's
// default active build version applies.
type DemandEntry struct {
	ID             int64
	Source         DemandSource
	ProductID      int64
	BuildVersionID *int64
	Quantity       int
	DueDate        time.Time
	CustomerName   *string
	// Priority is 1 (highest) through 5 (lowest).
	Priority int
	Status   DemandStatus
	// MinBatchSize/MaxBatchSize are per-demand batching preferences.
	// Zero means "no batching": the full quantity runs as one batch.
	MinBatchSize int
	MaxBatchSize int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
