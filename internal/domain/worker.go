package domain

import "time"

type Worker struct {
	ID           int64
	Name         string
	EmployeeID   *string
	Status       WorkerStatus
	WorkCategory *string
	CostPerHour  *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HourlyCost returns the worker's cost per hour, zero when unset.
func (w *Worker) HourlyCost() float64 {
	if w.CostPerHour == nil {
		return 0
	}
	return *w.CostPerHour
}

type Equipment struct {
	ID           int64
	Name         string
	Status       EquipmentStatus
	StationCount *int
	HourlyCost   *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EquipmentCertification clears a worker to operate a piece of equipment.
// At most one row exists per (worker, equipment) pair.
type EquipmentCertification struct {
	ID          int64
	WorkerID    int64
	EquipmentID int64
	CertifiedAt time.Time
	ExpiresAt   *time.Time
}

// ValidAt reports whether the certification is valid at t: never-expiring
// or expiring strictly after t.
func (c *EquipmentCertification) ValidAt(t time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.After(t)
}
