package contract

import "github.com/zainhoda/sij-manager-sub003/internal/domain"

// StepProductivity is one (step) row of a worker's productivity rollup.
// SuggestedLevel maps the observed average efficiency through the
// configured level cut-points, independent of the stored level.
type StepProductivity struct {
	StepID         int64   `json:"step_id"`
	StepCode       string  `json:"step_code"`
	Level          int     `json:"level"`
	SuggestedLevel int     `json:"suggested_level"`
	AvgEfficiency  float64 `json:"avg_efficiency"`
	SampleSize     int     `json:"sample_size"`
}

// ProductivitySummary is the per-worker analytics payload.
type ProductivitySummary struct {
	WorkerID      int64              `json:"worker_id"`
	WorkerName    string             `json:"worker_name"`
	AvgEfficiency float64            `json:"avg_efficiency"`
	TotalBlocks   int                `json:"total_blocks"`
	Steps         []StepProductivity `json:"steps"`
}

// AdjustmentView is one proposed or applied proficiency change.
type AdjustmentView struct {
	WorkerID      int64                   `json:"worker_id"`
	StepID        int64                   `json:"step_id"`
	FromLevel     int                     `json:"from_level"`
	ToLevel       int                     `json:"to_level"`
	Reason        domain.AdjustmentReason `json:"reason"`
	AvgEfficiency float64                 `json:"avg_efficiency"`
	SampleSize    int                     `json:"sample_size"`
}

// RecalculateResult reports a proficiency auto-adjustment batch.
type RecalculateResult struct {
	Applied     int              `json:"applied"`
	Adjustments []AdjustmentView `json:"adjustments"`
}

// CapacityRequest bounds a capacity analysis. Dates are YYYY-MM-DD.
type CapacityRequest struct {
	From      string                    `json:"from"`
	To        string                    `json:"to"`
	Overrides map[int64]WorkerHoursView `json:"overrides,omitempty"`
}

type WorkerHoursView struct {
	Available   bool `json:"available"`
	HoursPerDay int  `json:"hours_per_day,omitempty"`
}

type DemandRiskView struct {
	DemandID          int64            `json:"demand_id"`
	RequiredHours     float64          `json:"required_hours"`
	AvailableHoursDue float64          `json:"available_hours_until_due"`
	CanMeet           bool             `json:"can_meet"`
	ShortfallHours    float64          `json:"shortfall_hours"`
	Risk              domain.RiskLevel `json:"risk"`
}

type WeekCapacityView struct {
	WeekStart      string  `json:"week_start"`
	AvailableHours float64 `json:"available_hours"`
	RequiredHours  float64 `json:"required_hours"`
}

type CapacityView struct {
	AvailableHours float64            `json:"available_hours"`
	RequiredHours  float64            `json:"required_hours"`
	Risks          []DemandRiskView   `json:"deadline_risks"`
	Weekly         []WeekCapacityView `json:"weekly_breakdown"`
}
