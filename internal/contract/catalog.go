package contract

import (
	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// Catalog views mirror the catalog entities for JSON transport. Dates go
// out as "2006-01-02" strings; timestamps as ISO-8601.

type ProductView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type StepView struct {
	ID                  int64               `json:"id"`
	ProductID           int64               `json:"product_id"`
	Name                string              `json:"name"`
	StepCode            string              `json:"step_code"`
	Category            domain.StepCategory `json:"category"`
	TimePerPieceSeconds int                 `json:"time_per_piece_seconds"`
	Sequence            int                 `json:"sequence"`
	EquipmentID         *int64              `json:"equipment_id,omitempty"`
	WorkCategory        *string             `json:"work_category,omitempty"`
}

type DependencyView struct {
	ID              int64                 `json:"id"`
	StepID          int64                 `json:"step_id"`
	DependsOnStepID int64                 `json:"depends_on_step_id"`
	Kind            domain.DependencyKind `json:"kind"`
}

type BuildVersionView struct {
	ID        int64                     `json:"id"`
	ProductID int64                     `json:"product_id"`
	Name      string                    `json:"name"`
	Status    domain.BuildVersionStatus `json:"status"`
	IsDefault bool                      `json:"is_default"`
	StepIDs   []int64                   `json:"step_ids"`
}

type WorkerView struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	EmployeeID   *string             `json:"employee_id,omitempty"`
	Status       domain.WorkerStatus `json:"status"`
	WorkCategory *string             `json:"work_category,omitempty"`
	CostPerHour  *float64            `json:"cost_per_hour,omitempty"`
}

type CertificationView struct {
	ID          int64   `json:"id"`
	WorkerID    int64   `json:"worker_id"`
	EquipmentID int64   `json:"equipment_id"`
	CertifiedAt string  `json:"certified_at"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
}

type EquipmentView struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Status       domain.EquipmentStatus `json:"status"`
	StationCount *int                   `json:"station_count,omitempty"`
	HourlyCost   *float64               `json:"hourly_cost,omitempty"`
}

type SettingsView struct {
	MorningStart   string                `json:"morning_start"`
	LunchStart     string                `json:"lunch_start"`
	LunchEnd       string                `json:"lunch_end"`
	AfternoonEnd   string                `json:"afternoon_end"`
	OvertimeEnd    string                `json:"overtime_end"`
	LevelCutPoints domain.LevelCutPoints `json:"level_cut_points"`
	HolidayDates   []string              `json:"holiday_dates"`
}

func NewProductView(p domain.Product) ProductView {
	return ProductView{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.UTC().Format(timestampLayout),
	}
}

func NewStepView(s domain.ProductStep) StepView {
	return StepView{
		ID:                  s.ID,
		ProductID:           s.ProductID,
		Name:                s.Name,
		StepCode:            s.StepCode,
		Category:            s.Category,
		TimePerPieceSeconds: s.TimePerPieceSeconds,
		Sequence:            s.Sequence,
		EquipmentID:         s.EquipmentID,
		WorkCategory:        s.WorkCategory,
	}
}

func NewDependencyView(d domain.StepDependency) DependencyView {
	return DependencyView{
		ID:              d.ID,
		StepID:          d.StepID,
		DependsOnStepID: d.DependsOnStepID,
		Kind:            d.Kind,
	}
}

func NewBuildVersionView(v domain.BuildVersion) BuildVersionView {
	return BuildVersionView{
		ID:        v.ID,
		ProductID: v.ProductID,
		Name:      v.Name,
		Status:    v.Status,
		IsDefault: v.IsDefault,
		StepIDs:   v.StepIDs,
	}
}

func NewWorkerView(w domain.Worker) WorkerView {
	return WorkerView{
		ID:           w.ID,
		Name:         w.Name,
		EmployeeID:   w.EmployeeID,
		Status:       w.Status,
		WorkCategory: w.WorkCategory,
		CostPerHour:  w.CostPerHour,
	}
}

func NewCertificationView(c domain.EquipmentCertification) CertificationView {
	v := CertificationView{
		ID:          c.ID,
		WorkerID:    c.WorkerID,
		EquipmentID: c.EquipmentID,
		CertifiedAt: calendar.FormatDate(c.CertifiedAt),
	}
	if c.ExpiresAt != nil {
		d := calendar.FormatDate(*c.ExpiresAt)
		v.ExpiresAt = &d
	}
	return v
}

func NewEquipmentView(e domain.Equipment) EquipmentView {
	return EquipmentView{
		ID:           e.ID,
		Name:         e.Name,
		Status:       e.Status,
		StationCount: e.StationCount,
		HourlyCost:   e.HourlyCost,
	}
}

func NewSettingsView(s domain.Settings) SettingsView {
	holidays := s.HolidayDates
	if holidays == nil {
		holidays = []string{}
	}
	return SettingsView{
		MorningStart:   calendar.FormatClock(s.MorningStart),
		LunchStart:     calendar.FormatClock(s.LunchStart),
		LunchEnd:       calendar.FormatClock(s.LunchEnd),
		AfternoonEnd:   calendar.FormatClock(s.AfternoonEnd),
		OvertimeEnd:    calendar.FormatClock(s.OvertimeEnd),
		LevelCutPoints: s.LevelCutPoints,
		HolidayDates:   holidays,
	}
}
