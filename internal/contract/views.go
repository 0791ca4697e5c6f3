package contract

import (
	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// Views are the JSON shapes crossing the HTTP boundary. Dates render as
// YYYY-MM-DD and clock values as HH:MM; domain entities never carry JSON
// tags themselves.

type RunView struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	StartDate          string           `json:"start_date"`
	EndDate            string           `json:"end_date"`
	Status             domain.RunStatus `json:"status"`
	AcceptedScenarioID *int64           `json:"accepted_scenario_id,omitempty"`
	CreatedBy          string           `json:"created_by,omitempty"`
	CreatedAt          string           `json:"created_at"`
	Scenarios          []ScenarioView   `json:"scenarios,omitempty"`
	Demand             []DemandView     `json:"demand,omitempty"`
}

type ScenarioView struct {
	ID                    int64           `json:"id"`
	RunID                 int64           `json:"run_id"`
	Name                  string          `json:"name"`
	Strategy              domain.Strategy `json:"strategy"`
	AllowOvertime         bool            `json:"allow_overtime"`
	OvertimeLimitHoursDay int             `json:"overtime_limit_hours_day"`
	Metrics               MetricsView     `json:"metrics"`
	WarningCount          int             `json:"warning_count"`
}

type MetricsView struct {
	LaborHours       float64 `json:"labor_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	LaborCost        float64 `json:"labor_cost"`
	EquipmentCost    float64 `json:"equipment_cost"`
	DeadlinesMet     int     `json:"deadlines_met"`
	DeadlinesMissed  int     `json:"deadlines_missed"`
	LatestCompletion *string `json:"latest_completion,omitempty"`
}

type BlockView struct {
	DemandID         int64   `json:"demand_id"`
	StepID           int64   `json:"step_id"`
	BatchNumber      int     `json:"batch_number"`
	BatchQuantity    int     `json:"batch_quantity"`
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	PlannedOutput    int     `json:"planned_output"`
	WorkerIDs        []int64 `json:"worker_ids"`
	AssignmentReason string  `json:"assignment_reason,omitempty"`
	IsOvertime       bool    `json:"is_overtime"`
	IsAutoSuggested  bool    `json:"is_auto_suggested"`
}

type ProjectionView struct {
	DemandID            int64   `json:"demand_id"`
	ProjectedCompletion *string `json:"projected_completion,omitempty"`
	CanMeetTarget       bool    `json:"can_meet_target"`
}

type DemandView struct {
	ID           int64               `json:"id"`
	Source       domain.DemandSource `json:"source"`
	ProductID    int64               `json:"product_id"`
	Quantity     int                 `json:"quantity"`
	DueDate      string              `json:"due_date"`
	CustomerName *string             `json:"customer_name,omitempty"`
	Priority     int                 `json:"priority"`
	Status       domain.DemandStatus `json:"status"`
}

type TaskView struct {
	ID            int64                 `json:"id"`
	DemandID      int64                 `json:"demand_id"`
	StepID        int64                 `json:"step_id"`
	BatchNumber   int                   `json:"batch_number"`
	Date          string                `json:"date"`
	StartTime     string                `json:"start_time"`
	EndTime       string                `json:"end_time"`
	PlannedOutput int                   `json:"planned_output"`
	ActualOutput  int                   `json:"actual_output"`
	WorkerIDs     []int64               `json:"worker_ids"`
	Status        domain.PlanTaskStatus `json:"status"`
	IsOvertime    bool                  `json:"is_overtime"`
}

func NewRunView(run domain.PlanningRun) RunView {
	return RunView{
		ID:                 run.ID,
		Name:               run.Name,
		StartDate:          calendar.FormatDate(run.StartDate),
		EndDate:            calendar.FormatDate(run.EndDate),
		Status:             run.Status,
		AcceptedScenarioID: run.AcceptedScenarioID,
		CreatedBy:          run.CreatedBy,
		CreatedAt:          run.CreatedAt.UTC().Format(timestampLayout),
	}
}

func NewScenarioView(s domain.PlanningScenario) ScenarioView {
	return ScenarioView{
		ID:                    s.ID,
		RunID:                 s.RunID,
		Name:                  s.Name,
		Strategy:              s.Strategy,
		AllowOvertime:         s.AllowOvertime,
		OvertimeLimitHoursDay: s.OvertimeLimitHoursDay,
		Metrics:               NewMetricsView(s.Metrics),
		WarningCount:          len(s.Warnings),
	}
}

func NewMetricsView(m domain.ScenarioMetrics) MetricsView {
	v := MetricsView{
		LaborHours:      m.LaborHours,
		OvertimeHours:   m.OvertimeHours,
		LaborCost:       m.LaborCost,
		EquipmentCost:   m.EquipmentCost,
		DeadlinesMet:    m.DeadlinesMet,
		DeadlinesMissed: m.DeadlinesMissed,
	}
	if m.LatestCompletion != nil {
		d := calendar.FormatDate(*m.LatestCompletion)
		v.LatestCompletion = &d
	}
	return v
}

func NewBlockView(b domain.ScheduleBlock) BlockView {
	return BlockView{
		DemandID:         b.DemandID,
		StepID:           b.StepID,
		BatchNumber:      b.BatchNumber,
		BatchQuantity:    b.BatchQuantity,
		Date:             calendar.FormatDate(b.Date),
		StartTime:        calendar.FormatClock(b.StartMin),
		EndTime:          calendar.FormatClock(b.EndMin),
		PlannedOutput:    b.PlannedOutput,
		WorkerIDs:        b.WorkerIDs,
		AssignmentReason: b.AssignmentReason,
		IsOvertime:       b.IsOvertime,
		IsAutoSuggested:  b.IsAutoSuggested,
	}
}

func NewBlockViews(blocks []domain.ScheduleBlock) []BlockView {
	out := make([]BlockView, len(blocks))
	for i, b := range blocks {
		out[i] = NewBlockView(b)
	}
	return out
}

func NewProjectionView(p domain.DemandProjection) ProjectionView {
	v := ProjectionView{DemandID: p.DemandID, CanMeetTarget: p.CanMeetTarget}
	if p.ProjectedCompletion != nil {
		d := calendar.FormatDate(*p.ProjectedCompletion)
		v.ProjectedCompletion = &d
	}
	return v
}

func NewDemandView(d domain.DemandEntry) DemandView {
	return DemandView{
		ID:           d.ID,
		Source:       d.Source,
		ProductID:    d.ProductID,
		Quantity:     d.Quantity,
		DueDate:      calendar.FormatDate(d.DueDate),
		CustomerName: d.CustomerName,
		Priority:     d.Priority,
		Status:       d.Status,
	}
}

func NewTaskView(t domain.PlanTask) TaskView {
	return TaskView{
		ID:            t.ID,
		DemandID:      t.DemandID,
		StepID:        t.StepID,
		BatchNumber:   t.BatchNumber,
		Date:          calendar.FormatDate(t.Date),
		StartTime:     calendar.FormatClock(t.StartMin),
		EndTime:       calendar.FormatClock(t.EndMin),
		PlannedOutput: t.PlannedOutput,
		ActualOutput:  t.ActualOutput,
		WorkerIDs:     t.WorkerIDs,
		Status:        t.Status,
		IsOvertime:    t.IsOvertime,
	}
}

// timestampLayout is ISO-8601 with seconds precision.
const timestampLayout = "2006-01-02T15:04:05Z07:00"
