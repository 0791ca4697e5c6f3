package domain

import "time"

type PlanningRun struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    RunStatus
	// AcceptedScenarioID is set when the run moves to accepted.
	AcceptedScenarioID *int64
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ScenarioMetrics are the summary numbers rolled up over one generated
// schedule.
type ScenarioMetrics struct {
	LaborHours       float64
	OvertimeHours    float64
	LaborCost        float64
	EquipmentCost    float64
	DeadlinesMet     int
	DeadlinesMissed  int
	LatestCompletion *time.Time
}

// DemandProjection is the per-demand outcome of a scenario.
type DemandProjection struct {
	DemandID            int64
	ProjectedCompletion *time.Time
	CanMeetTarget       bool
}

// PlanningScenario is one candidate schedule generated under a strategy,
// belonging to a planning run.
type PlanningScenario struct {
	ID                    int64
	RunID                 int64
	Name                  string
	Strategy              Strategy
	AllowOvertime         bool
	OvertimeLimitHoursDay int
	Metrics               ScenarioMetrics
	Blocks                []ScheduleBlock
	Projections           []DemandProjection
	Warnings              []string
	// ParentScenarioID is set on scenarios forked from an edited schedule.
	ParentScenarioID *int64
	CreatedAt        time.Time
}
