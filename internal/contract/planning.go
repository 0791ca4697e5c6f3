package contract

import "github.com/zainhoda/sij-manager-sub003/internal/domain"

// CreateRunRequest starts a planning run over a chosen demand subset.
// Dates are YYYY-MM-DD; an empty DemandIDs plans all open demand inside
// the window.
type CreateRunRequest struct {
	Name        string  `json:"name"`
	WindowStart string  `json:"window_start"`
	WindowEnd   string  `json:"window_end"`
	DemandIDs   []int64 `json:"demand_ids,omitempty"`
	CreatedBy   string  `json:"created_by,omitempty"`
}

// RunDetail is a run with its scenarios and the demand it planned.
type RunDetail struct {
	Run       domain.PlanningRun
	Scenarios []domain.PlanningScenario
	Demand    []domain.DemandEntry
}

// View renders the detail for the HTTP surface.
func (d RunDetail) View() RunView {
	v := NewRunView(d.Run)
	for _, s := range d.Scenarios {
		v.Scenarios = append(v.Scenarios, NewScenarioView(s))
	}
	for _, dem := range d.Demand {
		v.Demand = append(v.Demand, NewDemandView(dem))
	}
	return v
}

// ScenarioDetail is one scenario with its full schedule.
type ScenarioDetail struct {
	Scenario    domain.PlanningScenario
	Projections []domain.DemandProjection
	Blocks      []domain.ScheduleBlock
	Warnings    []string
}

type ScenarioDetailView struct {
	Scenario    ScenarioView     `json:"scenario"`
	Projections []ProjectionView `json:"projections"`
	Schedule    []BlockView      `json:"schedule"`
	Warnings    []string         `json:"warnings"`
}

func (d ScenarioDetail) View() ScenarioDetailView {
	v := ScenarioDetailView{
		Scenario: NewScenarioView(d.Scenario),
		Schedule: NewBlockViews(d.Blocks),
		Warnings: d.Warnings,
	}
	for _, p := range d.Projections {
		v.Projections = append(v.Projections, NewProjectionView(p))
	}
	return v
}

// AcceptResult reports a scenario acceptance.
type AcceptResult struct {
	TasksCreated int
}

// RunComparison is the metric table across one run's scenarios.
type RunComparison struct {
	Run       domain.PlanningRun
	Scenarios []domain.PlanningScenario
}

type RunComparisonView struct {
	Run       RunView        `json:"run"`
	Scenarios []ScenarioView `json:"scenarios"`
}

func (c RunComparison) View() RunComparisonView {
	v := RunComparisonView{Run: NewRunView(c.Run)}
	for _, s := range c.Scenarios {
		v.Scenarios = append(v.Scenarios, NewScenarioView(s))
	}
	return v
}

// RunFilter narrows run listings.
type RunFilter struct {
	Status domain.RunStatus
	Limit  int
}
