package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

func septemberRun(name string) contract.CreateRunRequest {
	return contract.CreateRunRequest{
		Name:        name,
		WindowStart: "2026-09-01",
		WindowEnd:   "2026-09-30",
		CreatedBy:   "planner",
	}
}

func TestCreateRun_GeneratesThreeStrategyScenarios(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	detail, err := env.planningSvc.CreateRun(ctx, septemberRun("September"))
	require.NoError(t, err)

	assert.Equal(t, domain.RunDraft, detail.Run.Status)
	require.Len(t, detail.Scenarios, 3)
	assert.Equal(t, domain.StrategyMeetDeadlines, detail.Scenarios[0].Strategy)
	assert.Equal(t, domain.StrategyMinimizeCost, detail.Scenarios[1].Strategy)
	assert.Equal(t, domain.StrategyBalanced, detail.Scenarios[2].Strategy)
	assert.Equal(t, "Meet Deadlines", detail.Scenarios[0].Name)

	for _, sc := range detail.Scenarios {
		assert.NotEmpty(t, sc.Blocks, "scenario %s should carry a schedule", sc.Name)
		require.Len(t, sc.Projections, 1)
		assert.True(t, sc.Projections[0].CanMeetTarget,
			"a 20-unit demand due in nine days should be met")
	}

	require.Len(t, detail.Demand, 1)
	assert.Equal(t, cat.demand.ID, detail.Demand[0].ID)
}

func TestCreateRun_DateValidation(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	req := septemberRun("Bad start")
	req.WindowStart = "not-a-date"
	_, err := env.planningSvc.CreateRun(ctx, req)
	var verr *contract.ValidationError
	require.ErrorAs(t, err, &verr)

	req = septemberRun("Inverted")
	req.WindowStart, req.WindowEnd = req.WindowEnd, req.WindowStart
	_, err = env.planningSvc.CreateRun(ctx, req)
	var perr *contract.PreconditionError
	require.ErrorAs(t, err, &perr)
}

func TestCreateRun_NoOpenDemand(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	_, err := env.planningSvc.CreateRun(ctx, septemberRun("Empty"))
	var perr *contract.PreconditionError
	require.ErrorAs(t, err, &perr)
}

func TestCreateRun_UnknownDemandID(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	req := septemberRun("Explicit")
	req.DemandIDs = []int64{999}
	_, err := env.planningSvc.CreateRun(ctx, req)
	var nf *contract.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestAccept_MaterializesTasksAndPlansDemand(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	detail, err := env.planningSvc.CreateRun(ctx, septemberRun("September"))
	require.NoError(t, err)

	chosen := detail.Scenarios[0]
	result, err := env.planningSvc.Accept(ctx, detail.Run.ID, chosen.ID)
	require.NoError(t, err)
	assert.Equal(t, len(chosen.Blocks), result.TasksCreated)

	tasks, err := env.tasks.ListByRun(ctx, detail.Run.ID)
	require.NoError(t, err)
	require.Len(t, tasks, len(chosen.Blocks))
	for _, task := range tasks {
		assert.Equal(t, domain.TaskScheduled, task.Status)
		assert.NotEmpty(t, task.WorkerIDs)
	}

	d, err := env.demand.GetByID(ctx, cat.demand.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DemandPlanned, d.Status)

	active, err := env.planningSvc.GetActiveRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, detail.Run.ID, active.Run.ID)
	require.NotNil(t, active.Run.AcceptedScenarioID)
	assert.Equal(t, chosen.ID, *active.Run.AcceptedScenarioID)
}

func TestAccept_RunAlreadyAccepted(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	detail, err := env.planningSvc.CreateRun(ctx, septemberRun("September"))
	require.NoError(t, err)

	_, err = env.planningSvc.Accept(ctx, detail.Run.ID, detail.Scenarios[0].ID)
	require.NoError(t, err)

	_, err = env.planningSvc.Accept(ctx, detail.Run.ID, detail.Scenarios[1].ID)
	var cerr *contract.ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestAccept_ScenarioFromAnotherRun(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := env.planningSvc.CreateRun(ctx, septemberRun("First"))
	require.NoError(t, err)
	second, err := env.planningSvc.CreateRun(ctx, septemberRun("Second"))
	require.NoError(t, err)

	_, err = env.planningSvc.Accept(ctx, first.Run.ID, second.Scenarios[0].ID)
	var perr *contract.PreconditionError
	require.ErrorAs(t, err, &perr)
}

func TestAccept_DemandAlreadyPlannedByAnotherRun(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := env.planningSvc.CreateRun(ctx, septemberRun("First"))
	require.NoError(t, err)
	second, err := env.planningSvc.CreateRun(ctx, septemberRun("Second"))
	require.NoError(t, err)

	_, err = env.planningSvc.Accept(ctx, first.Run.ID, first.Scenarios[0].ID)
	require.NoError(t, err)

	_, err = env.planningSvc.Accept(ctx, second.Run.ID, second.Scenarios[0].ID)
	var cerr *contract.ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestArchive_AcceptedRunLeavesNoActive(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	run := acceptFirstScenario(t, env, septemberRun("September"))

	require.NoError(t, env.planningSvc.Archive(ctx, run.ID))

	archived, err := env.planningSvc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunArchived, archived.Run.Status)
	assert.NotNil(t, archived.Run.AcceptedScenarioID, "archiving keeps the accepted scenario pointer")

	active, err := env.planningSvc.GetActiveRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestRecordTaskProgress_RollsDemandStatus(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	run := acceptFirstScenario(t, env, septemberRun("September"))

	tasks, err := env.tasks.ListByRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotEmpty(t, tasks)

	require.NoError(t, env.planningSvc.RecordTaskProgress(ctx, tasks[0].ID, domain.TaskInProgress, 0))
	d, err := env.demand.GetByID(ctx, cat.demand.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DemandInProgress, d.Status)

	for _, task := range tasks {
		require.NoError(t, env.planningSvc.RecordTaskProgress(ctx, task.ID, domain.TaskCompleted, task.PlannedOutput))
	}
	d, err = env.demand.GetByID(ctx, cat.demand.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DemandCompleted, d.Status)

	done, err := env.tasks.GetByID(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, tasks[0].PlannedOutput, done.ActualOutput)
}

func TestRecordTaskProgress_RejectsNegativeOutput(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	run := acceptFirstScenario(t, env, septemberRun("September"))
	tasks, err := env.tasks.ListByRun(ctx, run.ID)
	require.NoError(t, err)

	err = env.planningSvc.RecordTaskProgress(ctx, tasks[0].ID, domain.TaskCompleted, -5)
	var verr *contract.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidateScenario_CleanSchedule(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	detail, err := env.planningSvc.CreateRun(ctx, septemberRun("September"))
	require.NoError(t, err)

	res, err := env.planningSvc.ValidateScenario(ctx, detail.Scenarios[0].ID)
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Empty(t, res.Errors)
}
