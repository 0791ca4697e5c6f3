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

// seedCompletedBlocks records n completed full-day tasks for one worker on
// one step, each at the given output. A full day is 480 working minutes, so
// with the default 60-second step an output of 480 is exactly 100%.
func seedCompletedBlocks(t *testing.T, env *serviceEnv, cat *catalog, workerID, stepID int64, n, output int) {
	t.Helper()
	ctx := context.Background()

	run := &domain.PlanningRun{
		Name:      "History",
		StartDate: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, env.planning.CreateRun(ctx, run))

	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		task := &domain.PlanTask{
			RunID:         run.ID,
			DemandID:      cat.demand.ID,
			StepID:        stepID,
			BatchNumber:   1,
			BatchQuantity: output,
			Date:          now.AddDate(0, 0, -i-1),
			StartMin:      420,
			EndMin:        930,
			PlannedOutput: 480,
			WorkerIDs:     []int64{workerID},
		}
		require.NoError(t, env.tasks.Create(ctx, task))
		completedAt := now.AddDate(0, 0, -i-1)
		require.NoError(t, env.tasks.RecordProgress(ctx, task.ID, domain.TaskCompleted, output, &completedAt))
	}
}

func TestRecalculate_PromotesConsistentlyFastWorker(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	worker := cat.workers[0]
	// 624 units in a 480-minute day at 60 s/piece is 130% efficiency.
	seedCompletedBlocks(t, env, cat, worker.ID, cat.cut.ID, 5, 624)

	result, err := env.proficSvc.Recalculate(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Applied)

	adj := result.Adjustments[0]
	assert.Equal(t, worker.ID, adj.WorkerID)
	assert.Equal(t, cat.cut.ID, adj.StepID)
	assert.Equal(t, 3, adj.FromLevel)
	assert.Equal(t, 4, adj.ToLevel)
	assert.Equal(t, domain.AdjustAutoIncrease, adj.Reason)
	assert.Equal(t, 5, adj.SampleSize)
	assert.InDelta(t, 130, adj.AvgEfficiency, 0.5)

	levels, err := env.profic.GetLevels(ctx, []int64{worker.ID}, []int64{cat.cut.ID})
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 4, levels[0].Level)

	history, err := env.profic.ListHistory(ctx, worker.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.AdjustAutoIncrease, history[0].Reason)
	assert.Equal(t, 5, history[0].SampleSize)
}

func TestRecalculate_IgnoresThinSamples(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// Four blocks fall short of the five-sample minimum, however fast.
	seedCompletedBlocks(t, env, cat, cat.workers[0].ID, cat.cut.ID, 4, 700)

	result, err := env.proficSvc.Recalculate(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Applied)
	assert.Empty(t, result.Adjustments)
}

func TestRecalculate_DemotesSlowWorker(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// 240 units in a full day is 50%, well under the 80% floor.
	seedCompletedBlocks(t, env, cat, cat.workers[1].ID, cat.sew.ID, 6, 240)

	result, err := env.proficSvc.Recalculate(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Applied)
	assert.Equal(t, 2, result.Adjustments[0].ToLevel)
	assert.Equal(t, domain.AdjustAutoDecrease, result.Adjustments[0].Reason)
}

func TestSetLevel_RecordsManualOverride(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	worker := cat.workers[0]
	require.NoError(t, env.proficSvc.SetLevel(ctx, worker.ID, cat.cut.ID, 5))

	levels, err := env.profic.GetLevels(ctx, []int64{worker.ID}, []int64{cat.cut.ID})
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 5, levels[0].Level)

	history, err := env.profic.ListHistory(ctx, worker.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.AdjustManual, history[0].Reason)
	assert.Equal(t, 3, history[0].FromLevel, "absent pairs start from the default level")
	assert.Equal(t, 5, history[0].ToLevel)

	err = env.proficSvc.SetLevel(ctx, worker.ID, cat.cut.ID, 7)
	var verr *contract.ValidationError
	require.ErrorAs(t, err, &verr)

	err = env.proficSvc.SetLevel(ctx, 999, cat.cut.ID, 4)
	var nf *contract.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestProductivity_RollsUpPerStep(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	worker := cat.workers[0]
	seedCompletedBlocks(t, env, cat, worker.ID, cat.cut.ID, 3, 480)

	summary, err := env.proficSvc.Productivity(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, summary.WorkerID)
	assert.Equal(t, worker.Name, summary.WorkerName)
	assert.Equal(t, 3, summary.TotalBlocks)
	assert.InDelta(t, 100, summary.AvgEfficiency, 0.5)

	require.Len(t, summary.Steps, 1)
	assert.Equal(t, cat.cut.ID, summary.Steps[0].StepID)
	assert.Equal(t, "CUT", summary.Steps[0].StepCode)
	assert.Equal(t, 3, summary.Steps[0].Level)
	assert.Equal(t, 3, summary.Steps[0].SuggestedLevel, "100%% sits between the level-3 and level-4 cut-points")
	assert.Equal(t, 3, summary.Steps[0].SampleSize)
}

// The suggested level follows the configured cut-points, not the stored
// level: lowering the level-5 threshold below the observed average flips
// the suggestion without touching the proficiency table.
func TestProductivity_SuggestedLevelTracksCutPoints(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	worker := cat.workers[0]
	seedCompletedBlocks(t, env, cat, worker.ID, cat.cut.ID, 3, 480)

	settings, err := env.settings.Get(ctx)
	require.NoError(t, err)
	settings.LevelCutPoints = domain.LevelCutPoints{Level5: 95, Level4: 90, Level3: 85, Level2: 70}
	require.NoError(t, env.settings.Update(ctx, settings))

	summary, err := env.proficSvc.Productivity(ctx, worker.ID)
	require.NoError(t, err)
	require.Len(t, summary.Steps, 1)
	assert.Equal(t, 5, summary.Steps[0].SuggestedLevel)
	assert.Equal(t, 3, summary.Steps[0].Level, "the stored level is untouched")
}

func TestProductivity_UnknownWorker(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	_, err := env.proficSvc.Productivity(ctx, 42)
	var nf *contract.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestOutputTrend_RequiresEnoughSamples(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	seedCompletedBlocks(t, env, cat, cat.workers[0].ID, cat.cut.ID, 1, 480)
	tasks, err := env.tasks.ListByDemand(ctx, cat.demand.ID)
	require.NoError(t, err)
	require.NotEmpty(t, tasks)

	base := time.Now().UTC()
	require.NoError(t, env.profic.AppendOutput(ctx, tasks[0].ID, 100, base))

	_, err = env.proficSvc.OutputTrend(ctx, tasks[0].ID)
	var perr *contract.PreconditionError
	require.ErrorAs(t, err, &perr)

	// Cumulative output accelerates: 20 units in the first hour, 40 in
	// the second, so seconds-per-unit halves.
	require.NoError(t, env.profic.AppendOutput(ctx, tasks[0].ID, 120, base.Add(time.Hour)))
	require.NoError(t, env.profic.AppendOutput(ctx, tasks[0].ID, 160, base.Add(2*time.Hour)))

	trend, err := env.proficSvc.OutputTrend(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, trend.Samples)
	assert.InDelta(t, 50, trend.SpeedupPct, 0.5)
}
