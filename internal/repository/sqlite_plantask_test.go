package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskFixture holds the rows a plan task's foreign keys point at.
type taskFixture struct {
	run    *domain.PlanningRun
	demand *domain.DemandEntry
	step   *domain.ProductStep
	worker *domain.Worker
}

func newTaskFixture(t *testing.T, database *sql.DB) taskFixture {
	t.Helper()
	ctx := context.Background()

	products := NewSQLiteProductRepo(database)
	p := testutil.NewTestProduct("Bag")
	require.NoError(t, products.Create(ctx, p))
	step := testutil.NewTestStep(p.ID, "SEW")
	require.NoError(t, products.CreateStep(ctx, step))

	demand := testutil.NewTestDemand(p.ID, 100, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, NewSQLiteDemandRepo(database).Create(ctx, demand))

	run := newTestRun("fixture")
	require.NoError(t, NewSQLitePlanningRepo(database).CreateRun(ctx, run))

	worker := testutil.NewTestWorker("Ana")
	require.NoError(t, NewSQLiteWorkerRepo(database).Create(ctx, worker))

	return taskFixture{run: run, demand: demand, step: step, worker: worker}
}

func (f taskFixture) task(date time.Time, startMin, endMin int) *domain.PlanTask {
	return &domain.PlanTask{
		RunID:         f.run.ID,
		DemandID:      f.demand.ID,
		StepID:        f.step.ID,
		BatchNumber:   1,
		BatchQuantity: 100,
		Date:          date,
		StartMin:      startMin,
		EndMin:        endMin,
		PlannedOutput: 50,
		WorkerIDs:     []int64{f.worker.ID},
	}
}

func TestPlanTaskRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanTaskRepo(db)
	fix := newTaskFixture(t, db)
	ctx := context.Background()

	task := fix.task(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 420, 480)
	require.NoError(t, repo.Create(ctx, task))
	require.NotZero(t, task.ID)

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskScheduled, fetched.Status)
	assert.Equal(t, 420, fetched.StartMin)
	assert.Equal(t, []int64{fix.worker.ID}, fetched.WorkerIDs)
	assert.Nil(t, fetched.CompletedAt)
}

func TestPlanTaskRepo_ListOrderedByDateAndStart(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanTaskRepo(db)
	fix := newTaskFixture(t, db)
	ctx := context.Background()

	day1 := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	late := fix.task(day2, 420, 480)
	afternoon := fix.task(day1, 690, 780)
	morning := fix.task(day1, 420, 480)
	for _, task := range []*domain.PlanTask{late, afternoon, morning} {
		require.NoError(t, repo.Create(ctx, task))
	}

	tasks, err := repo.ListByDemand(ctx, fix.demand.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, morning.ID, tasks[0].ID)
	assert.Equal(t, afternoon.ID, tasks[1].ID)
	assert.Equal(t, late.ID, tasks[2].ID)

	byRun, err := repo.ListByRun(ctx, fix.run.ID)
	require.NoError(t, err)
	assert.Len(t, byRun, 3)
}

func TestPlanTaskRepo_RecordProgress(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanTaskRepo(db)
	fix := newTaskFixture(t, db)
	ctx := context.Background()

	task := fix.task(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 420, 480)
	require.NoError(t, repo.Create(ctx, task))

	done := time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC)
	require.NoError(t, repo.RecordProgress(ctx, task.ID, domain.TaskCompleted, 48, &done))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, fetched.Status)
	assert.Equal(t, 48, fetched.ActualOutput)
	require.NotNil(t, fetched.CompletedAt)
	assert.True(t, done.Equal(*fetched.CompletedAt))

	err = repo.RecordProgress(ctx, 999, domain.TaskCompleted, 0, nil)
	var nf *contract.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestPlanTaskRepo_DeleteNonCompleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanTaskRepo(db)
	fix := newTaskFixture(t, db)
	ctx := context.Background()

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	done := fix.task(day, 420, 480)
	open1 := fix.task(day, 480, 540)
	open2 := fix.task(day.AddDate(0, 0, 1), 420, 480)
	for _, task := range []*domain.PlanTask{done, open1, open2} {
		require.NoError(t, repo.Create(ctx, task))
	}
	require.NoError(t, repo.RecordProgress(ctx, done.ID, domain.TaskCompleted, 50, nil))

	deleted, err := repo.DeleteNonCompleted(ctx, fix.demand.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := repo.ListByDemand(ctx, fix.demand.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, done.ID, remaining[0].ID)
}

func TestPlanTaskRepo_AnyAcceptedForDemand(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanTaskRepo(db)
	fix := newTaskFixture(t, db)
	ctx := context.Background()

	task := fix.task(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 420, 480)
	require.NoError(t, repo.Create(ctx, task))

	// Tasks from the same run don't count.
	claimed, err := repo.AnyAcceptedForDemand(ctx, []int64{fix.demand.ID}, fix.run.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	claimed, err = repo.AnyAcceptedForDemand(ctx, []int64{fix.demand.ID}, fix.run.ID+100)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.AnyAcceptedForDemand(ctx, nil, fix.run.ID)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestPlanTaskRepo_DemandDeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanTaskRepo(db)
	fix := newTaskFixture(t, db)
	ctx := context.Background()

	task := fix.task(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 420, 480)
	require.NoError(t, repo.Create(ctx, task))

	require.NoError(t, NewSQLiteDemandRepo(db).Delete(ctx, fix.demand.ID))

	tasks, err := repo.ListByDemand(ctx, fix.demand.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
