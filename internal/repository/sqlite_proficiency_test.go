package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proficiencyFixture(t *testing.T, database *sql.DB) (workerID, stepID int64) {
	t.Helper()
	ctx := context.Background()

	products := NewSQLiteProductRepo(database)
	p := testutil.NewTestProduct("Bag")
	require.NoError(t, products.Create(ctx, p))
	step := testutil.NewTestStep(p.ID, "SEW")
	require.NoError(t, products.CreateStep(ctx, step))

	w := testutil.NewTestWorker("Ana")
	require.NoError(t, NewSQLiteWorkerRepo(database).Create(ctx, w))
	return w.ID, step.ID
}

func TestProficiencyRepo_UpsertReplacesLevel(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProficiencyRepo(db)
	workerID, stepID := proficiencyFixture(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, workerID, stepID, 2))
	require.NoError(t, repo.Upsert(ctx, workerID, stepID, 4))

	levels, err := repo.GetLevels(ctx, []int64{workerID}, []int64{stepID})
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 4, levels[0].Level)
}

func TestProficiencyRepo_UpsertRejectsOutOfRangeLevel(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProficiencyRepo(db)
	workerID, stepID := proficiencyFixture(t, db)

	assert.Error(t, repo.Upsert(context.Background(), workerID, stepID, 0))
	assert.Error(t, repo.Upsert(context.Background(), workerID, stepID, 6))
}

func TestProficiencyRepo_GetLevelsFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProficiencyRepo(db)
	workerID, stepID := proficiencyFixture(t, db)
	ctx := context.Background()

	other := testutil.NewTestWorker("Bea")
	require.NoError(t, NewSQLiteWorkerRepo(db).Create(ctx, other))
	require.NoError(t, repo.Upsert(ctx, workerID, stepID, 5))
	require.NoError(t, repo.Upsert(ctx, other.ID, stepID, 1))

	all, err := repo.GetLevels(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := repo.GetLevels(ctx, []int64{workerID}, []int64{stepID})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, workerID, one[0].WorkerID)
}

func TestProficiencyRepo_HistoryNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProficiencyRepo(db)
	workerID, stepID := proficiencyFixture(t, db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	first := &domain.ProficiencyHistory{
		WorkerID: workerID, StepID: stepID, FromLevel: 3, ToLevel: 4,
		Reason: domain.AdjustAutoIncrease, AvgEfficiency: 125, SampleSize: 8,
		RecordedAt: base,
	}
	second := &domain.ProficiencyHistory{
		WorkerID: workerID, StepID: stepID, FromLevel: 4, ToLevel: 3,
		Reason: domain.AdjustManual, RecordedAt: base.AddDate(0, 0, 7),
	}
	require.NoError(t, repo.AppendHistory(ctx, first))
	require.NoError(t, repo.AppendHistory(ctx, second))

	history, err := repo.ListHistory(ctx, workerID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.AdjustManual, history[0].Reason)
	assert.Equal(t, domain.AdjustAutoIncrease, history[1].Reason)
	assert.InDelta(t, 125, history[1].AvgEfficiency, 0.001)
	assert.Equal(t, 8, history[1].SampleSize)
}

func TestProficiencyRepo_HistorySurvivesProficiencyDeletion(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProficiencyRepo(db)
	workerID, stepID := proficiencyFixture(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, workerID, stepID, 4))
	require.NoError(t, repo.AppendHistory(ctx, &domain.ProficiencyHistory{
		WorkerID: workerID, StepID: stepID, FromLevel: 3, ToLevel: 4,
		Reason: domain.AdjustManual,
	}))

	// Deleting the step clears the proficiency row but not the history.
	require.NoError(t, NewSQLiteProductRepo(db).DeleteStep(ctx, stepID))

	levels, err := repo.GetLevels(ctx, []int64{workerID}, nil)
	require.NoError(t, err)
	assert.Empty(t, levels)

	history, err := repo.ListHistory(ctx, workerID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestProficiencyRepo_OutputStream(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProficiencyRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AppendOutput(ctx, 7, 40, base.Add(2*time.Hour)))
	require.NoError(t, repo.AppendOutput(ctx, 7, 35, base))
	require.NoError(t, repo.AppendOutput(ctx, 8, 99, base))

	samples, err := repo.ListOutputs(ctx, 7)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	// Oldest first.
	assert.Equal(t, 35, samples[0].Output)
	assert.Equal(t, 40, samples[1].Output)
}
