package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
	"github.com/zainhoda/sij-manager-sub003/internal/testutil"
)

func TestCreateRun_RollbackOnScenarioInsertFailure(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// Exec #1 is the run insert, #2 the first scenario insert.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 2,
		Err:    errors.New("injected scenario insert failure"),
	}
	svc := NewPlanningService(failUoW, env.planning, env.tasks, env.demand,
		env.products, env.workers, env.equip, env.settings, env.profic)

	_, err := svc.CreateRun(ctx, septemberRun("Doomed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected scenario insert failure")

	runs, err := env.planning.ListRuns(ctx, repository.RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs, "the run insert must roll back with the scenario")
}

func TestAccept_RollbackOnTaskInsertFailure(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	detail, err := env.planningSvc.CreateRun(ctx, septemberRun("September"))
	require.NoError(t, err)

	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 1,
		Err:    errors.New("injected task insert failure"),
	}
	svc := NewPlanningService(failUoW, env.planning, env.tasks, env.demand,
		env.products, env.workers, env.equip, env.settings, env.profic)

	_, err = svc.Accept(ctx, detail.Run.ID, detail.Scenarios[0].ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected task insert failure")

	// Everything the acceptance would have written must be absent.
	tasks, err := env.tasks.ListByRun(ctx, detail.Run.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	run, err := env.planning.GetRun(ctx, detail.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunDraft, run.Status)

	d, err := env.demand.GetByID(ctx, cat.demand.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DemandPending, d.Status)

	// A retry against the real unit of work succeeds untouched.
	_, err = env.planningSvc.Accept(ctx, detail.Run.ID, detail.Scenarios[0].ID)
	require.NoError(t, err)
}
