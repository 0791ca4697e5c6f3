package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
	"github.com/zainhoda/sij-manager-sub003/internal/testutil"
)

// serviceEnv wires every repository and service over one in-memory
// database, the way main assembles the real application.
type serviceEnv struct {
	db       *sql.DB
	products *repository.SQLiteProductRepo
	workers  *repository.SQLiteWorkerRepo
	equip    *repository.SQLiteEquipmentRepo
	demand   *repository.SQLiteDemandRepo
	planning *repository.SQLitePlanningRepo
	tasks    *repository.SQLitePlanTaskRepo
	profic   *repository.SQLiteProficiencyRepo
	settings *repository.SQLiteSettingsRepo

	planningSvc PlanningService
	replanSvc   ReplanService
	proficSvc   ProficiencyService
	capacitySvc CapacityService
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	env := &serviceEnv{
		db:       database,
		products: repository.NewSQLiteProductRepo(database),
		workers:  repository.NewSQLiteWorkerRepo(database),
		equip:    repository.NewSQLiteEquipmentRepo(database),
		demand:   repository.NewSQLiteDemandRepo(database),
		planning: repository.NewSQLitePlanningRepo(database),
		tasks:    repository.NewSQLitePlanTaskRepo(database),
		profic:   repository.NewSQLiteProficiencyRepo(database),
		settings: repository.NewSQLiteSettingsRepo(database),
	}
	env.planningSvc = NewPlanningService(uow, env.planning, env.tasks, env.demand,
		env.products, env.workers, env.equip, env.settings, env.profic)
	env.replanSvc = NewReplanService(uow, env.tasks, env.demand,
		env.products, env.workers, env.equip, env.settings)
	env.proficSvc = NewProficiencyService(uow, env.profic, env.tasks,
		env.workers, env.products, env.settings)
	env.capacitySvc = NewCapacityService(env.demand, env.products, env.workers, env.settings)
	return env
}

// catalog is the minimal planning input: one product with two ordered
// steps, two active workers and one pending demand entry.
type catalog struct {
	product *domain.Product
	cut     *domain.ProductStep
	sew     *domain.ProductStep
	workers []*domain.Worker
	demand  *domain.DemandEntry
}

func seedCatalog(t *testing.T, env *serviceEnv, quantity int, dueDate time.Time) *catalog {
	t.Helper()
	ctx := context.Background()

	c := &catalog{product: testutil.NewTestProduct("Canvas Tote")}
	require.NoError(t, env.products.Create(ctx, c.product))

	c.cut = testutil.NewTestStep(c.product.ID, "CUT",
		testutil.WithCategory(domain.CategoryCutting), testutil.WithSequence(1))
	require.NoError(t, env.products.CreateStep(ctx, c.cut))
	c.sew = testutil.NewTestStep(c.product.ID, "SEW", testutil.WithSequence(2))
	require.NoError(t, env.products.CreateStep(ctx, c.sew))
	require.NoError(t, env.products.CreateDependency(ctx, &domain.StepDependency{
		StepID: c.sew.ID, DependsOnStepID: c.cut.ID,
	}))

	for _, name := range []string{"Mira", "Jonas"} {
		w := testutil.NewTestWorker(name)
		require.NoError(t, env.workers.Create(ctx, w))
		c.workers = append(c.workers, w)
	}

	c.demand = testutil.NewTestDemand(c.product.ID, quantity, dueDate)
	require.NoError(t, env.demand.Create(ctx, c.demand))
	return c
}

// acceptFirstScenario runs the full create-and-accept path and returns the
// accepted run.
func acceptFirstScenario(t *testing.T, env *serviceEnv, req contract.CreateRunRequest) *domain.PlanningRun {
	t.Helper()
	ctx := context.Background()

	detail, err := env.planningSvc.CreateRun(ctx, req)
	require.NoError(t, err)
	require.Len(t, detail.Scenarios, 3)

	_, err = env.planningSvc.Accept(ctx, detail.Run.ID, detail.Scenarios[0].ID)
	require.NoError(t, err)

	accepted, err := env.planningSvc.GetRun(ctx, detail.Run.ID)
	require.NoError(t, err)
	return &accepted.Run
}
