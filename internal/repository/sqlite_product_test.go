package repository

import (
	"context"
	"testing"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProductRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProduct("Tote Bag")
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	fetched, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tote Bag", fetched.Name)
	assert.False(t, fetched.CreatedAt.IsZero())
}

func TestProductRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProductRepo(db)

	_, err := repo.GetByID(context.Background(), 999)
	var nf *contract.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(999), nf.ID)
}

func TestProductRepo_StepsOrderedBySequence(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProductRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProduct("Apron")
	require.NoError(t, repo.Create(ctx, p))

	sew := testutil.NewTestStep(p.ID, "SEW", testutil.WithSequence(2))
	cut := testutil.NewTestStep(p.ID, "CUT", testutil.WithSequence(1), testutil.WithCategory(domain.CategoryCutting))
	require.NoError(t, repo.CreateStep(ctx, sew))
	require.NoError(t, repo.CreateStep(ctx, cut))

	steps, err := repo.ListSteps(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "CUT", steps[0].StepCode)
	assert.Equal(t, domain.CategoryCutting, steps[0].Category)
	assert.Equal(t, "SEW", steps[1].StepCode)
}

func TestProductRepo_StepNullableFieldsRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProductRepo(db)
	equipRepo := NewSQLiteEquipmentRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProduct("Cap")
	require.NoError(t, repo.Create(ctx, p))
	press := testutil.NewTestEquipment("Heat Press")
	require.NoError(t, equipRepo.Create(ctx, press))

	s := testutil.NewTestStep(p.ID, "PRESS", testutil.WithEquipment(press.ID))
	require.NoError(t, repo.CreateStep(ctx, s))

	fetched, err := repo.GetStep(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.EquipmentID)
	assert.Equal(t, press.ID, *fetched.EquipmentID)
	assert.Nil(t, fetched.WorkCategory)
}

func TestProductRepo_DuplicateDependencyConflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProductRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProduct("Shirt")
	require.NoError(t, repo.Create(ctx, p))
	cut := testutil.NewTestStep(p.ID, "CUT")
	sew := testutil.NewTestStep(p.ID, "SEW")
	require.NoError(t, repo.CreateStep(ctx, cut))
	require.NoError(t, repo.CreateStep(ctx, sew))

	dep := &domain.StepDependency{StepID: sew.ID, DependsOnStepID: cut.ID, Kind: domain.DependFinish}
	require.NoError(t, repo.CreateDependency(ctx, dep))

	dup := &domain.StepDependency{StepID: sew.ID, DependsOnStepID: cut.ID, Kind: domain.DependStart}
	err := repo.CreateDependency(ctx, dup)
	var conflict *contract.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestProductRepo_GetBOM_BuildVersionFiltersStepsAndEdges(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProductRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProduct("Jacket")
	require.NoError(t, repo.Create(ctx, p))
	cut := testutil.NewTestStep(p.ID, "CUT", testutil.WithSequence(1))
	screen := testutil.NewTestStep(p.ID, "PRINT", testutil.WithSequence(2))
	sew := testutil.NewTestStep(p.ID, "SEW", testutil.WithSequence(3))
	for _, s := range []*domain.ProductStep{cut, screen, sew} {
		require.NoError(t, repo.CreateStep(ctx, s))
	}
	require.NoError(t, repo.CreateDependency(ctx, &domain.StepDependency{
		StepID: screen.ID, DependsOnStepID: cut.ID, Kind: domain.DependFinish}))
	require.NoError(t, repo.CreateDependency(ctx, &domain.StepDependency{
		StepID: sew.ID, DependsOnStepID: screen.ID, Kind: domain.DependFinish}))

	// A version without the screen step drops the edges touching it.
	v := &domain.BuildVersion{ProductID: p.ID, Name: "no-screen", Status: domain.BuildDraft,
		StepIDs: []int64{cut.ID, sew.ID}}
	require.NoError(t, repo.CreateBuildVersion(ctx, v))

	full, err := repo.GetBOM(ctx, p.ID, nil)
	require.NoError(t, err)
	assert.Len(t, full.Steps, 3)
	assert.Len(t, full.Dependencies, 2)

	trimmed, err := repo.GetBOM(ctx, p.ID, &v.ID)
	require.NoError(t, err)
	require.Len(t, trimmed.Steps, 2)
	assert.Empty(t, trimmed.Dependencies)
}

func TestProductRepo_SetDefaultBuildVersion(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProductRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProduct("Vest")
	require.NoError(t, repo.Create(ctx, p))
	v1 := &domain.BuildVersion{ProductID: p.ID, Name: "v1", Status: domain.BuildActive, IsDefault: true}
	v2 := &domain.BuildVersion{ProductID: p.ID, Name: "v2", Status: domain.BuildDraft}
	require.NoError(t, repo.CreateBuildVersion(ctx, v1))
	require.NoError(t, repo.CreateBuildVersion(ctx, v2))

	require.NoError(t, repo.SetDefaultBuildVersion(ctx, p.ID, v2.ID))

	versions, err := repo.ListBuildVersions(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.False(t, versions[0].IsDefault)
	assert.True(t, versions[1].IsDefault)
	// Promotion activates a draft version.
	assert.Equal(t, domain.BuildActive, versions[1].Status)
}

func TestProductRepo_DeleteCascadesToSteps(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProductRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProduct("Scarf")
	require.NoError(t, repo.Create(ctx, p))
	s := testutil.NewTestStep(p.ID, "KNIT")
	require.NoError(t, repo.CreateStep(ctx, s))

	require.NoError(t, repo.Delete(ctx, p.ID))

	steps, err := repo.ListSteps(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, steps)
}
