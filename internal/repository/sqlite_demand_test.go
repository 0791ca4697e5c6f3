package repository

import (
	"context"
	"testing"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demandTestProduct(t *testing.T, repo *SQLiteProductRepo) *domain.Product {
	t.Helper()
	p := testutil.NewTestProduct("Widget")
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestDemandRepo_CreateAppliesDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewSQLiteProductRepo(db)
	repo := NewSQLiteDemandRepo(db)
	ctx := context.Background()

	p := demandTestProduct(t, products)
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	d := &domain.DemandEntry{ProductID: p.ID, Quantity: 100, DueDate: due}
	require.NoError(t, repo.Create(ctx, d))

	fetched, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceInternal, fetched.Source)
	assert.Equal(t, domain.DemandPending, fetched.Status)
	assert.Equal(t, 3, fetched.Priority)
	assert.True(t, due.Equal(fetched.DueDate))
	assert.Nil(t, fetched.CustomerName)
}

func TestDemandRepo_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewSQLiteProductRepo(db)
	repo := NewSQLiteDemandRepo(db)
	ctx := context.Background()

	p := demandTestProduct(t, products)
	early := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	d1 := testutil.NewTestDemand(p.ID, 10, early)
	d2 := testutil.NewTestDemand(p.ID, 20, late, testutil.WithDemandStatus(domain.DemandPlanned))
	d3 := testutil.NewTestDemand(p.ID, 30, early, testutil.WithDemandStatus(domain.DemandCompleted))
	for _, d := range []*domain.DemandEntry{d1, d2, d3} {
		require.NoError(t, repo.Create(ctx, d))
	}

	pending, err := repo.List(ctx, DemandFilter{Status: domain.DemandPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, d1.ID, pending[0].ID)

	cutoff := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	dueSoon, err := repo.List(ctx, DemandFilter{DueBefore: &cutoff})
	require.NoError(t, err)
	assert.Len(t, dueSoon, 2)

	byID, err := repo.List(ctx, DemandFilter{IDs: []int64{d2.ID, d3.ID}})
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	all, err := repo.List(ctx, DemandFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDemandRepo_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewSQLiteProductRepo(db)
	repo := NewSQLiteDemandRepo(db)
	ctx := context.Background()

	p := demandTestProduct(t, products)
	d := testutil.NewTestDemand(p.ID, 10, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, d))

	require.NoError(t, repo.UpdateStatus(ctx, d.ID, domain.DemandPlanned))

	fetched, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DemandPlanned, fetched.Status)
}

func TestDemandRepo_BatchSizesRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewSQLiteProductRepo(db)
	repo := NewSQLiteDemandRepo(db)
	ctx := context.Background()

	p := demandTestProduct(t, products)
	d := testutil.NewTestDemand(p.ID, 100, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		testutil.WithBatchSizes(10, 25))
	require.NoError(t, repo.Create(ctx, d))

	fetched, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, fetched.MinBatchSize)
	assert.Equal(t, 25, fetched.MaxBatchSize)
}
