package repository

import (
	"context"
	"testing"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepo_GetFallsBackToDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(db)

	s, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *s)
}

func TestSettingsRepo_UpdateRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(db)
	ctx := context.Background()

	s := domain.DefaultSettings()
	s.MorningStart = 6 * 60
	s.LevelCutPoints.Level5 = 140
	s.HolidayDates = []string{"2026-12-25", "2027-01-01"}
	require.NoError(t, repo.Update(ctx, &s))

	fetched, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6*60, fetched.MorningStart)
	assert.InDelta(t, 140, fetched.LevelCutPoints.Level5, 0.001)
	assert.Equal(t, []string{"2026-12-25", "2027-01-01"}, fetched.HolidayDates)

	// A second update overwrites the single row.
	s.MorningStart = 8 * 60
	require.NoError(t, repo.Update(ctx, &s))
	fetched, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8*60, fetched.MorningStart)
}

func TestSettingsRepo_UpdateRejectsDisorderedDay(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(db)

	s := domain.DefaultSettings()
	s.LunchEnd = s.LunchStart - 10
	assert.Error(t, repo.Update(context.Background(), &s))
}
