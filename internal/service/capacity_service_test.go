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

func TestAnalyze_ComfortableHorizon(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	view, err := env.capacitySvc.Analyze(ctx, contract.CapacityRequest{
		From: "2026-09-01",
		To:   "2026-09-11",
	})
	require.NoError(t, err)

	// Nine weekdays, two workers at eight hours.
	assert.InDelta(t, 144, view.AvailableHours, 0.01)
	// 20 units through two 60-second steps.
	assert.InDelta(t, 20*120.0/3600, view.RequiredHours, 0.01)

	require.Len(t, view.Risks, 1)
	assert.Equal(t, cat.demand.ID, view.Risks[0].DemandID)
	assert.True(t, view.Risks[0].CanMeet)
	assert.Equal(t, domain.RiskOnTrack, view.Risks[0].Risk)
	assert.Zero(t, view.Risks[0].ShortfallHours)

	require.NotEmpty(t, view.Weekly)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, view.Weekly[0].WeekStart)
}

func TestAnalyze_OverloadedDemandIsCritical(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 10000, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	view, err := env.capacitySvc.Analyze(ctx, contract.CapacityRequest{
		From: "2026-09-01",
		To:   "2026-09-11",
	})
	require.NoError(t, err)

	require.Len(t, view.Risks, 1)
	assert.Equal(t, cat.demand.ID, view.Risks[0].DemandID)
	assert.False(t, view.Risks[0].CanMeet)
	assert.Equal(t, domain.RiskCritical, view.Risks[0].Risk)
	assert.Positive(t, view.Risks[0].ShortfallHours)
}

func TestAnalyze_OverridesChangeAvailability(t *testing.T) {
	env := newServiceEnv(t)
	seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	baseline, err := env.capacitySvc.Analyze(ctx, contract.CapacityRequest{
		From: "2026-09-01",
		To:   "2026-09-11",
	})
	require.NoError(t, err)

	roster, err := env.workers.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	withOverride, err := env.capacitySvc.Analyze(ctx, contract.CapacityRequest{
		From: "2026-09-01",
		To:   "2026-09-11",
		Overrides: map[int64]contract.WorkerHoursView{
			roster[0].ID: {Available: false},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, baseline.AvailableHours/2, withOverride.AvailableHours, 0.01,
		"removing one of two workers halves the pool")
}

func TestAnalyze_SkipsCompletedDemand(t *testing.T) {
	env := newServiceEnv(t)
	cat := seedCatalog(t, env, 20, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	cat.demand.Status = domain.DemandCompleted
	require.NoError(t, env.demand.Update(ctx, cat.demand))

	view, err := env.capacitySvc.Analyze(ctx, contract.CapacityRequest{
		From: "2026-09-01",
		To:   "2026-09-11",
	})
	require.NoError(t, err)
	assert.Empty(t, view.Risks)
	assert.Zero(t, view.RequiredHours)
}

func TestAnalyze_DateValidation(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	var verr *contract.ValidationError

	_, err := env.capacitySvc.Analyze(ctx, contract.CapacityRequest{From: "bad", To: "2026-09-11"})
	require.ErrorAs(t, err, &verr)

	_, err = env.capacitySvc.Analyze(ctx, contract.CapacityRequest{From: "2026-09-11", To: "2026-09-01"})
	require.ErrorAs(t, err, &verr)
}
