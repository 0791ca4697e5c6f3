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

func newSettingsService(t *testing.T) (SettingsService, *serviceEnv) {
	env := newServiceEnv(t)
	return NewSettingsService(env.settings), env
}

func TestSettingsService_GetDefaults(t *testing.T) {
	svc, _ := newSettingsService(t)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *got)
}

func TestSettingsService_UpdateRoundTrip(t *testing.T) {
	svc, _ := newSettingsService(t)
	ctx := context.Background()

	s := domain.DefaultSettings()
	s.OvertimeEnd = 1200
	s.HolidayDates = []string{"2026-12-24", "2026-12-25"}
	require.NoError(t, svc.Update(ctx, &s))

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1200, got.OvertimeEnd)
	assert.Equal(t, s.HolidayDates, got.HolidayDates)
}

func TestSettingsService_RejectsBadHolidayDate(t *testing.T) {
	svc, _ := newSettingsService(t)

	s := domain.DefaultSettings()
	s.HolidayDates = []string{"24.12.2026"}
	err := svc.Update(context.Background(), &s)
	var verr *contract.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSettingsService_RejectsDisorderedCutPoints(t *testing.T) {
	svc, _ := newSettingsService(t)

	s := domain.DefaultSettings()
	s.LevelCutPoints.Level2 = s.LevelCutPoints.Level5
	err := svc.Update(context.Background(), &s)
	var verr *contract.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSettingsService_HolidaySuppressesScheduling(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewSettingsService(env.settings)
	ctx := context.Background()

	s := domain.DefaultSettings()
	// Black out the whole first planning week.
	s.HolidayDates = []string{"2026-09-01", "2026-09-02", "2026-09-03", "2026-09-04"}
	require.NoError(t, svc.Update(ctx, &s))

	seedCatalog(t, env, 20, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	detail, err := env.planningSvc.CreateRun(ctx, septemberRun("Holidays"))
	require.NoError(t, err)

	weekTwo := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	for _, b := range detail.Scenarios[0].Blocks {
		assert.False(t, b.Date.Before(weekTwo), "no work on blacked-out days")
	}
}
