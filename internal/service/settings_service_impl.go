package service

import (
	"context"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
)

type settingsService struct {
	settings repository.SettingsRepo
}

func NewSettingsService(settings repository.SettingsRepo) SettingsService {
	return &settingsService{settings: settings}
}

func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	return s.settings.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, settings *domain.Settings) error {
	for _, d := range settings.HolidayDates {
		if _, err := calendar.ParseDate(d); err != nil {
			return contract.NewValidationError("holiday date %q: %v", d, err)
		}
	}
	cuts := settings.LevelCutPoints
	if !(cuts.Level5 > cuts.Level4 && cuts.Level4 > cuts.Level3 && cuts.Level3 > cuts.Level2) {
		return contract.NewValidationError("level cut points must strictly decrease from level 5 to level 2")
	}
	return s.settings.Update(ctx, settings)
}
