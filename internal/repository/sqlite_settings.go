package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

type SQLiteSettingsRepo struct {
	db db.DBTX
}

func NewSQLiteSettingsRepo(dbtx db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: dbtx}
}

// Get returns the stored settings row, or DefaultSettings when nothing has
// been saved yet.
func (r *SQLiteSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT morning_start, lunch_start, lunch_end, afternoon_end, overtime_end,
			level5_cut, level4_cut, level3_cut, level2_cut, holidays_json
		FROM settings WHERE id = 1`)

	var s domain.Settings
	var holidaysJSON string
	err := row.Scan(&s.MorningStart, &s.LunchStart, &s.LunchEnd, &s.AfternoonEnd, &s.OvertimeEnd,
		&s.LevelCutPoints.Level5, &s.LevelCutPoints.Level4, &s.LevelCutPoints.Level3, &s.LevelCutPoints.Level2,
		&holidaysJSON)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := domain.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := json.Unmarshal([]byte(holidaysJSON), &s.HolidayDates); err != nil {
		return nil, fmt.Errorf("decoding holidays: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSettingsRepo) Update(ctx context.Context, s *domain.Settings) error {
	if s.MorningStart >= s.LunchStart || s.LunchStart >= s.LunchEnd ||
		s.LunchEnd >= s.AfternoonEnd || s.AfternoonEnd > s.OvertimeEnd {
		return errors.New("work day boundaries must be ordered")
	}
	holidays := s.HolidayDates
	if holidays == nil {
		holidays = []string{}
	}
	holidaysJSON, err := json.Marshal(holidays)
	if err != nil {
		return fmt.Errorf("encoding holidays: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (id, morning_start, lunch_start, lunch_end, afternoon_end, overtime_end,
			level5_cut, level4_cut, level3_cut, level2_cut, holidays_json)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			morning_start = excluded.morning_start,
			lunch_start   = excluded.lunch_start,
			lunch_end     = excluded.lunch_end,
			afternoon_end = excluded.afternoon_end,
			overtime_end  = excluded.overtime_end,
			level5_cut    = excluded.level5_cut,
			level4_cut    = excluded.level4_cut,
			level3_cut    = excluded.level3_cut,
			level2_cut    = excluded.level2_cut,
			holidays_json = excluded.holidays_json`,
		s.MorningStart, s.LunchStart, s.LunchEnd, s.AfternoonEnd, s.OvertimeEnd,
		s.LevelCutPoints.Level5, s.LevelCutPoints.Level4, s.LevelCutPoints.Level3, s.LevelCutPoints.Level2,
		string(holidaysJSON))
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
