package domain

// Settings is the single configuration record governing the work calendar,
// the overtime window, and the efficiency-to-level cut-points. All clock
// values are minutes since midnight.
type Settings struct {
	MorningStart   int
	LunchStart     int
	LunchEnd       int
	AfternoonEnd   int
	OvertimeEnd    int
	LevelCutPoints LevelCutPoints
	HolidayDates   []string
}

// LevelCutPoints are the average-efficiency thresholds (percent) mapping to
// proficiency levels 5, 4, 3 and 2; below the last cut-point is level 1.
type LevelCutPoints struct {
	Level5 float64
	Level4 float64
	Level3 float64
	Level2 float64
}

// DefaultSettings returns the stock work-day policy: 07:00 start, lunch
// 11:00-11:30, day end 15:30, overtime window until 19:30.
func DefaultSettings() Settings {
	return Settings{
		MorningStart: 7 * 60,
		LunchStart:   11 * 60,
		LunchEnd:     11*60 + 30,
		AfternoonEnd: 15*60 + 30,
		OvertimeEnd:  19*60 + 30,
		LevelCutPoints: LevelCutPoints{
			Level5: 130,
			Level4: 115,
			Level3: 85,
			Level2: 70,
		},
	}
}
