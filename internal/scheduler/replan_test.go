package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

func TestResumePoint(t *testing.T) {
	cfg := calendar.DefaultConfig()
	mon := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)

	cases := []struct {
		name string
		now  time.Time
		date time.Time
		min  int
	}{
		{"mid-morning rounds up", mon.Add(9*time.Hour + 7*time.Minute), mon, 9*60 + 15},
		{"exact quarter hour stays", mon.Add(8 * time.Hour), mon, 8 * 60},
		{"seconds push past the quarter", mon.Add(8*time.Hour + 30*time.Second), mon, 8*60 + 15},
		{"before morning start", mon.Add(6*time.Hour + 10*time.Minute), mon, cfg.MorningStart},
		{"inside lunch", mon.Add(11*time.Hour + 5*time.Minute), mon, cfg.LunchEnd},
		{"rounding into lunch", mon.Add(10*time.Hour + 55*time.Minute), mon, cfg.LunchEnd},
		{"after day end", mon.Add(15*time.Hour + 45*time.Minute), tue, cfg.MorningStart},
		{"friday evening rolls to monday", mon.AddDate(0, 0, 4).Add(16 * time.Hour), mon.AddDate(0, 0, 7), cfg.MorningStart},
		{"saturday rolls to monday", mon.AddDate(0, 0, 5).Add(10 * time.Hour), mon.AddDate(0, 0, 7), cfg.MorningStart},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResumePoint(cfg, tc.now)
			assert.Equal(t, tc.date, got.Date)
			assert.Equal(t, tc.min, got.Min)
		})
	}
}

func TestResumePoint_Holiday(t *testing.T) {
	cfg := calendar.DefaultConfig()
	mon := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	cfg.IsHoliday = func(d time.Time) bool { return d.Equal(mon) }

	got := ResumePoint(cfg, mon.Add(9*time.Hour))
	assert.Equal(t, mon.AddDate(0, 0, 1), got.Date)
	assert.Equal(t, cfg.MorningStart, got.Min)
}

func TestBuildOvertimeSuggestions(t *testing.T) {
	cfg := calendar.DefaultConfig()
	mon := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	start := Moment{Date: mon, Min: cfg.MorningStart}
	workers := []domain.Worker{{ID: 2}, {ID: 1}}

	t.Run("covers shortfall plus buffer", func(t *testing.T) {
		// 180min shortfall + 120min buffer = 300min against 120min
		// per worker per day: two workers on Monday, one on Tuesday.
		out := BuildOvertimeSuggestions(cfg, start, mon.AddDate(0, 0, 4), 180, 120, 11, workers)
		require.Len(t, out, 3)

		for _, s := range out {
			assert.Equal(t, cfg.AfternoonEnd, s.StartMin)
			assert.Equal(t, cfg.AfternoonEnd+120, s.EndMin)
			assert.Equal(t, 120, s.Minutes)
			assert.Equal(t, int64(11), s.StepID)
		}
		assert.Equal(t, mon, out[0].Date)
		assert.Equal(t, int64(1), out[0].WorkerID)
		assert.Equal(t, mon, out[1].Date)
		assert.Equal(t, int64(2), out[1].WorkerID)
		assert.Equal(t, mon.AddDate(0, 0, 1), out[2].Date)
		assert.Equal(t, int64(1), out[2].WorkerID)
	})

	t.Run("due date bounds the window", func(t *testing.T) {
		out := BuildOvertimeSuggestions(cfg, start, mon, 600, 120, 11, workers)
		assert.Len(t, out, 2)
	})

	t.Run("overtime window capped at the hard end", func(t *testing.T) {
		out := BuildOvertimeSuggestions(cfg, start, mon, 60, 480, 11, workers[:1])
		require.Len(t, out, 1)
		assert.Equal(t, cfg.OvertimeEnd, out[0].EndMin)
	})

	t.Run("nothing to suggest", func(t *testing.T) {
		assert.Nil(t, BuildOvertimeSuggestions(cfg, start, mon, 0, 120, 11, workers))
		assert.Nil(t, BuildOvertimeSuggestions(cfg, start, mon, 60, 0, 11, workers))
		assert.Nil(t, BuildOvertimeSuggestions(cfg, start, mon, 60, 120, 11, nil))
	})
}

func TestRemainingByStep(t *testing.T) {
	steps := []domain.ProductStep{{ID: 11}, {ID: 12}, {ID: 13}}
	completed := map[int64]int{11: 30, 12: 150}

	got := RemainingByStep(100, steps, completed)
	assert.Equal(t, map[int64]int{11: 70, 12: 0, 13: 100}, got)
}

func TestFirstIncompleteStep(t *testing.T) {
	steps := []domain.ProductStep{
		{ID: 12, Sequence: 2, StepCode: "SEW"},
		{ID: 11, Sequence: 1, StepCode: "CUT"},
	}

	t.Run("lowest sequence with remaining work", func(t *testing.T) {
		step, err := FirstIncompleteStep(steps, map[int64]int{11: 0, 12: 40})
		require.NoError(t, err)
		assert.Equal(t, int64(12), step.ID)
	})

	t.Run("earlier step wins", func(t *testing.T) {
		step, err := FirstIncompleteStep(steps, map[int64]int{11: 5, 12: 40})
		require.NoError(t, err)
		assert.Equal(t, int64(11), step.ID)
	})

	t.Run("all complete", func(t *testing.T) {
		_, err := FirstIncompleteStep(steps, map[int64]int{})
		require.Error(t, err)
	})
}
