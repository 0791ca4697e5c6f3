package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
)

var bookDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

func TestFindSlots_EmptyDay(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	gaps := book.FindSlots(1, bookDate, 0, false, 0)
	require.Len(t, gaps, 2)
	assert.Equal(t, Interval{Start: cfg.MorningStart, End: cfg.LunchStart}, gaps[0])
	assert.Equal(t, Interval{Start: cfg.LunchEnd, End: cfg.AfternoonEnd}, gaps[1])
}

func TestFindSlots_RespectsCommittedSlots(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	book.CommitSlot(1, bookDate, 420, 480) // 07:00-08:00
	book.CommitSlot(1, bookDate, 540, 600) // 09:00-10:00

	gaps := book.FindSlots(1, bookDate, 0, false, 0)
	require.Len(t, gaps, 3)
	assert.Equal(t, Interval{Start: 480, End: 540}, gaps[0])
	assert.Equal(t, Interval{Start: 600, End: cfg.LunchStart}, gaps[1])
	assert.Equal(t, Interval{Start: cfg.LunchEnd, End: cfg.AfternoonEnd}, gaps[2])
}

func TestFindSlots_DiscardsSubMinimumGaps(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	// Leave a 10-minute fragment before the first commitment.
	book.CommitSlot(1, bookDate, 430, cfg.LunchStart)

	gaps := book.FindSlots(1, bookDate, 0, false, 0)
	require.Len(t, gaps, 1)
	assert.Equal(t, cfg.LunchEnd, gaps[0].Start)
}

func TestFindSlots_EarliestStartClipsGaps(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	gaps := book.FindSlots(1, bookDate, 600, false, 0)
	require.Len(t, gaps, 2)
	assert.Equal(t, Interval{Start: 600, End: cfg.LunchStart}, gaps[0])
	assert.Equal(t, Interval{Start: cfg.LunchEnd, End: cfg.AfternoonEnd}, gaps[1])
}

func TestFindSlots_OvertimeExtendsAfternoon(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	gaps := book.FindSlots(1, bookDate, 0, true, 120)
	require.Len(t, gaps, 2)
	assert.Equal(t, cfg.AfternoonEnd+120, gaps[1].End)

	// Disallowed overtime keeps the regular day end.
	gaps = book.FindSlots(1, bookDate, 0, false, 120)
	assert.Equal(t, cfg.AfternoonEnd, gaps[1].End)
}

func TestFindSlots_OvertimeCappedByWindowEnd(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	// A 10-hour cap cannot push past the overtime window end.
	gaps := book.FindSlots(1, bookDate, 0, true, 600)
	require.Len(t, gaps, 2)
	assert.Equal(t, cfg.OvertimeEnd, gaps[1].End)
}

func TestCommitSlot_AccruesRegularAndOvertime(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	book.CommitSlot(1, bookDate, 420, 480)
	reg, ot := book.UsedMinutes(1, bookDate)
	assert.Equal(t, 60, reg)
	assert.Equal(t, 0, ot)

	// 15:00-16:30 splits 30 regular / 60 overtime.
	book.CommitSlot(1, bookDate, 900, 990)
	reg, ot = book.UsedMinutes(1, bookDate)
	assert.Equal(t, 90, reg)
	assert.Equal(t, 60, ot)
}

func TestCommitSlot_OvertimeExhaustionShrinksLaterGaps(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	// Use 60 of a 120-minute overtime allowance.
	book.CommitSlot(1, bookDate, cfg.AfternoonEnd, cfg.AfternoonEnd+60)

	gaps := book.FindSlots(1, bookDate, 0, true, 120)
	last := gaps[len(gaps)-1]
	assert.Equal(t, cfg.AfternoonEnd+60+60, last.End, "only 60 overtime minutes remain")
}

func TestDayBook_WorkersAndDatesAreIndependent(t *testing.T) {
	cfg := calendar.DefaultConfig()
	book := NewDayBook(cfg)

	book.CommitSlot(1, bookDate, 420, 930)

	gaps := book.FindSlots(2, bookDate, 0, false, 0)
	assert.Len(t, gaps, 2, "other worker unaffected")

	gaps = book.FindSlots(1, bookDate.AddDate(0, 0, 1), 0, false, 0)
	assert.Len(t, gaps, 2, "other date unaffected")
}
