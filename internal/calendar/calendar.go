// Package calendar implements the work-day model: clock arithmetic around
// the lunch window, weekend and holiday skipping, and HH:MM conversion.
// All clock values are minutes since local midnight; no time-zone
// conversion happens here.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the external representation of all dates.
const DateLayout = "2006-01-02"

// Config is the work-day policy. OvertimeEnd bounds the overtime window
// that follows AfternoonEnd; scenario overtime caps clip it further.
type Config struct {
	MorningStart int
	LunchStart   int
	LunchEnd     int
	AfternoonEnd int
	OvertimeEnd  int
	// IsHoliday, when set, marks extra non-working dates beyond weekends.
	IsHoliday func(time.Time) bool
}

// DefaultConfig returns the stock policy: 07:00 start, lunch 11:00-11:30,
// day end 15:30, overtime window until 19:30 (480 regular minutes/day).
func DefaultConfig() Config {
	return Config{
		MorningStart: 7 * 60,
		LunchStart:   11 * 60,
		LunchEnd:     11*60 + 30,
		AfternoonEnd: 15*60 + 30,
		OvertimeEnd:  19*60 + 30,
	}
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parsing clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight to "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseDate converts a "YYYY-MM-DD" string to a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate converts a date to its "YYYY-MM-DD" form.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// LunchOverlap returns how many minutes of [start, end) fall inside the
// lunch window.
func (c Config) LunchOverlap(start, end int) int {
	lo := max(start, c.LunchStart)
	hi := min(end, c.LunchEnd)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// WorkMinutes returns the working minutes between two clock values,
// excluding any lunch overlap.
func (c Config) WorkMinutes(start, end int) int {
	if end <= start {
		return 0
	}
	return end - start - c.LunchOverlap(start, end)
}

// RegularMinutes is the regular (non-overtime) working capacity of one day.
func (c Config) RegularMinutes() int {
	return c.WorkMinutes(c.MorningStart, c.AfternoonEnd)
}

// Advance adds delta working minutes to start, jumping over the lunch
// window and clipping at the end of the regular day.
func (c Config) Advance(start, delta int) int {
	t := start
	if t >= c.LunchStart && t < c.LunchEnd {
		t = c.LunchEnd
	}
	t += delta
	if start < c.LunchStart && t > c.LunchStart {
		t += c.LunchEnd - c.LunchStart
	}
	if t > c.AfternoonEnd {
		t = c.AfternoonEnd
	}
	return t
}

// IsWorkday reports whether the date is neither a weekend nor a holiday.
func (c Config) IsWorkday(d time.Time) bool {
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if c.IsHoliday != nil && c.IsHoliday(d) {
		return false
	}
	return true
}

// NextWorkday returns the first workday strictly after d.
func (c Config) NextWorkday(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	for !c.IsWorkday(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// WeekdaysBetween counts workdays in the inclusive range [from, to].
func (c Config) WeekdaysBetween(from, to time.Time) int {
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsWorkday(d) {
			n++
		}
	}
	return n
}
