package ledger

import (
	"fmt"
	"time"

	"pocketbook/internal/models"
)

// SplitDuration breaks d into whole hours, minutes and seconds. Negative
// durations count as zero.
func SplitDuration(d time.Duration) (hours, minutes, seconds int64) {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return total / 3600, (total % 3600) / 60, total % 60
}

// FormatDuration renders d as "Xh Ym", dropping seconds.
func FormatDuration(d time.Duration) string {
	h, m, _ := SplitDuration(d)
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatElapsed renders d as "Xh Ym Zs" for a running session.
func FormatElapsed(d time.Duration) string {
	h, m, s := SplitDuration(d)
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday midnight that begins t's week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// MonthRange parses "YYYY-MM" and returns its first instant and the last
// nanosecond of the month in loc.
func MonthRange(month string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond), nil
}

// WorkedSince totals completed session time that falls on or after since.
// Sessions straddling since only count the part after it.
func WorkedSince(sessions []models.WorkSession, since time.Time) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		if s.ClockOut == nil || !s.ClockOut.After(since) {
			continue
		}
		start := s.ClockIn
		if start.Before(since) {
			start = since
		}
		total += s.ClockOut.Sub(start)
	}
	return total
}
