// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package timewindow

import (
	"fmt"
	"time"
)

// Frame is a symbolic reporting period.
type Frame string

const (
	Today     Frame = "today"
	Yesterday Frame = "yesterday"
	LastWeek  Frame = "lastWeek"
	LastMonth Frame = "lastMonth"
)

// DateLayout is the format of the date arguments bound into predicates.
const DateLayout = "2006-01-02"

// ParseFrame maps a query-string token to a Frame. Unknown or empty tokens
// resolve to Today.
func ParseFrame(token string) Frame {
	switch Frame(token) {
	case Yesterday, LastWeek, LastMonth:
		return Frame(token)
	default:
		return Today
	}
}

// Window is an inclusive range of calendar days.
type Window struct {
	Frame Frame
	Start time.Time
	End   time.Time
}

// Resolve computes the window for frame relative to the local midnight of now.
// Multi-day windows end yesterday and never include the current day.
func Resolve(frame Frame, now time.Time) Window {
	today := Midnight(now)
	yesterday := today.AddDate(0, 0, -1)

	switch frame {
	case Yesterday:
		return Window{Frame: frame, Start: yesterday, End: yesterday}
	case LastWeek:
		return Window{Frame: frame, Start: today.AddDate(0, 0, -7), End: yesterday}
	case LastMonth:
		return Window{Frame: frame, Start: today.AddDate(0, -1, 0), End: yesterday}
	default:
		return Window{Frame: Today, Start: today, End: today}
	}
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Exact reports whether the window covers a single day.
func (w Window) Exact() bool {
	return w.Start.Equal(w.End)
}

// MultiDay reports whether the frame is one of the trailing multi-day periods.
func (f Frame) MultiDay() bool {
	return f == LastWeek || f == LastMonth
}

// Predicate renders a date condition on column using numbered placeholders
// starting at $first. Single-day windows compare for equality; others use an
// inclusive BETWEEN.
func (w Window) Predicate(column string, first int) (string, []any) {
	start := w.Start.Format(DateLayout)
	if w.Exact() {
		return fmt.Sprintf("DATE(%s) = $%d", column, first), []any{start}
	}
	end := w.End.Format(DateLayout)
	return fmt.Sprintf("DATE(%s) BETWEEN $%d AND $%d", column, first, first+1), []any{start, end}
}

func (w Window) String() string {
	if w.Exact() {
		return fmt.Sprintf("%s [%s]", w.Frame, w.Start.Format(DateLayout))
	}
	return fmt.Sprintf("%s [%s..%s]", w.Frame, w.Start.Format(DateLayout), w.End.Format(DateLayout))
}
