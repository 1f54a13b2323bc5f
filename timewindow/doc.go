// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package timewindow turns a dashboard time-frame token into a date range and a
parameterized SQL predicate.

# Frames

	today      [today, today]
	yesterday  [today-1d, today-1d]
	lastWeek   [today-7d, today-1d]
	lastMonth  [today-1 month, today-1d]

"today" is the local midnight of the supplied instant. Unknown tokens fall back
to today. Multi-day windows stop at yesterday.

# Usage

	w := timewindow.Resolve(timewindow.ParseFrame(r.URL.Query().Get("timeFrame")), time.Now())
	cond, args := w.Predicate("order_date", 1)
	// cond: DATE(order_date) BETWEEN $1 AND $2
	// args: ["2025-03-01", "2025-03-07"]

Resolve is pure: the same frame and instant always give the same window.
*/
package timewindow
