/*
streak.go - Streak and completion-rate analysis

PURPOSE:
  Pure functions over a habit's day-indexed completion history. Input is a
  list of (date, completed) pairs in any order; output is the current
  streak, the longest streak on record, and the completion rate over a
  trailing window.

GAP SEMANTICS (critical):
  A day with no record at all is treated IDENTICALLY to an explicit
  completed=false day. Both break streaks and both score zero in the
  completion-rate window. "No data" is never "skip".

ANCHORING:
  CurrentStreak and CompletionRate are anchored at today's date. The *At
  variants take the anchor explicitly so callers (and tests) can be
  deterministic; the bare variants anchor at Today().

SEE ALSO:
  - stats.go: Composes these functions into a combined report
*/
package habit

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENT STREAK
// =============================================================================

// CurrentStreak counts consecutive completed days ending at today, anchored
// at the current date. See CurrentStreakAt.
func CurrentStreak(history []DaySummary) int {
	return CurrentStreakAt(history, Today())
}

// CurrentStreakAt counts consecutive completed days walking backward from
// the anchor day. If the anchor itself is not completed but the day before
// is, the walk starts from the day before: an incomplete today does not
// retroactively zero out a streak that is still alive from yesterday.
// Returns 0 when neither day is completed.
func CurrentStreakAt(history []DaySummary, today Date) int {
	if len(history) == 0 {
		return 0
	}

	completedOn := make(map[string]bool, len(history))
	for _, day := range history {
		completedOn[day.Date.String()] = day.Completed
	}

	var start Date
	switch {
	case completedOn[today.String()]:
		start = today
	case completedOn[today.AddDays(-1).String()]:
		start = today.AddDays(-1)
	default:
		return 0
	}

	streak := 0
	for d := start; completedOn[d.String()]; d = d.AddDays(-1) {
		streak++
	}
	return streak
}

// =============================================================================
// LONGEST STREAK
// =============================================================================

// LongestStreak returns the longest run of consecutive completed days
// anywhere in the history, including a still-open run at the end.
// An explicit completed=false record resets the run; a completed day that
// is not exactly one calendar day after the previous completed day starts
// a fresh run of 1.
func LongestStreak(history []DaySummary) int {
	if len(history) == 0 {
		return 0
	}

	sorted := make([]DaySummary, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	longest := 0
	run := 0
	var prev *Date

	for i := range sorted {
		day := sorted[i]
		if !day.Completed {
			// Missed day breaks the run
			if run > longest {
				longest = run
			}
			run = 0
			prev = nil
			continue
		}

		if prev == nil {
			run = 1
		} else if DaysBetween(*prev, day.Date) == 1 {
			run++
		} else {
			// Gap: close the run and start over
			if run > longest {
				longest = run
			}
			run = 1
		}
		d := day.Date
		prev = &d
	}

	if run > longest {
		longest = run
	}
	return longest
}

// =============================================================================
// COMPLETION RATE
// =============================================================================

// CompletionRate returns the percentage of fully-completed days in the
// trailing window of windowDays calendar days ending today. See
// CompletionRateAt.
func CompletionRate(history []DaySummary, windowDays int) float64 {
	return CompletionRateAt(history, windowDays, Today())
}

// CompletionRateAt scores each day in the inclusive window
// [anchor-(windowDays-1), anchor]: 1 if an explicit completed record exists
// for that exact date, 0 otherwise. The denominator is always the full
// window length, so sparse history lowers the rate rather than shrinking
// the sample. Result is rounded to 2 decimal places.
func CompletionRateAt(history []DaySummary, windowDays int, today Date) float64 {
	if len(history) == 0 || windowDays <= 0 {
		return 0
	}

	completedOn := make(map[string]bool, len(history))
	for _, day := range history {
		completedOn[day.Date.String()] = day.Completed
	}

	completed := 0
	d := today.AddDays(-(windowDays - 1))
	for i := 0; i < windowDays; i++ {
		if completedOn[d.String()] {
			completed++
		}
		d = d.AddDays(1)
	}

	rate := decimal.NewFromInt(int64(completed * 100)).
		Div(decimal.NewFromInt(int64(windowDays))).
		Round(2)
	f, _ := rate.Float64()
	return f
}
