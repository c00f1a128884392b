package habit

// =============================================================================
// GOAL CALCULATOR - Per-day target derivation from frequency
// =============================================================================

// ScheduledGoal is the result of goal derivation for one day. "Not scheduled"
// is represented explicitly rather than overloading a zero target, so
// consumers cannot mistake an off-day for a real zero-target day.
type ScheduledGoal struct {
	Scheduled bool
	Target    int
}

// TargetOrZero collapses the tri-state to a plain integer: the target when
// scheduled, 0 otherwise. This is the value stored as DayRecord.Goal.
func (g ScheduledGoal) TargetOrZero() int {
	if !g.Scheduled {
		return 0
	}
	return g.Target
}

// GoalFor derives the completion target for a habit on a given date.
// Pure function of (habit, date); no side effects.
//
// Variants:
//   - daily:  TimesPerDay every day, unconditionally.
//   - weekly: TimesPerDay when the date's weekday is scheduled, else off-day.
//   - custom: TargetDays active days spread across a PerWeeks*7-day rolling
//     period anchored to day-of-year. dayOfYear % periodDays < TargetDays
//     marks the active days. The pattern resets at calendar-year boundaries
//     (day-of-year wraps), which produces a visible discontinuity on Jan 1.
//     That is a long-standing quirk of the schedule, kept as-is.
//   - anything else: defensive default of once per day.
func GoalFor(h Habit, d Date) ScheduledGoal {
	f := h.Frequency

	switch f.Kind {
	case FrequencyDaily:
		return ScheduledGoal{Scheduled: true, Target: f.TimesPerDay}

	case FrequencyWeekly:
		weekday := int(d.Weekday()) // 0=Sunday..6=Saturday
		for _, scheduled := range f.DaysOfWeek {
			if scheduled == weekday {
				return ScheduledGoal{Scheduled: true, Target: f.TimesPerDay}
			}
		}
		return ScheduledGoal{Scheduled: false}

	case FrequencyCustom:
		periodDays := f.PerWeeks * 7
		dayInPeriod := d.DayOfYear() % periodDays
		if dayInPeriod < f.TargetDays {
			return ScheduledGoal{Scheduled: true, Target: 1}
		}
		return ScheduledGoal{Scheduled: false}

	default:
		return ScheduledGoal{Scheduled: true, Target: 1}
	}
}

// IsCompleted reports whether a count satisfies a goal.
func IsCompleted(count, goal int) bool {
	return count >= goal
}

// Progress returns completion progress as a percentage capped at 100.
// A goal of 0 (off-day) counts as already complete.
func Progress(count, goal int) float64 {
	if goal == 0 {
		return 100
	}
	pct := float64(count) / float64(goal) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// effectiveGoal substitutes 1 for a zero or unset goal. The incremental
// mutation paths use this so a record created on an off-day still flips to
// completed after one completion.
func effectiveGoal(goal int) int {
	if goal < 1 {
		return 1
	}
	return goal
}
