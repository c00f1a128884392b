package habit_test

import (
	"testing"
	"time"

	"github.com/cadence/habit-engine/habit"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dailyHabit(timesPerDay int) habit.Habit {
	return habit.Habit{
		ID:        "habit-daily",
		Frequency: habit.Frequency{Kind: habit.FrequencyDaily, TimesPerDay: timesPerDay},
	}
}

func weeklyHabit(daysOfWeek []int, timesPerDay int) habit.Habit {
	return habit.Habit{
		ID:        "habit-weekly",
		Frequency: habit.Frequency{Kind: habit.FrequencyWeekly, DaysOfWeek: daysOfWeek, TimesPerDay: timesPerDay},
	}
}

func customHabit(targetDays, perWeeks int) habit.Habit {
	return habit.Habit{
		ID:        "habit-custom",
		Frequency: habit.Frequency{Kind: habit.FrequencyCustom, TargetDays: targetDays, PerWeeks: perWeeks},
	}
}

// =============================================================================
// GOAL DERIVATION TESTS
// =============================================================================

func TestGoalFor_Daily_SameTargetEveryDay(t *testing.T) {
	h := dailyHabit(8)

	dates := []habit.Date{
		habit.NewDate(2025, time.January, 1),
		habit.NewDate(2025, time.June, 15),
		habit.NewDate(2025, time.December, 31),
	}
	for _, d := range dates {
		g := habit.GoalFor(h, d)
		if !g.Scheduled || g.Target != 8 {
			t.Errorf("daily goal on %s: got %+v, want scheduled target 8", d, g)
		}
	}
}

func TestGoalFor_Weekly_ScheduledDay(t *testing.T) {
	// Mon/Wed/Fri habit; 2025-03-05 is a Wednesday
	h := weeklyHabit([]int{1, 3, 5}, 1)

	g := habit.GoalFor(h, habit.NewDate(2025, time.March, 5))
	if !g.Scheduled || g.Target != 1 {
		t.Errorf("Wednesday goal: got %+v, want scheduled target 1", g)
	}
}

func TestGoalFor_Weekly_OffDay(t *testing.T) {
	// Mon/Wed/Fri habit; 2025-03-04 is a Tuesday
	h := weeklyHabit([]int{1, 3, 5}, 1)

	g := habit.GoalFor(h, habit.NewDate(2025, time.March, 4))
	if g.Scheduled {
		t.Errorf("Tuesday goal: got %+v, want not scheduled", g)
	}
	if g.TargetOrZero() != 0 {
		t.Errorf("Tuesday TargetOrZero: got %d, want 0", g.TargetOrZero())
	}
}

func TestGoalFor_Custom_ModuloSchedule(t *testing.T) {
	// 5 target days per 2 weeks: day-of-year % 14 < 5 marks the active days.
	h := customHabit(5, 2)

	// Jan 1 (day 1): 1 % 14 = 1 < 5 -> active
	g := habit.GoalFor(h, habit.NewDate(2025, time.January, 1))
	if !g.Scheduled || g.Target != 1 {
		t.Errorf("Jan 1: got %+v, want scheduled target 1", g)
	}

	// Jan 10 (day 10): 10 % 14 = 10 >= 5 -> inactive
	g = habit.GoalFor(h, habit.NewDate(2025, time.January, 10))
	if g.Scheduled {
		t.Errorf("Jan 10: got %+v, want not scheduled", g)
	}

	// Jan 15 (day 15): 15 % 14 = 1 < 5 -> active again, next period
	g = habit.GoalFor(h, habit.NewDate(2025, time.January, 15))
	if !g.Scheduled {
		t.Errorf("Jan 15: got %+v, want scheduled", g)
	}
}

func TestGoalFor_NoVariant_DefaultsToOncePerDay(t *testing.T) {
	h := habit.Habit{ID: "habit-blank"}

	g := habit.GoalFor(h, habit.NewDate(2025, time.May, 20))
	if !g.Scheduled || g.Target != 1 {
		t.Errorf("blank frequency: got %+v, want scheduled target 1", g)
	}
}

// =============================================================================
// PROGRESS TESTS
// =============================================================================

func TestProgress(t *testing.T) {
	cases := []struct {
		count, goal int
		want        float64
	}{
		{3, 8, 37.5},
		{8, 8, 100},
		{10, 8, 100}, // capped
		{0, 8, 0},
		{2, 0, 100}, // off-day counts as complete
	}
	for _, c := range cases {
		if got := habit.Progress(c.count, c.goal); got != c.want {
			t.Errorf("Progress(%d, %d) = %v, want %v", c.count, c.goal, got, c.want)
		}
	}
}

func TestFrequencyValidate(t *testing.T) {
	invalid := []habit.Frequency{
		{Kind: habit.FrequencyDaily, TimesPerDay: 0},
		{Kind: habit.FrequencyDaily, TimesPerDay: 11},
		{Kind: habit.FrequencyWeekly, TimesPerDay: 1},                       // no days
		{Kind: habit.FrequencyWeekly, TimesPerDay: 1, DaysOfWeek: []int{7}}, // out of range
		{Kind: habit.FrequencyCustom, TargetDays: 0, PerWeeks: 1},
		{Kind: habit.FrequencyCustom, TargetDays: 5, PerWeeks: 53},
		{Kind: "yearly"},
	}
	for _, f := range invalid {
		if err := f.Validate(); err == nil {
			t.Errorf("Validate(%+v): expected error, got nil", f)
		}
	}

	valid := []habit.Frequency{
		{Kind: habit.FrequencyDaily, TimesPerDay: 1},
		{Kind: habit.FrequencyWeekly, TimesPerDay: 10, DaysOfWeek: []int{0, 6}},
		{Kind: habit.FrequencyCustom, TargetDays: 365, PerWeeks: 52},
	}
	for _, f := range valid {
		if err := f.Validate(); err != nil {
			t.Errorf("Validate(%+v): unexpected error %v", f, err)
		}
	}
}
