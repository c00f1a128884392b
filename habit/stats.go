package habit

import "context"

// =============================================================================
// STATISTICS AGGREGATOR - Ledger history + streak analysis, combined
// =============================================================================

// GetWithStats fetches a habit's full log history and derives its statistics:
// current streak, longest streak, 7- and 30-day completion rates, and the
// total number of fully-completed days. A pure composition over the fetched
// data; if the fetch fails, the error propagates unchanged.
func (l *Ledger) GetWithStats(ctx context.Context, habitID string) (*StatsReport, error) {
	return l.GetWithStatsAt(ctx, habitID, Today())
}

// GetWithStatsAt is GetWithStats with an explicit anchor date for the
// streak and rate windows.
func (l *Ledger) GetWithStatsAt(ctx context.Context, habitID string, today Date) (*StatsReport, error) {
	logs, err := l.GetAll(ctx, habitID)
	if err != nil {
		return nil, err
	}

	history := make([]DaySummary, len(logs))
	totalCompletions := 0
	for i, rec := range logs {
		history[i] = rec.Summary()
		if rec.Completed {
			totalCompletions++
		}
	}

	return &StatsReport{
		HabitID:             habitID,
		Logs:                logs,
		CurrentStreak:       CurrentStreakAt(history, today),
		LongestStreak:       LongestStreak(history),
		CompletionRate7Day:  CompletionRateAt(history, 7, today),
		CompletionRate30Day: CompletionRateAt(history, 30, today),
		TotalCompletions:    totalCompletions,
	}, nil
}
