// Package streak decides how the daily-activity streak moves when the user
// adds a word.
//
// A day is active once ActivityThreshold words were added on it. Each
// evaluation compares today against the last active date:
//
//	today's count >= threshold:
//	  last == today      -> unchanged (already credited)
//	  last == yesterday  -> streak+1, last = today
//	  last absent        -> streak = 1, last = today
//	  otherwise          -> streak = 1, last = today (gap, or last in the future)
//	today's count < threshold:
//	  last absent, today or yesterday -> unchanged (grace)
//	  otherwise                       -> streak = 0, last kept as is
package streak

import (
	"github.com/AnshRaj112/wordstreak-backend/internal/models"
)

// ActivityThreshold is the number of words that makes a calendar day active.
const ActivityThreshold = 5

// Outcome names the branch an evaluation took.
type Outcome int

const (
	// Pending: below threshold, but today or yesterday still covers the streak.
	Pending Outcome = iota
	// AlreadyCredited: today was already counted.
	AlreadyCredited
	// Extended: consecutive day, streak incremented.
	Extended
	// Started: first active day ever.
	Started
	// Restarted: active again after a gap; streak back to 1.
	Restarted
	// Broken: below threshold after a gap of two or more days; streak zeroed.
	Broken
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case AlreadyCredited:
		return "already_credited"
	case Extended:
		return "extended"
	case Started:
		return "started"
	case Restarted:
		return "restarted"
	case Broken:
		return "broken"
	default:
		return "unknown"
	}
}

// Active reports whether the outcome means today met the threshold.
func (o Outcome) Active() bool {
	switch o {
	case AlreadyCredited, Extended, Started, Restarted:
		return true
	}
	return false
}

// Next is the transition function. It is total: every input maps to a state.
func Next(state models.StreakState, todayCount int, today models.Date) (models.StreakState, Outcome) {
	yesterday := today.AddDays(-1)
	last := state.LastActiveDate

	if todayCount >= ActivityThreshold {
		switch {
		case last.Is(today):
			return state, AlreadyCredited
		case last.Is(yesterday):
			return models.StreakState{Streak: state.Streak + 1, LastActiveDate: models.SomeDate(today)}, Extended
		case !last.Valid:
			return models.StreakState{Streak: 1, LastActiveDate: models.SomeDate(today)}, Started
		default:
			return models.StreakState{Streak: 1, LastActiveDate: models.SomeDate(today)}, Restarted
		}
	}

	if !last.Valid || last.Is(today) || last.Is(yesterday) {
		return state, Pending
	}
	// last_active_date is deliberately left stale here.
	return models.StreakState{Streak: 0, LastActiveDate: last}, Broken
}
