package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the learner whose streak is being tracked.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Streak         int       `db:"streak" json:"streak"`
	LastActiveDate NullDate  `db:"last_active_date" json:"last_active_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// State returns the streak portion of the user row.
func (u User) State() StreakState {
	return StreakState{Streak: u.Streak, LastActiveDate: u.LastActiveDate}
}

// StreakState is the pair the streak engine transitions on.
type StreakState struct {
	Streak         int      `json:"streak"`
	LastActiveDate NullDate `json:"last_active_date"`
}

// Equal compares two states by value.
func (s StreakState) Equal(o StreakState) bool {
	if s.Streak != o.Streak || s.LastActiveDate.Valid != o.LastActiveDate.Valid {
		return false
	}
	return !s.LastActiveDate.Valid || s.LastActiveDate.Date.Equal(o.LastActiveDate.Date)
}

// Consistent reports whether the state satisfies streak == 0 when no
// active date has ever been recorded.
func (s StreakState) Consistent() bool {
	if s.Streak < 0 {
		return false
	}
	return s.LastActiveDate.Valid || s.Streak == 0
}
