package models

import (
	"github.com/google/uuid"
)

// WordEntry is a single vocabulary item the user has recorded.
type WordEntry struct {
	ID         int64     `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"-"`
	GermanWord string    `db:"german_word" json:"german_word"`
	WordKey    string    `db:"word_key" json:"-"` // case-folded german_word, unique per user
	Meaning    string    `db:"meaning" json:"meaning"`
	Example    *string   `db:"example" json:"example"`
	DateAdded  Date      `db:"date_added" json:"date_added"`
}

// StreakSummary is what the dashboard and streak pages display.
type StreakSummary struct {
	Streak         int      `json:"streak"`
	LastActiveDate NullDate `json:"last_active_date"`
	TodayCount     int      `json:"today_count"`
	Threshold      int      `json:"threshold"`
	TodayActive    bool     `json:"today_active"`
	Today          Date     `json:"today"`
}
