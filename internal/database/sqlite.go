package database

// Dates are TEXT columns holding YYYY-MM-DD so the driver hands them back as
// strings instead of guessing a time.Time.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		streak INTEGER NOT NULL DEFAULT 0,
		last_active_date TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (streak >= 0),
		CHECK (streak = 0 OR last_active_date IS NOT NULL)
	)`,

	`CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		german_word TEXT NOT NULL,
		word_key TEXT NOT NULL,
		meaning TEXT NOT NULL,
		example TEXT,
		date_added TEXT NOT NULL,
		UNIQUE(user_id, word_key)
	)`,

	`CREATE TABLE IF NOT EXISTS streak_dates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		active_date TEXT NOT NULL,
		UNIQUE(user_id, active_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_words_user_date_added ON words(user_id, date_added)`,
	`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at)`,
}
