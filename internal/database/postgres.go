package database

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		streak INTEGER NOT NULL DEFAULT 0,
		last_active_date DATE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		CHECK (streak >= 0),
		CHECK (streak = 0 OR last_active_date IS NOT NULL)
	)`,

	`CREATE TABLE IF NOT EXISTS words (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		german_word TEXT NOT NULL,
		word_key TEXT NOT NULL,
		meaning TEXT NOT NULL,
		example TEXT,
		date_added DATE NOT NULL,
		UNIQUE(user_id, word_key)
	)`,

	`CREATE TABLE IF NOT EXISTS streak_dates (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		active_date DATE NOT NULL,
		UNIQUE(user_id, active_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_words_user_date_added ON words(user_id, date_added)`,
	`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at)`,
}
