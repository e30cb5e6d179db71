package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/wordstreak-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Store is the activity ledger: words added, streak dates and the user row.
// It holds no policy. A Store is bound to either the database handle or a
// single transaction, see RunInTx.
type Store struct {
	ex     sqlx.ExtContext
	logger *logrus.Entry
}

// New binds a Store to ex, which may be a *sqlx.DB or a *sqlx.Tx.
func New(ex sqlx.ExtContext, logger *logrus.Entry) *Store {
	return &Store{ex: ex, logger: logger}
}

// RunInTx runs fn against a Store bound to a fresh transaction. The
// transaction commits only if fn returns nil.
func RunInTx(ctx context.Context, db *sqlx.DB, logger *logrus.Entry, fn func(*Store) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if err := fn(New(tx, logger)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) isPostgres() bool {
	return s.ex.DriverName() == "postgres"
}

func (s *Store) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, s.ex, dest, s.ex.Rebind(query), args...)
}

func (s *Store) sel(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, s.ex, dest, s.ex.Rebind(query), args...)
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.ex.ExecContext(ctx, s.ex.Rebind(query), args...)
}

const userColumns = `id, name, streak, last_active_date, created_at`

// CreateUser inserts a user in the initial streak state (absent, 0).
func (s *Store) CreateUser(ctx context.Context, name string) (models.User, error) {
	u := models.User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if u.Name == "" {
		u.Name = "Learner"
	}
	_, err := s.exec(ctx,
		`INSERT INTO users (id, name, streak, last_active_date, created_at) VALUES (?, ?, 0, NULL, ?)`,
		u.ID, u.Name, u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// EnsureDefaultUser returns the oldest user, creating one named name if the
// table is empty.
func (s *Store) EnsureDefaultUser(ctx context.Context, name string) (models.User, error) {
	var u models.User
	err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT 1`)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("find default user: %w", err)
	}

	u, err = s.CreateUser(ctx, name)
	if err != nil {
		return models.User{}, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID, "name": u.Name}).Info("Created default user")
	}
	return u, nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	var u models.User
	err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// LockUser loads a user and, on PostgreSQL, locks the row until the
// surrounding transaction ends. SQLite transactions are opened IMMEDIATE,
// which already holds the database write lock.
func (s *Store) LockUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	if s.isPostgres() {
		query += ` FOR UPDATE`
	}
	var u models.User
	err := s.get(ctx, &u, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lock user: %w", err)
	}
	return u, nil
}

// ListUsers returns every user, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.sel(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SaveStreak persists the streak state of a user.
func (s *Store) SaveStreak(ctx context.Context, userID uuid.UUID, state models.StreakState) error {
	res, err := s.exec(ctx,
		`UPDATE users SET streak = ?, last_active_date = ? WHERE id = ?`,
		state.Streak, state.LastActiveDate, userID)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RecordWord stores a new word dated today. It fails with a
// *DuplicateWordError when the user already has the word under
// case-insensitive comparison.
func (s *Store) RecordWord(ctx context.Context, userID uuid.UUID, word, meaning string, example *string, today models.Date) (models.WordEntry, error) {
	entry := models.WordEntry{
		UserID:     userID,
		GermanWord: strings.TrimSpace(word),
		WordKey:    WordKey(word),
		Meaning:    strings.TrimSpace(meaning),
		Example:    example,
		DateAdded:  today,
	}

	var existing int64
	err := s.get(ctx, &existing, `SELECT id FROM words WHERE user_id = ? AND word_key = ?`, userID, entry.WordKey)
	if err == nil {
		return models.WordEntry{}, &DuplicateWordError{Word: entry.GermanWord}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.WordEntry{}, fmt.Errorf("check duplicate word: %w", err)
	}

	err = s.get(ctx, &entry.ID,
		`INSERT INTO words (user_id, german_word, word_key, meaning, example, date_added)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		userID, entry.GermanWord, entry.WordKey, entry.Meaning, entry.Example, entry.DateAdded)
	if err != nil {
		// A concurrent insert of the same word loses on the unique index.
		if isUniqueViolation(err) {
			return models.WordEntry{}, &DuplicateWordError{Word: entry.GermanWord}
		}
		return models.WordEntry{}, fmt.Errorf("insert word: %w", err)
	}
	return entry, nil
}

// CountForDate returns how many words the user added on date.
func (s *Store) CountForDate(ctx context.Context, userID uuid.UUID, date models.Date) (int, error) {
	var n int
	if err := s.get(ctx, &n, `SELECT COUNT(*) FROM words WHERE user_id = ? AND date_added = ?`, userID, date); err != nil {
		return 0, fmt.Errorf("count words for %s: %w", date, err)
	}
	return n, nil
}

// WordCount returns the total number of live words of the user.
func (s *Store) WordCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := s.get(ctx, &n, `SELECT COUNT(*) FROM words WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

// ListWords returns the user's words, most recently added first.
func (s *Store) ListWords(ctx context.Context, userID uuid.UUID) ([]models.WordEntry, error) {
	words := []models.WordEntry{}
	err := s.sel(ctx, &words,
		`SELECT id, user_id, german_word, word_key, meaning, example, date_added
		 FROM words WHERE user_id = ? ORDER BY date_added DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

// DeleteWord removes the word if it belongs to the user. A missing id is not
// an error; the returned bool says whether a row was removed.
func (s *Store) DeleteWord(ctx context.Context, userID uuid.UUID, wordID int64) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM words WHERE id = ? AND user_id = ?`, wordID, userID)
	if err != nil {
		return false, fmt.Errorf("delete word: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete word: %w", err)
	}
	return n > 0, nil
}

// MarkActive adds date to the user's streak dates. Repeats are no-ops.
func (s *Store) MarkActive(ctx context.Context, userID uuid.UUID, date models.Date) error {
	_, err := s.exec(ctx,
		`INSERT INTO streak_dates (user_id, active_date) VALUES (?, ?)
		 ON CONFLICT (user_id, active_date) DO NOTHING`, userID, date)
	if err != nil {
		return fmt.Errorf("mark %s active: %w", date, err)
	}
	return nil
}

// ActiveDates returns every date on which the user met the daily threshold,
// in ascending order.
func (s *Store) ActiveDates(ctx context.Context, userID uuid.UUID) ([]models.Date, error) {
	dates := []models.Date{}
	if err := s.sel(ctx, &dates, `SELECT active_date FROM streak_dates WHERE user_id = ? ORDER BY active_date`, userID); err != nil {
		return nil, fmt.Errorf("list active dates: %w", err)
	}
	return dates, nil
}
