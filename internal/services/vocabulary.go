package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AnshRaj112/wordstreak-backend/internal/ledger"
	"github.com/AnshRaj112/wordstreak-backend/internal/logging"
	"github.com/AnshRaj112/wordstreak-backend/internal/models"
	"github.com/AnshRaj112/wordstreak-backend/internal/streak"
	"github.com/AnshRaj112/wordstreak-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// ErrInvalidInput is returned when a required field is missing.
var ErrInvalidInput = errors.New("invalid input")

// AddWordInput is the user-submitted word.
type AddWordInput struct {
	GermanWord string
	Meaning    string
	Example    string
}

// AddWordResult carries the stored word and what the streak did.
type AddWordResult struct {
	Word   models.WordEntry
	Streak streak.Result
}

// VocabularyService is the application-facing API: it runs the ledger write
// and the streak evaluation for one word as a single transaction.
type VocabularyService struct {
	db     *sqlx.DB
	engine *streak.Engine
	cache  *CacheService
	clock  Clock
	logger *logrus.Entry
}

func NewVocabularyService(db *sqlx.DB, cache *CacheService, clock Clock, logger *logrus.Entry) *VocabularyService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &VocabularyService{
		db:     db,
		engine: streak.NewEngine(logger),
		cache:  cache,
		clock:  clock,
		logger: logger,
	}
}

func (s *VocabularyService) store() *ledger.Store {
	return ledger.New(s.db, s.logger)
}

// Today is the date the service currently considers "today".
func (s *VocabularyService) Today() models.Date {
	return s.clock.Today()
}

// EnsureDefaultUser returns the single implicit user, creating it on first run.
func (s *VocabularyService) EnsureDefaultUser(ctx context.Context, name string) (models.User, error) {
	return s.store().EnsureDefaultUser(ctx, name)
}

// AddWord records a word dated today and re-evaluates the streak.
func (s *VocabularyService) AddWord(ctx context.Context, userID uuid.UUID, in AddWordInput) (AddWordResult, error) {
	return s.AddWordOn(ctx, userID, in, s.clock.Today())
}

// AddWordOn is AddWord with an explicit calendar date.
func (s *VocabularyService) AddWordOn(ctx context.Context, userID uuid.UUID, in AddWordInput, today models.Date) (AddWordResult, error) {
	if err := utils.ValidateWordInput(in.GermanWord, in.Meaning, in.Example); err != nil {
		return AddWordResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	word := strings.TrimSpace(in.GermanWord)
	meaning := strings.TrimSpace(in.Meaning)
	var example *string
	if ex := strings.TrimSpace(in.Example); ex != "" {
		example = &ex
	}

	var res AddWordResult
	err := ledger.RunInTx(ctx, s.db, s.logger, func(l *ledger.Store) error {
		entry, err := l.RecordWord(ctx, userID, word, meaning, example, today)
		if err != nil {
			return err
		}
		sr, err := s.engine.Evaluate(ctx, l, userID, today)
		if err != nil {
			return err
		}
		res = AddWordResult{Word: entry, Streak: sr}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ledger.ErrDuplicateWord) {
			s.logger.WithError(err).WithField("user_id", userID).Error("Failed to add word")
		}
		return AddWordResult{}, err
	}

	s.cache.invalidateSummary(ctx, userID)
	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"word_id":     res.Word.ID,
		"today_count": res.Streak.TodayCount,
		"outcome":     res.Streak.Outcome.String(),
		"streak":      res.Streak.After.Streak,
	}).Info("Word added")
	return res, nil
}

// EvaluateStreak re-checks the streak for today without adding a word.
// AddWord already evaluates after every insert, so the HTTP layer never
// calls this; it serves maintenance jobs and shows what a day with no new
// words does to the state (a missed day breaks the streak).
func (s *VocabularyService) EvaluateStreak(ctx context.Context, userID uuid.UUID, today models.Date) (streak.Result, error) {
	var res streak.Result
	err := ledger.RunInTx(ctx, s.db, s.logger, func(l *ledger.Store) error {
		var err error
		res, err = s.engine.Evaluate(ctx, l, userID, today)
		return err
	})
	if err != nil {
		return streak.Result{}, err
	}
	s.cache.invalidateSummary(ctx, userID)
	return res, nil
}

// DeleteWord removes a word. Deleting a missing word is not an error.
// The streak is not re-evaluated; credited days stay credited.
func (s *VocabularyService) DeleteWord(ctx context.Context, userID uuid.UUID, wordID int64) (bool, error) {
	removed, err := s.store().DeleteWord(ctx, userID, wordID)
	if err != nil {
		return false, err
	}
	if removed {
		s.cache.invalidateSummary(ctx, userID)
	}
	return removed, nil
}

// ListWords returns all of the user's words, newest first.
func (s *VocabularyService) ListWords(ctx context.Context, userID uuid.UUID) ([]models.WordEntry, error) {
	return s.store().ListWords(ctx, userID)
}

// StreakState returns the current (streak, last_active_date) pair.
func (s *VocabularyService) StreakState(ctx context.Context, userID uuid.UUID) (models.StreakState, error) {
	u, err := s.store().GetUser(ctx, userID)
	if err != nil {
		return models.StreakState{}, err
	}
	return u.State(), nil
}

// ActiveDates returns every date that met the daily threshold.
func (s *VocabularyService) ActiveDates(ctx context.Context, userID uuid.UUID) ([]models.Date, error) {
	return s.store().ActiveDates(ctx, userID)
}

// TodayCount returns how many words were added today.
func (s *VocabularyService) TodayCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store().CountForDate(ctx, userID, s.clock.Today())
}

// Summary returns the dashboard view of the streak, cached per day.
func (s *VocabularyService) Summary(ctx context.Context, userID uuid.UUID) (models.StreakSummary, error) {
	today := s.clock.Today()
	if cached, ok := s.cache.cachedSummary(ctx, userID, today); ok {
		return cached, nil
	}

	st := s.store()
	u, err := st.GetUser(ctx, userID)
	if err != nil {
		return models.StreakSummary{}, err
	}
	count, err := st.CountForDate(ctx, userID, today)
	if err != nil {
		return models.StreakSummary{}, err
	}

	summary := models.StreakSummary{
		Streak:         u.Streak,
		LastActiveDate: u.LastActiveDate,
		TodayCount:     count,
		Threshold:      streak.ActivityThreshold,
		TodayActive:    u.LastActiveDate.Is(today),
		Today:          today,
	}
	s.cache.storeSummary(ctx, userID, summary)
	return summary, nil
}

// AtRisk describes a user whose streak ends tonight unless they add more words.
type AtRisk struct {
	User       models.User
	TodayCount int
	Remaining  int
}

// StreakAtRisk lists users who were active yesterday but haven't reached the
// threshold today. It never changes any state.
func (s *VocabularyService) StreakAtRisk(ctx context.Context, today models.Date) ([]AtRisk, error) {
	st := s.store()
	users, err := st.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var out []AtRisk
	for _, u := range users {
		if u.Streak == 0 || !u.LastActiveDate.Is(today.AddDays(-1)) {
			continue
		}
		count, err := st.CountForDate(ctx, u.ID, today)
		if err != nil {
			return nil, err
		}
		if count >= streak.ActivityThreshold {
			continue
		}
		out = append(out, AtRisk{User: u, TodayCount: count, Remaining: streak.ActivityThreshold - count})
	}
	return out, nil
}
