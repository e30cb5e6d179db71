package streak

import (
	"context"
	"fmt"

	"github.com/AnshRaj112/wordstreak-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Ledger is the slice of the activity ledger the engine reads and writes.
// Callers pass a ledger bound to the same transaction as the word insert.
type Ledger interface {
	LockUser(ctx context.Context, userID uuid.UUID) (models.User, error)
	CountForDate(ctx context.Context, userID uuid.UUID, date models.Date) (int, error)
	MarkActive(ctx context.Context, userID uuid.UUID, date models.Date) error
	SaveStreak(ctx context.Context, userID uuid.UUID, state models.StreakState) error
}

// Engine applies Next against a ledger.
type Engine struct {
	logger *logrus.Entry
}

func NewEngine(logger *logrus.Entry) *Engine {
	return &Engine{logger: logger}
}

// Result is the outcome of one evaluation.
type Result struct {
	Before     models.StreakState
	After      models.StreakState
	TodayCount int
	Outcome    Outcome
}

// Evaluate re-derives today's count from the ledger, records today as active
// when it meets the threshold and persists the next streak state. Running it
// twice for the same day without new words leaves the state unchanged.
func (e *Engine) Evaluate(ctx context.Context, l Ledger, userID uuid.UUID, today models.Date) (Result, error) {
	user, err := l.LockUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	count, err := l.CountForDate(ctx, userID, today)
	if err != nil {
		return Result{}, err
	}

	before := user.State()
	after, outcome := Next(before, count, today)

	if outcome.Active() {
		if err := l.MarkActive(ctx, userID, today); err != nil {
			return Result{}, err
		}
	}
	if !after.Equal(before) {
		if err := l.SaveStreak(ctx, userID, after); err != nil {
			return Result{}, fmt.Errorf("persist streak: %w", err)
		}
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"user_id":     userID,
			"today":       today.String(),
			"today_count": count,
			"outcome":     outcome.String(),
			"streak":      after.Streak,
			"last_active": after.LastActiveDate.String(),
		}).Debug("Streak evaluated")
	}

	return Result{Before: before, After: after, TodayCount: count, Outcome: outcome}, nil
}
