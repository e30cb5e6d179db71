package streak

import (
	"context"
	"errors"
	"testing"

	"github.com/AnshRaj112/wordstreak-backend/internal/logging"
	"github.com/AnshRaj112/wordstreak-backend/internal/models"
	"github.com/google/uuid"
)

// memLedger is an in-memory Ledger for exercising Evaluate without a database.
type memLedger struct {
	user   models.User
	counts map[string]int
	active map[string]bool
	saves  int
	err    error
}

func newMemLedger() *memLedger {
	return &memLedger{
		user:   models.User{ID: uuid.New(), Name: "Learner"},
		counts: map[string]int{},
		active: map[string]bool{},
	}
}

func (m *memLedger) LockUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	if m.err != nil {
		return models.User{}, m.err
	}
	return m.user, nil
}

func (m *memLedger) CountForDate(ctx context.Context, id uuid.UUID, d models.Date) (int, error) {
	return m.counts[d.String()], nil
}

func (m *memLedger) MarkActive(ctx context.Context, id uuid.UUID, d models.Date) error {
	m.active[d.String()] = true
	return nil
}

func (m *memLedger) SaveStreak(ctx context.Context, id uuid.UUID, s models.StreakState) error {
	m.saves++
	m.user.Streak = s.Streak
	m.user.LastActiveDate = s.LastActiveDate
	return nil
}

// addWords simulates n word additions on d, evaluating after each one.
func addWords(t *testing.T, e *Engine, l *memLedger, d models.Date, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		l.counts[d.String()]++
		if _, err := e.Evaluate(context.Background(), l, l.user.ID, d); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
}

func assertState(t *testing.T, l *memLedger, streak int, last models.Date) {
	t.Helper()
	if l.user.Streak != streak || !l.user.LastActiveDate.Is(last) {
		t.Fatalf("expected (%s, %d), got (%s, %d)", last, streak, l.user.LastActiveDate, l.user.Streak)
	}
}

func TestEvaluateScenarioWithSkippedDay(t *testing.T) {
	e := NewEngine(logging.Discard())
	l := newMemLedger()
	day1 := models.MustParseDate("2024-05-01")
	day2, day4 := day1.AddDays(1), day1.AddDays(3)

	addWords(t, e, l, day1, 5)
	assertState(t, l, 1, day1)

	addWords(t, e, l, day2, 5)
	assertState(t, l, 2, day2)

	addWords(t, e, l, day4, 5)
	assertState(t, l, 1, day4)

	for _, d := range []models.Date{day1, day2, day4} {
		if !l.active[d.String()] {
			t.Errorf("expected %s in active dates", d)
		}
	}
	if len(l.active) != 3 {
		t.Errorf("expected 3 active dates, got %v", l.active)
	}
}

func TestEvaluateScenarioGraceThenBreak(t *testing.T) {
	e := NewEngine(logging.Discard())
	l := newMemLedger()
	day1 := models.MustParseDate("2024-05-01")

	addWords(t, e, l, day1, 5)
	assertState(t, l, 1, day1)

	addWords(t, e, l, day1.AddDays(1), 3)
	assertState(t, l, 1, day1)

	// No new words on day 3; an evaluation still sees the gap.
	if _, err := e.Evaluate(context.Background(), l, l.user.ID, day1.AddDays(2)); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	assertState(t, l, 0, day1)
	if len(l.active) != 1 {
		t.Fatalf("only day 1 should be active, got %v", l.active)
	}
}

func TestEvaluateCountsFromLedgerNotCalls(t *testing.T) {
	e := NewEngine(logging.Discard())
	l := newMemLedger()
	d := models.MustParseDate("2024-05-01")

	// Five words already on record; a single evaluation must credit the day.
	l.counts[d.String()] = 5
	res, err := e.Evaluate(context.Background(), l, l.user.ID, d)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Outcome != Started || res.TodayCount != 5 {
		t.Fatalf("unexpected result %+v", res)
	}
	assertState(t, l, 1, d)
}

func TestEvaluateIdempotent(t *testing.T) {
	e := NewEngine(logging.Discard())
	l := newMemLedger()
	d := models.MustParseDate("2024-05-01")
	l.counts[d.String()] = 6

	first, err := e.Evaluate(context.Background(), l, l.user.ID, d)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	saves := l.saves
	second, err := e.Evaluate(context.Background(), l, l.user.ID, d)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !first.After.Equal(second.After) {
		t.Fatalf("second evaluation changed state: %+v -> %+v", first.After, second.After)
	}
	if l.saves != saves {
		t.Fatalf("unchanged state should not be written again")
	}
	if second.Outcome != AlreadyCredited {
		t.Fatalf("expected already_credited, got %s", second.Outcome)
	}
}

func TestEvaluatePropagatesLedgerErrors(t *testing.T) {
	e := NewEngine(nil)
	l := newMemLedger()
	l.err = errors.New("disk on fire")
	if _, err := e.Evaluate(context.Background(), l, l.user.ID, models.MustParseDate("2024-05-01")); !errors.Is(err, l.err) {
		t.Fatalf("expected ledger error, got %v", err)
	}
}
