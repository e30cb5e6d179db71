package streak

import (
	"testing"

	"github.com/AnshRaj112/wordstreak-backend/internal/models"
)

var (
	today     = models.MustParseDate("2024-03-10")
	yesterday = today.AddDays(-1)
)

func state(streak int, last string) models.StreakState {
	if last == "" {
		return models.StreakState{Streak: streak}
	}
	return models.StreakState{Streak: streak, LastActiveDate: models.SomeDate(models.MustParseDate(last))}
}

func TestNext(t *testing.T) {
	cases := []struct {
		name    string
		in      models.StreakState
		count   int
		want    models.StreakState
		outcome Outcome
	}{
		// at or above threshold
		{"first ever active day", state(0, ""), 5, state(1, "2024-03-10"), Started},
		{"consecutive day", state(3, "2024-03-09"), 5, state(4, "2024-03-10"), Extended},
		{"already credited today", state(3, "2024-03-10"), 7, state(3, "2024-03-10"), AlreadyCredited},
		{"gap of two days", state(6, "2024-03-08"), 5, state(1, "2024-03-10"), Restarted},
		{"gap of three days", state(2, "2024-03-07"), 9, state(1, "2024-03-10"), Restarted},
		{"last active in the future", state(4, "2024-03-12"), 5, state(1, "2024-03-10"), Restarted},
		{"zeroed streak after reset, stale yesterday", state(0, "2024-03-09"), 5, state(1, "2024-03-10"), Extended},

		// below threshold
		{"nothing yet", state(0, ""), 4, state(0, ""), Pending},
		{"no words at all", state(0, ""), 0, state(0, ""), Pending},
		{"grace after yesterday", state(2, "2024-03-09"), 3, state(2, "2024-03-09"), Pending},
		{"today already credited", state(2, "2024-03-10"), 1, state(2, "2024-03-10"), Pending},
		{"gap breaks streak", state(5, "2024-03-08"), 4, state(0, "2024-03-08"), Broken},
		{"already broken stays broken", state(0, "2024-03-01"), 2, state(0, "2024-03-01"), Broken},
		{"future date below threshold", state(1, "2024-03-20"), 1, state(0, "2024-03-20"), Broken},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, outcome := Next(c.in, c.count, today)
			if !got.Equal(c.want) {
				t.Errorf("Next(%+v, %d) = %+v, want %+v", c.in, c.count, got, c.want)
			}
			if outcome != c.outcome {
				t.Errorf("outcome = %s, want %s", outcome, c.outcome)
			}
		})
	}
}

func TestNextThresholdBoundary(t *testing.T) {
	start := state(0, "")
	if got, o := Next(start, ActivityThreshold-1, today); !got.Equal(start) || o != Pending {
		t.Fatalf("count %d must not change state, got %+v (%s)", ActivityThreshold-1, got, o)
	}
	if got, o := Next(start, ActivityThreshold, today); got.Streak != 1 || o != Started {
		t.Fatalf("count %d must start the streak, got %+v (%s)", ActivityThreshold, got, o)
	}
}

func TestNextConsecutiveAndGapProperties(t *testing.T) {
	d := models.MustParseDate("2023-12-30")
	for s := 0; s < 10; s++ {
		in := models.StreakState{Streak: s, LastActiveDate: models.SomeDate(d)}

		got, _ := Next(in, ActivityThreshold, d.AddDays(1))
		if got.Streak != s+1 || !got.LastActiveDate.Is(d.AddDays(1)) {
			t.Errorf("consecutive from streak %d: got %+v", s, got)
		}

		got, _ = Next(in, ActivityThreshold, d.AddDays(3))
		if got.Streak != 1 || !got.LastActiveDate.Is(d.AddDays(3)) {
			t.Errorf("gap from streak %d: got %+v", s, got)
		}
	}
}

func TestNextIsIdempotentForSameDay(t *testing.T) {
	starts := []models.StreakState{
		state(0, ""), state(3, "2024-03-09"), state(2, "2024-03-05"), state(1, "2024-03-10"),
	}
	for _, s := range starts {
		for count := 0; count <= ActivityThreshold+1; count++ {
			once, _ := Next(s, count, today)
			twice, _ := Next(once, count, today)
			if !once.Equal(twice) {
				t.Errorf("start %+v count %d: once %+v, twice %+v", s, count, once, twice)
			}
		}
	}
}

// Walk every combination of a few days and counts and check that the state
// never has a streak without an active date.
func TestNextPreservesInvariant(t *testing.T) {
	base := models.MustParseDate("2024-01-01")
	var walk func(s models.StreakState, day int, depth int)
	walk = func(s models.StreakState, day int, depth int) {
		if !s.Consistent() {
			t.Fatalf("inconsistent state %+v", s)
		}
		if depth == 0 {
			return
		}
		for _, step := range []int{0, 1, 2, 3} {
			for _, count := range []int{0, 4, 5} {
				next, _ := Next(s, count, base.AddDays(day+step))
				walk(next, day+step, depth-1)
			}
		}
	}
	walk(models.StreakState{}, 0, 4)
}

func TestOutcomeString(t *testing.T) {
	for o := Pending; o <= Broken; o++ {
		if o.String() == "unknown" {
			t.Errorf("outcome %d has no name", o)
		}
	}
	if Outcome(99).String() != "unknown" {
		t.Errorf("expected unknown for out-of-range outcome")
	}
}
