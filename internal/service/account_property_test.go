// Property-based tests for the daily bonus streak rules.
package service

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"brainrush/internal/economy"
)

// bonusState is a pure model of the login streak fields on a user row.
type bonusState struct {
	Streak        int
	LastLoginDate string
	Coins         int64
}

// Claim runs one daily bonus claim at the given instant, mirroring the
// service: consecutive days extend the streak, gaps reset it to 1, and a
// second claim on the same day is a no-op.
func (s *bonusState) Claim(rules economy.Rules, now time.Time) (int64, bool) {
	streak, claim := economy.NextStreak(s.LastLoginDate, s.Streak, now)
	if !claim {
		return 0, false
	}
	amount := rules.BonusForStreak(streak)
	s.Streak = streak
	s.LastLoginDate = now.UTC().Format(economy.DateLayout)
	s.Coins += amount
	return amount, true
}

// TestDailyBonusIdempotentPerDayProperty verifies that repeated claims on the
// same day award the bonus exactly once.
func TestDailyBonusIdempotentPerDayProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rules := economy.DefaultRules()
		state := &bonusState{}

		day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		day = day.AddDate(0, 0, rapid.IntRange(0, 365).Draw(rt, "dayOffset"))

		amount, claimed := state.Claim(rules, day)
		if !claimed {
			rt.Fatalf("first claim of the day should succeed")
		}
		if amount <= 0 {
			rt.Fatalf("bonus amount should be positive, got %d", amount)
		}
		coinsAfter := state.Coins
		streakAfter := state.Streak

		repeats := rapid.IntRange(1, 10).Draw(rt, "repeats")
		for i := 0; i < repeats; i++ {
			// Later the same day, any hour
			hour := rapid.IntRange(0, 23).Draw(rt, "hour")
			again := day.Add(time.Duration(hour) * time.Hour)
			if again.UTC().Format(economy.DateLayout) != day.UTC().Format(economy.DateLayout) {
				continue
			}
			_, claimed := state.Claim(rules, again)
			if claimed {
				rt.Fatalf("claim %d on the same day should be a no-op", i)
			}
			if state.Coins != coinsAfter || state.Streak != streakAfter {
				rt.Fatalf("no-op claim changed state: coins %d->%d, streak %d->%d",
					coinsAfter, state.Coins, streakAfter, state.Streak)
			}
		}
	})
}

// TestDailyBonusConsecutiveStreakProperty verifies that claiming on N
// consecutive days yields streak N, with each bonus following the
// base + perStreak*streak formula up to the cap.
func TestDailyBonusConsecutiveStreakProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rules := economy.DefaultRules()
		state := &bonusState{}

		days := rapid.IntRange(1, 30).Draw(rt, "days")
		start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

		var total int64
		for i := 0; i < days; i++ {
			amount, claimed := state.Claim(rules, start.AddDate(0, 0, i))
			if !claimed {
				rt.Fatalf("claim on day %d should succeed", i)
			}
			if state.Streak != i+1 {
				rt.Fatalf("streak after day %d should be %d, got %d", i, i+1, state.Streak)
			}
			want := rules.BonusForStreak(i + 1)
			if amount != want {
				rt.Fatalf("bonus on day %d should be %d, got %d", i, want, amount)
			}
			total += amount
		}

		if state.Coins != total {
			rt.Fatalf("coins should equal the sum of bonuses %d, got %d", total, state.Coins)
		}
	})
}

// TestDailyBonusGapResetsStreakProperty verifies that skipping one or more
// days resets the streak to 1.
func TestDailyBonusGapResetsStreakProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rules := economy.DefaultRules()
		state := &bonusState{}

		start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		runLength := rapid.IntRange(1, 10).Draw(rt, "runLength")
		for i := 0; i < runLength; i++ {
			state.Claim(rules, start.AddDate(0, 0, i))
		}
		if state.Streak != runLength {
			rt.Fatalf("streak should be %d before the gap, got %d", runLength, state.Streak)
		}

		gap := rapid.IntRange(2, 60).Draw(rt, "gap")
		amount, claimed := state.Claim(rules, start.AddDate(0, 0, runLength-1+gap))
		if !claimed {
			rt.Fatalf("claim after a gap should succeed")
		}
		if state.Streak != 1 {
			rt.Fatalf("streak after a %d-day gap should reset to 1, got %d", gap, state.Streak)
		}
		if want := rules.BonusForStreak(1); amount != want {
			rt.Fatalf("bonus after reset should be %d, got %d", want, amount)
		}
	})
}
