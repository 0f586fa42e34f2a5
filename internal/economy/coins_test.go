package economy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCoinsForScore(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		score    int64
		expected int64
	}{
		{"zero score earns minimum", 0, 1},
		{"score 1 earns minimum", 1, 1},
		{"score 5 earns minimum", 5, 1},
		{"score 9 earns minimum", 9, 1},
		{"score 10 earns 1", 10, 1},
		{"score 100 earns 10", 100, 10},
		{"score 105 truncates", 105, 10},
		{"score 999 earns 99", 999, 99},
		{"negative score earns minimum", -50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rules.CoinsForScore(tt.score))
		})
	}
}

// Property: for all scores s >= 0, coins = max(1, s/10).
func TestCoinsForScoreProperty(t *testing.T) {
	rules := DefaultRules()

	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.Int64Range(0, 1_000_000).Draw(rt, "score")

		coins := rules.CoinsForScore(score)

		expected := score / 10
		if expected < 1 {
			expected = 1
		}
		if coins != expected {
			rt.Fatalf("score %d: got %d coins, want %d", score, coins, expected)
		}
	})
}

func TestBonusForStreak(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		streak   int
		expected int64
	}{
		{"streak 1", 1, 15},
		{"streak 2", 2, 20},
		{"streak 7", 7, 45},
		{"streak 8 hits cap", 8, 50},
		{"streak 100 stays capped", 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rules.BonusForStreak(tt.streak))
		})
	}
}

// Property: the bonus is monotonically non-decreasing in streak and never
// exceeds the cap.
func TestBonusCapProperty(t *testing.T) {
	rules := DefaultRules()

	rapid.Check(t, func(rt *rapid.T) {
		streak := rapid.IntRange(1, 10_000).Draw(rt, "streak")

		bonus := rules.BonusForStreak(streak)
		if bonus > rules.BonusCap {
			rt.Fatalf("streak %d: bonus %d exceeds cap %d", streak, bonus, rules.BonusCap)
		}
		if bonus < rules.BonusForStreak(streak-1) && streak > 1 {
			rt.Fatalf("streak %d: bonus decreased", streak)
		}
	})
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		lastLogin  string
		streak     int
		wantStreak int
		wantClaim  bool
	}{
		{"already claimed today", "2025-06-15", 3, 3, false},
		{"consecutive day increments", "2025-06-14", 1, 2, true},
		{"consecutive day long streak", "2025-06-14", 9, 10, true},
		{"two day gap resets", "2025-06-13", 5, 1, true},
		{"never logged in resets", "", 0, 1, true},
		{"future date resets", "2025-06-20", 4, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, claim := NextStreak(tt.lastLogin, tt.streak, now)
			assert.Equal(t, tt.wantStreak, streak)
			assert.Equal(t, tt.wantClaim, claim)
		})
	}
}

// Worked examples: yesterday with streak 1 pays 20, a reset pays 15.
func TestDailyBonusExamples(t *testing.T) {
	rules := DefaultRules()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	streak, claim := NextStreak("2025-06-14", 1, now)
	assert.True(t, claim)
	assert.Equal(t, 2, streak)
	assert.Equal(t, int64(20), rules.BonusForStreak(streak))

	streak, claim = NextStreak("2025-06-01", 7, now)
	assert.True(t, claim)
	assert.Equal(t, 1, streak)
	assert.Equal(t, int64(15), rules.BonusForStreak(streak))
}
