// Package economy implements the coin-earning and daily-bonus formulas.
// All functions are pure; persistence is the repository layer's job.
package economy

import "time"

// DateLayout is the calendar-date format stored in users.last_login_date.
// Dates are naive UTC day strings; no timezone normalization is applied.
const DateLayout = "2006-01-02"

// Rules holds the tunable economy constants.
type Rules struct {
	ScoreDivisor   int64
	BonusBase      int64
	BonusPerStreak int64
	BonusCap       int64
}

// DefaultRules returns the production constants: 1 coin per 10 points,
// daily bonus 10 + streak*5 capped at 50.
func DefaultRules() Rules {
	return Rules{
		ScoreDivisor:   10,
		BonusBase:      10,
		BonusPerStreak: 5,
		BonusCap:       50,
	}
}

// CoinsForScore returns the coins earned for a game score.
// Every play earns at least 1 coin; negative scores count as zero.
func (r Rules) CoinsForScore(score int64) int64 {
	if score < 0 {
		score = 0
	}
	coins := score / r.ScoreDivisor
	if coins < 1 {
		return 1
	}
	return coins
}

// BonusForStreak returns the daily bonus for a login streak.
func (r Rules) BonusForStreak(streak int) int64 {
	bonus := r.BonusBase + int64(streak)*r.BonusPerStreak
	if bonus > r.BonusCap {
		return r.BonusCap
	}
	return bonus
}

// NextStreak decides the daily-bonus transition for a login happening at
// now, given the stored last-login date and streak. It returns the new
// streak value and whether a bonus should be claimed:
//   - same calendar day: no claim, streak unchanged
//   - exactly one day earlier: claim, streak incremented
//   - anything else (including no prior login): claim, streak reset to 1
func NextStreak(lastLoginDate string, streak int, now time.Time) (int, bool) {
	today := now.UTC().Format(DateLayout)
	if lastLoginDate == today {
		return streak, false
	}

	yesterday := now.UTC().AddDate(0, 0, -1).Format(DateLayout)
	if lastLoginDate == yesterday {
		return streak + 1, true
	}
	return 1, true
}
