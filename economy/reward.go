package economy

import "math"

const (
	// RewardPercentage is the share of a request's escrowed cost paid out to
	// the accepted solver.
	RewardPercentage = 0.8

	// LevelUpBonus is granted once per settlement when the solver's level
	// increases, no matter how many level boundaries the reward crossed.
	LevelUpBonus = 300

	// XPPerLevel: level = floor(xp/XPPerLevel) + 1.
	XPPerLevel = 100

	// SignupGrant is credited to every new account so it can post a first
	// request. TopupAmount is the wallet topup quantum.
	SignupGrant = 100
	TopupAmount = 100
)

// Reward returns the coin payout for accepting a solution on a request with
// the given cost.
func Reward(cost int64) int64 {
	return int64(math.Round(float64(cost) * RewardPercentage))
}

// Level returns the level implied by an XP total.
func Level(xp int64) int {
	return int(xp/XPPerLevel) + 1
}

// Settlement is the full outcome of accepting a solution for one solver.
type Settlement struct {
	Reward    int64
	NewXP     int64
	NewLevel  int
	Payout    int64
	LeveledUp bool
}

// Settle computes what accepting a solution pays a solver who currently has
// the given xp and level. Payout is Reward plus, when the new level exceeds
// the current one, a single flat LevelUpBonus.
func Settle(cost, xp int64, level int) Settlement {
	reward := Reward(cost)
	newXP := xp + reward
	newLevel := Level(newXP)

	s := Settlement{
		Reward:   reward,
		NewXP:    newXP,
		NewLevel: newLevel,
		Payout:   reward,
	}
	if newLevel > level {
		s.LeveledUp = true
		s.Payout += LevelUpBonus
	}
	return s
}
