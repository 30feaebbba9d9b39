package economy

import "testing"

func TestReward(t *testing.T) {
	cases := []struct {
		cost, want int64
	}{
		{100, 80},
		{30, 24},
		{25, 20},
		{8, 6}, // round(6.4)
		{0, 0},
	}
	for _, c := range cases {
		if got := Reward(c.cost); got != c.want {
			t.Errorf("Reward(%d) = %d, want %d", c.cost, got, c.want)
		}
	}
}

func TestSettleNoLevelUp(t *testing.T) {
	s := Settle(25, 10, 1)
	if s.Reward != 20 || s.NewXP != 30 || s.NewLevel != 1 {
		t.Fatalf("unexpected settlement: %+v", s)
	}
	if s.LeveledUp || s.Payout != 20 {
		t.Errorf("no bonus expected, got payout %d (leveled=%v)", s.Payout, s.LeveledUp)
	}
}

func TestSettleMultiLevelJumpPaysOneBonus(t *testing.T) {
	// xp 950, level 9: an 80-coin reward lands at 1030 xp, level 11. Two
	// boundaries crossed, still a single flat bonus.
	s := Settle(100, 950, 9)
	if s.Reward != 80 {
		t.Fatalf("reward = %d, want 80", s.Reward)
	}
	if s.NewXP != 1030 || s.NewLevel != 11 {
		t.Fatalf("progress = xp %d level %d, want xp 1030 level 11", s.NewXP, s.NewLevel)
	}
	if !s.LeveledUp || s.Payout != 380 {
		t.Errorf("payout = %d (leveled=%v), want 380 with level-up", s.Payout, s.LeveledUp)
	}
}

func TestSettleSingleBoundary(t *testing.T) {
	// xp 90, level 1, reward 10 -> xp 100 is level 2 exactly.
	s := Settle(13, 90, 1) // round(13*0.8) = 10
	if s.Reward != 10 || s.NewXP != 100 || s.NewLevel != 2 {
		t.Fatalf("unexpected settlement: %+v", s)
	}
	if !s.LeveledUp || s.Payout != 310 {
		t.Errorf("payout = %d, want 310", s.Payout)
	}
}

func TestSettleLevelNeverDecreasesPayout(t *testing.T) {
	// A solver whose stored level is already above the xp-implied level gets
	// the plain reward, no bonus.
	s := Settle(100, 0, 5)
	if s.LeveledUp || s.Payout != 80 {
		t.Errorf("payout = %d (leveled=%v), want 80 without bonus", s.Payout, s.LeveledUp)
	}
}
