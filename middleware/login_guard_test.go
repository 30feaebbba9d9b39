package middleware

import (
	"testing"
	"time"
)

var guardNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluateFreeze_BelowThreshold(t *testing.T) {
	state, reset := evaluateFreeze(3, guardNow.Add(-time.Minute), guardNow)
	if state != FreezeNone || reset {
		t.Fatalf("3 attempts should not freeze, got state=%v reset=%v", state, reset)
	}
}

func TestEvaluateFreeze_FourthAttemptInsideShortWindow(t *testing.T) {
	state, reset := evaluateFreeze(4, guardNow.Add(-time.Hour), guardNow)
	if state != FreezeShort {
		t.Fatalf("expected short freeze, got %v", state)
	}
	if reset {
		t.Error("freeze must not reset the counter")
	}
}

func TestEvaluateFreeze_ShortWindowElapsedResets(t *testing.T) {
	state, reset := evaluateFreeze(4, guardNow.Add(-ShortFreeze-time.Minute), guardNow)
	if state != FreezeNone {
		t.Fatalf("elapsed short window should not freeze, got %v", state)
	}
	if !reset {
		t.Error("elapsed window must reset the counter before credentials are evaluated")
	}
}

func TestEvaluateFreeze_LongWindowTakesPriority(t *testing.T) {
	// 7 failures 6 hours ago: past the short window, still inside the long one.
	state, reset := evaluateFreeze(7, guardNow.Add(-6*time.Hour), guardNow)
	if state != FreezeLong || reset {
		t.Fatalf("expected long freeze, got state=%v reset=%v", state, reset)
	}
}

func TestEvaluateFreeze_LongWindowElapsedResets(t *testing.T) {
	state, reset := evaluateFreeze(7, guardNow.Add(-LongFreeze-time.Minute), guardNow)
	if state != FreezeNone || !reset {
		t.Fatalf("elapsed long window should reset, got state=%v reset=%v", state, reset)
	}
}

func TestEvaluateFreeze_LegacyRowWithoutTimestamp(t *testing.T) {
	state, reset := evaluateFreeze(50, time.Time{}, guardNow)
	if state != FreezeNone || reset {
		t.Fatalf("legacy rows never freeze, got state=%v reset=%v", state, reset)
	}
}

func TestFreezeMessage(t *testing.T) {
	if FreezeMessage(FreezeNone) != "" {
		t.Error("no message expected for FreezeNone")
	}
	if FreezeMessage(FreezeShort) == "" || FreezeMessage(FreezeLong) == "" {
		t.Error("freeze states must carry a user-facing message")
	}
}
