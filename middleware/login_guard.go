package middleware

import (
	"errors"
	"time"

	"github.com/codexrip/intellectra-hub/models"

	"gorm.io/gorm"
)

// Per-email login freeze state machine backed by the security_logs table.
// Two windows apply, long first: more than MaxFailedLong failures with the
// last attempt inside LongFreeze locks the account for the remainder of that
// window; otherwise more than MaxFailedShort failures inside ShortFreeze
// locks it for the remainder of the short window. A window that has elapsed
// resets the counter before credentials are evaluated.
//
// A successful login does not reset the counter; only elapsed windows do.
// That mirrors the system this replaces and is intentional until product
// decides otherwise.

var (
	MaxFailedShort = getEnvInt("LOGIN_MAX_FAILED_SHORT", 3)
	ShortFreeze    = getEnvDuration("LOGIN_SHORT_FREEZE_SEC", 5*time.Hour)
	MaxFailedLong  = getEnvInt("LOGIN_MAX_FAILED_LONG", 6)
	LongFreeze     = getEnvDuration("LOGIN_LONG_FREEZE_SEC", 24*time.Hour)
)

type FreezeState int

const (
	FreezeNone FreezeState = iota
	FreezeShort
	FreezeLong
)

// FreezeMessage is what the login endpoint reports for a frozen account.
func FreezeMessage(state FreezeState) string {
	switch state {
	case FreezeLong:
		return "Account frozen for 24 hours due to too many failed attempts. Try again later."
	case FreezeShort:
		return "Account frozen temporarily due to multiple failed login attempts. Please try again in a while."
	}
	return ""
}

// evaluateFreeze applies the long window, then the short one. It returns the
// freeze state and whether the stored counter should reset to zero. A zero
// lastAttempt (legacy rows without the column) never freezes.
func evaluateFreeze(failedAttempts int, lastAttempt, now time.Time) (FreezeState, bool) {
	if lastAttempt.IsZero() {
		return FreezeNone, false
	}
	elapsed := now.Sub(lastAttempt)

	if failedAttempts > MaxFailedLong {
		if elapsed < LongFreeze {
			return FreezeLong, false
		}
		return FreezeNone, true
	}
	if failedAttempts > MaxFailedShort {
		if elapsed < ShortFreeze {
			return FreezeShort, false
		}
		return FreezeNone, true
	}
	return FreezeNone, false
}

// CheckLoginFreeze reports whether the account behind email is currently
// frozen, applying elapsed-window counter resets as a side effect.
func CheckLoginFreeze(db *gorm.DB, email string, now time.Time) (FreezeState, error) {
	var row models.SecurityLog
	err := db.Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return FreezeNone, nil
	}
	if err != nil {
		return FreezeNone, err
	}

	last := time.Time{}
	if row.LastAttemptTime != nil {
		last = *row.LastAttemptTime
	}
	state, reset := evaluateFreeze(row.FailedAttempts, last, now)
	if reset {
		if err := db.Model(&models.SecurityLog{}).Where("id = ?", row.ID).
			Update("failed_attempts", 0).Error; err != nil {
			return FreezeNone, err
		}
	}
	return state, nil
}

// RecordFailedLogin bumps the failure counter for email and stamps the
// attempt time, creating the row on the first failure.
func RecordFailedLogin(db *gorm.DB, email string, now time.Time) error {
	res := db.Model(&models.SecurityLog{}).Where("email = ?", email).
		Updates(map[string]interface{}{
			"failed_attempts":   gorm.Expr("failed_attempts + ?", 1),
			"last_attempt_time": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.Create(&models.SecurityLog{
			Email:           email,
			FailedAttempts:  1,
			LastAttemptTime: &now,
		}).Error
	}
	return nil
}
