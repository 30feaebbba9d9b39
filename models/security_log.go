package models

import "time"

// SecurityLog tracks failed login attempts per email. LastAttemptTime is a
// pointer because rows created before the column existed carry NULL; those
// rows never trigger a freeze.
type SecurityLog struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	FailedAttempts  int        `gorm:"not null;default:0" json:"failed_attempts"`
	LastAttemptTime *time.Time `json:"last_attempt_time,omitempty"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`
}

func (SecurityLog) TableName() string {
	return "security_logs"
}
