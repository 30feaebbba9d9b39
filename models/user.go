package models

import "time"

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Email         string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"size:255;not null" json:"-"`
	PhotoKey      *string   `gorm:"type:varchar(255)" json:"-"`
	WalletBalance int64     `gorm:"not null;default:0" json:"wallet_balance"`
	XP            int64     `gorm:"column:xp;not null;default:0" json:"xp"`
	Level         int       `gorm:"not null;default:1" json:"level"`
	Rating        int       `gorm:"not null;default:0" json:"rating"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
	Frozen        bool      `gorm:"not null;default:false" json:"frozen"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
