package models

import "time"

const (
	RequestStatusOpen      = "Open"
	RequestStatusCompleted = "Completed"
	RequestStatusClosed    = "Closed"
)

type Request struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequesterID uint      `gorm:"not null;index" json:"requester_id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Type        string    `gorm:"type:enum('Project Material','Collaboration','Teaching Material','Others');not null" json:"type"`
	Urgency     string    `gorm:"type:enum('Low','Medium','High','Extreme');not null" json:"urgency"`
	Cost        int64     `gorm:"not null" json:"cost"`
	Status      string    `gorm:"type:enum('Open','Completed','Closed');not null;default:'Open'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (Request) TableName() string {
	return "requests"
}
