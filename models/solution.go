package models

import "time"

const (
	SolutionStatusPending  = "Pending"
	SolutionStatusAccepted = "Accepted"
)

// Solutions live in a flat table filtered by request_id rather than nested
// under a request, so a single secondary index serves every lookup.
type Solution struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;index" json:"request_id"`
	SolverID  uint      `gorm:"not null;index" json:"solver_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Link      *string   `gorm:"type:varchar(255)" json:"link,omitempty"`
	Status    string    `gorm:"type:enum('Pending','Accepted');not null;default:'Pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Solution) TableName() string {
	return "solutions"
}
