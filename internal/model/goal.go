package model

import "time"

const (
	GoalStatusPending    = "pending"
	GoalStatusInProgress = "in_progress"
	GoalStatusCompleted  = "completed"
	GoalStatusDeleted    = "deleted"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DateLayout is the storage format of StartDate and EndDate.
const DateLayout = "2006-01-02"

// Goal is a tracked task. Deleting a goal only flips Status to GoalStatusDeleted.
type Goal struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	User        User   `gorm:"constraint:OnDelete:CASCADE"`
	Title       string `gorm:"not null"`
	Description string
	Category    string
	Priority    string  `gorm:"not null;default:medium"`
	Status      string  `gorm:"index;not null;default:pending"`
	StartDate   *string `gorm:"size:10"`
	EndDate     *string `gorm:"size:10;index"`
	Progress    int     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
