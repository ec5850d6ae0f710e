package model

import "time"

const (
	NotificationTypeSuccess          = "success"
	NotificationTypeInfo             = "info"
	NotificationTypeDeadlineReminder = "deadline_reminder"
)

// Notification is an entry of the in-app feed.
type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Title     string `gorm:"not null"`
	Message   string
	Type      string `gorm:"not null;default:info"`
	IsRead    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}
