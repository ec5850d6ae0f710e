package model

import "time"

const DefaultReminderTime = "1day"

// UserSettings keeps per-user notification preferences. A row is created on first read.
type UserSettings struct {
	UserID                uint `gorm:"primaryKey;autoIncrement:false"`
	User                  User `gorm:"constraint:OnDelete:CASCADE"`
	Notifications         bool
	EmailNotifications    bool
	TelegramNotifications bool
	ReminderTime          string `gorm:"size:16"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DefaultSettings returns the preferences a new user starts with.
func DefaultSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:                userID,
		Notifications:         true,
		EmailNotifications:    false,
		TelegramNotifications: true,
		ReminderTime:          DefaultReminderTime,
	}
}

func (UserSettings) TableName() string {
	return "user_settings"
}
