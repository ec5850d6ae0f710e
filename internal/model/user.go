package model

import "time"

// User is an account of the tracker. TelegramChatID is set once the user
// opens the bot through the deep link from their profile.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	Username       string `gorm:"not null"`
	AvatarURL      string
	Bio            string
	TelegramChatID *int64 `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
