package service

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
)

const feedLimit = 50

// Feed is one page of notifications. UnreadCount covers the page only.
type Feed struct {
	Notifications []model.Notification
	UnreadCount   int
}

// SettingsPatch lists the settings fields an update may touch.
type SettingsPatch struct {
	Notifications         Optional[bool]   `json:"notifications"`
	EmailNotifications    Optional[bool]   `json:"emailNotifications"`
	TelegramNotifications Optional[bool]   `json:"telegramNotifications"`
	ReminderTime          Optional[string] `json:"reminderTime" binding:"omitempty,oneof=10min 30min 1hour 1day 1week"`
}

// NotificationService serves the notification feed and user settings.
type NotificationService struct {
	db            *gorm.DB
	notifications *repository.NotificationRepository
	settings      *repository.SettingsRepository
	logger        *slog.Logger
}

func NewNotificationService(db *gorm.DB, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		db:            db,
		notifications: repository.NewNotificationRepository(db),
		settings:      repository.NewSettingsRepository(db),
		logger:        logger,
	}
}

func (s *NotificationService) List(ctx context.Context, userID uint) (*Feed, error) {
	items, err := s.notifications.ListRecent(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	feed := &Feed{Notifications: items}
	for _, n := range items {
		if !n.IsRead {
			feed.UnreadCount++
		}
	}
	return feed, nil
}

// MarkRead flags one notification as read. Foreign or unknown ids are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	_, err := s.notifications.MarkRead(ctx, userID, id)
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uint) error {
	deleted, err := s.notifications.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// GetSettings returns the user's settings, creating the default row on first access.
func (s *NotificationService) GetSettings(ctx context.Context, userID uint) (*model.UserSettings, error) {
	return s.settings.GetOrCreate(ctx, userID)
}

func (s *NotificationService) UpdateSettings(ctx context.Context, userID uint, patch SettingsPatch) (*model.UserSettings, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	set := repository.NewUpdateSet()
	if patch.Notifications.Set && !patch.Notifications.Null {
		set.Set("notifications", patch.Notifications.Value)
	}
	if patch.EmailNotifications.Set && !patch.EmailNotifications.Null {
		set.Set("email_notifications", patch.EmailNotifications.Value)
	}
	if patch.TelegramNotifications.Set && !patch.TelegramNotifications.Null {
		set.Set("telegram_notifications", patch.TelegramNotifications.Value)
	}
	if patch.ReminderTime.Set && !patch.ReminderTime.Null {
		if patch.ReminderTime.Value == "" {
			return nil, invalid("Invalid reminderTime")
		}
		set.Set("reminder_time", patch.ReminderTime.Value)
	}
	if set.Len() == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	var out *model.UserSettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewSettingsRepository(tx)
		if _, err := repo.GetOrCreate(ctx, userID); err != nil {
			return err
		}
		if _, err := repo.Update(ctx, userID, set); err != nil {
			return err
		}
		var err error
		out, err = repo.GetOrCreate(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("⚙️ [NotificationService] Settings updated", "user_id", userID, "fields", set.Columns())
	return out, nil
}
