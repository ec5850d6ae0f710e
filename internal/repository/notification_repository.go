package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

// NotificationRepository handles the in-app notification feed.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListRecent returns at most limit notifications, newest first.
func (r *NotificationRepository) ListRecent(ctx context.Context, userID uint, limit int) ([]model.Notification, error) {
	var items []model.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark notification %d read: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, id uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete notification %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
