package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

// GoalRepository handles CRUD for goals.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// ReminderCandidate is a goal due for a deadline reminder joined with its owner.
type ReminderCandidate struct {
	GoalID         uint
	UserID         uint
	Title          string
	Priority       string
	EndDate        string
	TelegramChatID int64
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// ListActive returns the user's goals that are not soft deleted, newest first.
func (r *GoalRepository) ListActive(ctx context.Context, userID uint) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, model.GoalStatusDeleted).
		Order("created_at DESC, id DESC").
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// FindByID looks a goal up regardless of its status.
func (r *GoalRepository) FindByID(ctx context.Context, userID, goalID uint) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, goalID).
		First(&goal).Error; err != nil {
		return nil, fmt.Errorf("find goal %d: %w", goalID, err)
	}
	return &goal, nil
}

// Update applies a partial update scoped to the owner and reports matched rows.
func (r *GoalRepository) Update(ctx context.Context, userID, goalID uint, set *UpdateSet) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Goal{}).
		Where("user_id = ? AND id = ?", userID, goalID).
		Updates(set.Map(time.Now()))
	if res.Error != nil {
		return 0, fmt.Errorf("update goal %d: %w", goalID, res.Error)
	}
	return res.RowsAffected, nil
}

// Stats counts goals that are not deleted and, among them, completed ones.
func (r *GoalRepository) Stats(ctx context.Context, userID uint) (total, completed int64, err error) {
	db := r.db.WithContext(ctx).Model(&model.Goal{})
	if err := db.Where("user_id = ? AND status <> ?", userID, model.GoalStatusDeleted).
		Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("count goals: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND status = ?", userID, model.GoalStatusCompleted).
		Count(&completed).Error; err != nil {
		return 0, 0, fmt.Errorf("count completed goals: %w", err)
	}
	return total, completed, nil
}

// ListDueForReminder returns open goals ending on date whose owners have a
// bound Telegram chat and have not switched Telegram notifications off.
// A missing settings row counts as the defaults, which enable Telegram.
func (r *GoalRepository) ListDueForReminder(ctx context.Context, date string) ([]ReminderCandidate, error) {
	var out []ReminderCandidate
	err := r.db.WithContext(ctx).
		Table("goals").
		Select("goals.id AS goal_id, goals.user_id, goals.title, goals.priority, goals.end_date, users.telegram_chat_id").
		Joins("JOIN users ON users.id = goals.user_id").
		Joins("LEFT JOIN user_settings ON user_settings.user_id = goals.user_id").
		Where("goals.end_date = ?", date).
		Where("goals.status NOT IN ?", []string{model.GoalStatusCompleted, model.GoalStatusDeleted}).
		Where("users.telegram_chat_id IS NOT NULL").
		Where("COALESCE(user_settings.telegram_notifications, ?) = ?", true, true).
		Order("goals.id").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list goals due for reminder: %w", err)
	}
	return out, nil
}
