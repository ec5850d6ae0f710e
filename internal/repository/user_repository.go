package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. A taken email surfaces as gorm.ErrDuplicatedKey.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Update applies a partial update and reports how many rows matched.
func (r *UserRepository) Update(ctx context.Context, id uint, set *UpdateSet) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(set.Map(time.Now()))
	if res.Error != nil {
		return 0, fmt.Errorf("update user %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// BindTelegramChat stores chatID on the user. It returns false when the user does not exist.
func (r *UserRepository) BindTelegramChat(ctx context.Context, id uint, chatID int64) (bool, error) {
	affected, err := r.Update(ctx, id, NewUpdateSet().Set("telegram_chat_id", chatID))
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
