package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskbuddy/internal/model"
)

// SettingsRepository stores per-user notification preferences.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetOrCreate returns the user's settings, inserting the defaults when the
// row is absent. Concurrent callers never produce a second row.
func (r *SettingsRepository) GetOrCreate(ctx context.Context, userID uint) (*model.UserSettings, error) {
	db := r.db.WithContext(ctx)
	defaults := model.DefaultSettings(userID)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, fmt.Errorf("ensure settings: %w", err)
	}

	var settings model.UserSettings
	if err := db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) Update(ctx context.Context, userID uint, set *UpdateSet) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.UserSettings{}).
		Where("user_id = ?", userID).
		Updates(set.Map(time.Now()))
	if res.Error != nil {
		return 0, fmt.Errorf("update settings: %w", res.Error)
	}
	return res.RowsAffected, nil
}
