package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

// TokenRepository stores bearer tokens.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.Token) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

// FindValid returns the token when it exists and expires after now.
func (r *TokenRepository) FindValid(ctx context.Context, value string, now time.Time) (*model.Token, error) {
	var token model.Token
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", value, now).
		First(&token).Error
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &token, nil
}

func (r *TokenRepository) Delete(ctx context.Context, value string) (int64, error) {
	res := r.db.WithContext(ctx).Where("token = ?", value).Delete(&model.Token{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete token: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Token{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
