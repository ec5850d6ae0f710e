package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/repository"
)

// ProfileStats are derived from the user's goals. Deleted goals are not counted.
type ProfileStats struct {
	TotalGoals     int64 `json:"totalGoals"`
	CompletedGoals int64 `json:"completedGoals"`
}

type Profile struct {
	ID             uint         `json:"id"`
	Email          string       `json:"email"`
	Username       string       `json:"username"`
	AvatarURL      string       `json:"avatarUrl"`
	Bio            string       `json:"bio"`
	TelegramChatID *int64       `json:"telegramChatId"`
	TelegramLink   string       `json:"telegramLink,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	Stats          ProfileStats `json:"stats"`
}

// ProfilePatch lists the profile fields a user may change. telegramChatId
// accepts a number or a numeric string; null unbinds the chat.
type ProfilePatch struct {
	Username       Optional[string]      `json:"username"`
	Bio            Optional[string]      `json:"bio"`
	AvatarURL      Optional[string]      `json:"avatarUrl"`
	TelegramChatID Optional[json.Number] `json:"telegramChatId"`
}

// ProfileService reads and edits user profiles.
type ProfileService struct {
	db          *gorm.DB
	users       *repository.UserRepository
	goals       *repository.GoalRepository
	botUsername string
	logger      *slog.Logger
}

func NewProfileService(db *gorm.DB, botUsername string, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		users:       repository.NewUserRepository(db),
		goals:       repository.NewGoalRepository(db),
		botUsername: botUsername,
		logger:      logger,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*Profile, error) {
	return s.load(ctx, s.users, s.goals, userID)
}

func (s *ProfileService) Update(ctx context.Context, userID uint, patch ProfilePatch) (*Profile, error) {
	set, err := profileUpdateSet(patch)
	if err != nil {
		return nil, err
	}

	var profile *Profile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		affected, err := users.Update(ctx, userID, set)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrUserNotFound
		}
		profile, err = s.load(ctx, users, repository.NewGoalRepository(tx), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("👤 [ProfileService] Profile updated", "user_id", userID, "fields", set.Columns())
	return profile, nil
}

// TelegramLink is the bot deep link that binds the chat to userID.
func (s *ProfileService) TelegramLink(userID uint) string {
	if s.botUsername == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s?start=%d", s.botUsername, userID)
}

func (s *ProfileService) load(ctx context.Context, users *repository.UserRepository, goals *repository.GoalRepository, userID uint) (*Profile, error) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	total, completed, err := goals.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		AvatarURL:      user.AvatarURL,
		Bio:            user.Bio,
		TelegramChatID: user.TelegramChatID,
		TelegramLink:   s.TelegramLink(user.ID),
		CreatedAt:      user.CreatedAt,
		Stats:          ProfileStats{TotalGoals: total, CompletedGoals: completed},
	}, nil
}

func profileUpdateSet(patch ProfilePatch) (*repository.UpdateSet, error) {
	set := repository.NewUpdateSet()
	if patch.Username.Set {
		username := strings.TrimSpace(patch.Username.Value)
		if username == "" {
			return nil, invalid("Username must not be empty")
		}
		set.Set("username", username)
	}
	if patch.Bio.Set {
		set.Set("bio", strings.TrimSpace(patch.Bio.Value))
	}
	if patch.AvatarURL.Set {
		set.Set("avatar_url", strings.TrimSpace(patch.AvatarURL.Value))
	}
	if patch.TelegramChatID.Set {
		if patch.TelegramChatID.Null {
			set.Set("telegram_chat_id", nil)
		} else {
			chatID, err := patch.TelegramChatID.Value.Int64()
			if err != nil {
				return nil, invalid("Invalid telegramChatId")
			}
			set.Set("telegram_chat_id", chatID)
		}
	}
	if set.Len() == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	return set, nil
}
