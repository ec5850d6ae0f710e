package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
)

const (
	tokenBytes = 32

	welcomeTitle   = "Добро пожаловать в TaskBuddy!"
	welcomeMessage = "Вы успешно зарегистрировались. Начните создавать свои первые задачи!"
)

// Credentials carries the format rules for a registration. Bcrypt hashes at
// most 72 bytes of password.
type Credentials struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6,maxbytes=72"`
}

// AuthService registers users and manages their bearer tokens.
type AuthService struct {
	db       *gorm.DB
	users    *repository.UserRepository
	tokens   *repository.TokenRepository
	tokenTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		db:       db,
		users:    repository.NewUserRepository(db),
		tokens:   repository.NewTokenRepository(db),
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates the account, its welcome notification and a first token
// in one transaction.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*model.User, string, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	if email == "" || password == "" || username == "" {
		return nil, "", invalid("Email, password and username are required")
	}
	creds := Credentials{Email: email, Password: password}
	if err := validateStruct(creds); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: string(hash), Username: username}
	var token string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		welcome := &model.Notification{
			UserID:  user.ID,
			Title:   welcomeTitle,
			Message: welcomeMessage,
			Type:    model.NotificationTypeSuccess,
		}
		if err := repository.NewNotificationRepository(tx).Create(ctx, welcome); err != nil {
			return err
		}
		issued, err := s.issueToken(ctx, repository.NewTokenRepository(tx), user.ID)
		if err != nil {
			return err
		}
		token = issued
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
			return nil, "", ErrEmailTaken
		}
		s.logger.Error("❌ [AuthService] Registration failed", "error", err)
		return nil, "", err
	}

	s.logger.Info("✅ [AuthService] User registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks the credentials and issues a new token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", invalid("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("⚠️ [AuthService] Login for unknown email", "email", email)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "user_id", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, s.tokens, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("🔐 [AuthService] User logged in", "user_id", user.ID)
	return user, token, nil
}

// Authenticate resolves a token to its user id. Expiry is checked against the database on every call.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrUnauthorized
	}
	found, err := s.tokens.FindValid(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnauthorized
		}
		return 0, err
	}
	return found.UserID, nil
}

// Logout revokes the token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrUnauthorized
	}
	deleted, err := s.tokens.Delete(ctx, token)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrUnauthorized
	}
	return nil
}

// PurgeExpiredTokens removes tokens whose lifetime is over.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("🧹 [AuthService] Expired tokens purged", "count", n)
	}
	return n, nil
}

func (s *AuthService) issueToken(ctx context.Context, repo *repository.TokenRepository, userID uint) (string, error) {
	value, err := generateToken()
	if err != nil {
		return "", err
	}
	token := &model.Token{
		Token:     value,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.tokenTTL),
	}
	if err := repo.Create(ctx, token); err != nil {
		return "", err
	}
	return value, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
