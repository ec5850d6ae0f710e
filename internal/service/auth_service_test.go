package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, *repository.NotificationRepository, *repository.GoalRepository) {
	db := setupTestDB(t)
	return NewAuthService(db, time.Hour, testLogger()),
		repository.NewNotificationRepository(db),
		repository.NewGoalRepository(db)
}

func TestAuthService_Register(t *testing.T) {
	svc, notifications, goals := newAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "  Alice@Example.COM ", "secret1", " alice ")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Len(t, token, 43)

	assert.EqualValues(t, 1, countNotifications(t, svc.db, user.ID, model.NotificationTypeSuccess))

	feed, err := notifications.ListRecent(ctx, user.ID, 50)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, welcomeTitle, feed[0].Title)
	assert.False(t, feed[0].IsRead)

	active, err := goals.ListActive(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	userID, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "bob@example.com", "secret1", "bob")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "BOB@example.com", "other12", "bobby")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)

	tests := []struct {
		name     string
		email    string
		password string
		username string
		message  string
	}{
		{"missing email", "", "secret1", "bob", "Email, password and username are required"},
		{"missing password", "bob@example.com", "", "bob", "Email, password and username are required"},
		{"blank username", "bob@example.com", "secret1", "   ", "Email, password and username are required"},
		{"no at sign", "bob.example.com", "secret1", "bob", "Invalid email address"},
		{"empty domain", "a@", "secret1", "bob", "Invalid email address"},
		{"short password", "bob@example.com", "12345", "bob", "Password must be at least 6 characters"},
		{"password over bcrypt limit", "long@example.com", strings.Repeat("a", 73), "long", "Password must be at most 72 bytes"},
		{"multibyte password over bcrypt limit", "wide@example.com", strings.Repeat("я", 40), "wide", "Password must be at most 72 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.email, tt.password, tt.username)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
		})
	}

	_, _, err := svc.Register(context.Background(), "edge@example.com", strings.Repeat("a", 72), "edge")
	assert.NoError(t, err)
}

func TestAuthService_LoginFailuresLookTheSame(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "carol@example.com", "secret1", "carol")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "carol@example.com", "wrong-pass")
	_, _, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	user, token, err := svc.Login(ctx, " CAROL@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAuthService_TokenLifecycle(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "dave@example.com", "secret1", "dave")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	base := time.Now()
	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized, "token is past its TTL")

	purged, err := svc.PurgeExpiredTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	svc.now = time.Now
	_, token, err = svc.Login(ctx, "dave@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, svc.Logout(ctx, token), ErrUnauthorized)
}
