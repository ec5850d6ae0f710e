package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
)

func TestNotificationService_FeedAndReadState(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db, testLogger())
	repo := repository.NewNotificationRepository(db)

	user := createTestUser(t, db, "feed@example.com")
	other := createTestUser(t, db, "other@example.com")

	var ids []uint
	for _, title := range []string{"one", "two", "three"} {
		n := &model.Notification{UserID: user.ID, Title: title, Type: model.NotificationTypeInfo}
		require.NoError(t, repo.Create(ctx, n))
		ids = append(ids, n.ID)
	}
	foreign := &model.Notification{UserID: other.ID, Title: "theirs"}
	require.NoError(t, repo.Create(ctx, foreign))

	feed, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 3)
	assert.Equal(t, 3, feed.UnreadCount)
	assert.Equal(t, "three", feed.Notifications[0].Title)

	require.NoError(t, svc.MarkRead(ctx, user.ID, ids[0]))
	require.NoError(t, svc.MarkRead(ctx, user.ID, foreign.ID), "foreign ids are ignored")
	require.NoError(t, svc.MarkRead(ctx, user.ID, 9999))

	feed, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.UnreadCount)

	otherFeed, err := svc.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, otherFeed.UnreadCount)

	updated, err := svc.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	feed, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)

	require.NoError(t, svc.Delete(ctx, user.ID, ids[1]))
	assert.ErrorIs(t, svc.Delete(ctx, user.ID, ids[1]), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, user.ID, foreign.ID), ErrNotificationNotFound)
}

func TestNotificationService_ListCapsAtFifty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db, testLogger())
	user := createTestUser(t, db, "many@example.com")

	batch := make([]model.Notification, 0, 60)
	for i := 0; i < 60; i++ {
		batch = append(batch, model.Notification{UserID: user.ID, Title: "n"})
	}
	require.NoError(t, db.Create(&batch).Error)

	feed, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 50)
	assert.Equal(t, 50, feed.UnreadCount)
}

func TestNotificationService_Settings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db, testLogger())
	user := createTestUser(t, db, "settings@example.com")

	first, err := svc.GetSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(user.ID).ReminderTime, first.ReminderTime)
	assert.True(t, first.TelegramNotifications)

	_, err = svc.GetSettings(ctx, user.ID)
	require.NoError(t, err)
	var n int64
	require.NoError(t, db.Model(&model.UserSettings{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err = svc.UpdateSettings(ctx, user.ID, SettingsPatch{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)

	for _, bad := range []string{"", "3days", "every-other-tuesday"} {
		_, err = svc.UpdateSettings(ctx, user.ID, SettingsPatch{ReminderTime: Some(bad)})
		var validation *ValidationError
		require.ErrorAs(t, err, &validation, bad)
		assert.Equal(t, "Invalid reminderTime", validation.Message)
	}

	updated, err := svc.UpdateSettings(ctx, user.ID, SettingsPatch{
		TelegramNotifications: Some(false),
		ReminderTime:          Some("1week"),
	})
	require.NoError(t, err)
	assert.False(t, updated.TelegramNotifications)
	assert.True(t, updated.Notifications)
	assert.Equal(t, "1week", updated.ReminderTime)
}

func TestNotificationService_UpdateSettingsCreatesRow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db, testLogger())
	user := createTestUser(t, db, "fresh@example.com")

	updated, err := svc.UpdateSettings(ctx, user.ID, SettingsPatch{EmailNotifications: Some(true)})
	require.NoError(t, err)
	assert.True(t, updated.EmailNotifications)
	assert.True(t, updated.Notifications)
	assert.Equal(t, model.DefaultReminderTime, updated.ReminderTime)
}
