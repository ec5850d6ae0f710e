package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

func newGoalService(t *testing.T) (*GoalService, *gorm.DB, uint) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "goals@example.com")
	return NewGoalService(db, testLogger()), db, user.ID
}

func intPtr(v int) *int { return &v }

func TestGoalService_CreateDefaultsAndRoundTrip(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	goal, err := svc.Create(ctx, userID, CreateGoalInput{Title: "  Read a book  ", Description: " chapter 1 "})
	require.NoError(t, err)
	assert.Equal(t, "Read a book", goal.Title)
	assert.Equal(t, "chapter 1", goal.Description)
	assert.Equal(t, model.PriorityMedium, goal.Priority)
	assert.Equal(t, model.GoalStatusPending, goal.Status)
	assert.Zero(t, goal.Progress)
	assert.Nil(t, goal.EndDate)

	got, err := svc.Get(ctx, userID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read a book", got.Title)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, goal.ID, list[0].ID)
}

func TestGoalService_CreateValidation(t *testing.T) {
	svc, db, userID := newGoalService(t)

	tests := []struct {
		name    string
		in      CreateGoalInput
		message string
	}{
		{"empty title", CreateGoalInput{Title: "   "}, "Title is required"},
		{"bad priority", CreateGoalInput{Title: "x", Priority: "urgent"}, "Invalid priority"},
		{"deleted status", CreateGoalInput{Title: "x", Status: model.GoalStatusDeleted}, "Invalid status"},
		{"progress over 100", CreateGoalInput{Title: "x", Progress: intPtr(101)}, "Progress must be between 0 and 100"},
		{"bad date", CreateGoalInput{Title: "x", EndDate: strPtr("tomorrow")}, "Invalid endDate, expected YYYY-MM-DD"},
		{"end before start", CreateGoalInput{Title: "x", StartDate: strPtr("2024-05-10"), EndDate: strPtr("2024-05-01")}, "End date must not be before start date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), userID, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
		})
	}

	var count int64
	require.NoError(t, db.Model(&model.Goal{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGoalService_CreateAcceptsTimestamps(t *testing.T) {
	svc, _, userID := newGoalService(t)

	goal, err := svc.Create(context.Background(), userID, CreateGoalInput{
		Title:     "x",
		StartDate: strPtr("2024-05-01T08:00:00Z"),
		EndDate:   strPtr("2024-05-03"),
		Priority:  model.PriorityHigh,
		Progress:  intPtr(40),
	})
	require.NoError(t, err)
	require.NotNil(t, goal.StartDate)
	assert.Equal(t, "2024-05-01", *goal.StartDate)
	assert.Equal(t, "2024-05-03", *goal.EndDate)
	assert.Equal(t, 40, goal.Progress)
}

func TestGoalService_UpdatePartial(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	goal, err := svc.Create(ctx, userID, CreateGoalInput{
		Title:       "Run",
		Description: "5k",
		EndDate:     strPtr("2024-06-01"),
	})
	require.NoError(t, err)

	var patch GoalPatch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"in_progress","progress":50,"endDate":null}`), &patch))

	updated, err := svc.Update(ctx, userID, goal.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Run", updated.Title)
	assert.Equal(t, "5k", updated.Description)
	assert.Equal(t, model.GoalStatusInProgress, updated.Status)
	assert.Equal(t, 50, updated.Progress)
	assert.Nil(t, updated.EndDate)
	assert.False(t, updated.UpdatedAt.Before(goal.UpdatedAt))
}

func TestGoalService_UpdateChecksMergedDates(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	goal, err := svc.Create(ctx, userID, CreateGoalInput{Title: "x", StartDate: strPtr("2024-05-10")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, userID, goal.ID, GoalPatch{EndDate: Some("2024-05-01")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, userID, goal.ID, GoalPatch{Title: Some("  ")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Title is required", verr.Message)
}

func TestGoalService_UpdateRejectsBadValues(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	goal, err := svc.Create(ctx, userID, CreateGoalInput{Title: "x", Progress: intPtr(10)})
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"unknown priority", `{"priority":"urgent"}`, "Invalid priority"},
		{"null priority", `{"priority":null}`, "Invalid priority"},
		{"deleted status", `{"status":"deleted"}`, "Invalid status"},
		{"negative progress", `{"progress":-1}`, "Progress must be between 0 and 100"},
		{"null progress", `{"progress":null}`, "Progress must be between 0 and 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch GoalPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &patch))
			_, err := svc.Update(ctx, userID, goal.ID, patch)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
		})
	}

	current, err := svc.Get(ctx, userID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, current.Progress)
	assert.Equal(t, model.PriorityMedium, current.Priority)
}

func TestGoalService_UpdateUnknownGoal(t *testing.T) {
	svc, db, userID := newGoalService(t)
	ctx := context.Background()

	other := createTestUser(t, db, "other@example.com")
	foreign, err := svc.Create(ctx, other.ID, CreateGoalInput{Title: "theirs"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, userID, 9999, GoalPatch{Title: Some("new")})
	assert.ErrorIs(t, err, ErrGoalNotFound)

	_, err = svc.Update(ctx, userID, foreign.ID, GoalPatch{Title: Some("stolen")})
	assert.ErrorIs(t, err, ErrGoalNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Goal{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := svc.Get(ctx, other.ID, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, "theirs", got.Title)
}

func TestGoalService_SoftDelete(t *testing.T) {
	svc, db, userID := newGoalService(t)
	ctx := context.Background()

	keep, err := svc.Create(ctx, userID, CreateGoalInput{Title: "keep", Status: model.GoalStatusCompleted})
	require.NoError(t, err)
	drop, err := svc.Create(ctx, userID, CreateGoalInput{Title: "drop"})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, userID, drop.ID))
	assert.ErrorIs(t, svc.SoftDelete(ctx, userID, 9999), ErrGoalNotFound)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	deleted, err := svc.Get(ctx, userID, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusDeleted, deleted.Status)

	profiles := NewProfileService(db, "", testLogger())
	profile, err := profiles.Get(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.Stats.TotalGoals)
	assert.EqualValues(t, 1, profile.Stats.CompletedGoals)
}
