package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
)

// CreateGoalInput is the body of a goal creation request.
type CreateGoalInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string  `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Progress    *int    `json:"progress" binding:"omitempty,min=0,max=100"`
}

// GoalPatch lists the fields a goal update may touch. Unset fields are left alone.
type GoalPatch struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Category    Optional[string] `json:"category"`
	Priority    Optional[string] `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      Optional[string] `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	StartDate   Optional[string] `json:"startDate"`
	EndDate     Optional[string] `json:"endDate"`
	Progress    Optional[int]    `json:"progress" binding:"omitempty,min=0,max=100"`
}

// GoalService manages the goals of a user.
type GoalService struct {
	db     *gorm.DB
	goals  *repository.GoalRepository
	logger *slog.Logger
}

func NewGoalService(db *gorm.DB, logger *slog.Logger) *GoalService {
	return &GoalService{db: db, goals: repository.NewGoalRepository(db), logger: logger}
}

func (s *GoalService) List(ctx context.Context, userID uint) ([]model.Goal, error) {
	return s.goals.ListActive(ctx, userID)
}

// Get returns one goal including soft deleted ones.
func (s *GoalService) Get(ctx context.Context, userID, goalID uint) (*model.Goal, error) {
	goal, err := s.goals.FindByID(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Create(ctx context.Context, userID uint, in CreateGoalInput) (*model.Goal, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("Title is required")
	}

	goal := &model.Goal{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Priority:    model.PriorityMedium,
		Status:      model.GoalStatusPending,
	}

	if in.Priority != "" {
		goal.Priority = in.Priority
	}
	if in.Status != "" {
		goal.Status = in.Status
	}
	if in.Progress != nil {
		goal.Progress = *in.Progress
	}

	var err error
	if goal.StartDate, err = normalizeDate(in.StartDate, "startDate"); err != nil {
		return nil, err
	}
	if goal.EndDate, err = normalizeDate(in.EndDate, "endDate"); err != nil {
		return nil, err
	}
	if err := checkDateOrder(goal.StartDate, goal.EndDate); err != nil {
		return nil, err
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	s.logger.Info("🎯 [GoalService] Goal created", "user_id", userID, "goal_id", goal.ID)
	return goal, nil
}

// Update writes only the supplied fields. It never creates a goal.
func (s *GoalService) Update(ctx context.Context, userID, goalID uint, patch GoalPatch) (*model.Goal, error) {
	var updated *model.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goals := repository.NewGoalRepository(tx)
		current, err := goals.FindByID(ctx, userID, goalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGoalNotFound
			}
			return err
		}

		set, err := goalUpdateSet(current, patch)
		if err != nil {
			return err
		}

		affected, err := goals.Update(ctx, userID, goalID, set)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrGoalNotFound
		}

		updated, err = goals.FindByID(ctx, userID, goalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks the goal deleted and keeps the row.
func (s *GoalService) SoftDelete(ctx context.Context, userID, goalID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goals := repository.NewGoalRepository(tx)
		if _, err := goals.FindByID(ctx, userID, goalID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGoalNotFound
			}
			return err
		}
		_, err := goals.Update(ctx, userID, goalID, repository.NewUpdateSet().Set("status", model.GoalStatusDeleted))
		if err != nil {
			return err
		}
		s.logger.Info("🗑 [GoalService] Goal deleted", "user_id", userID, "goal_id", goalID)
		return nil
	})
}

func goalUpdateSet(current *model.Goal, patch GoalPatch) (*repository.UpdateSet, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	set := repository.NewUpdateSet()

	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Value)
		if title == "" {
			return nil, invalid("Title is required")
		}
		set.Set("title", title)
	}
	if patch.Description.Set {
		set.Set("description", strings.TrimSpace(patch.Description.Value))
	}
	if patch.Category.Set {
		set.Set("category", strings.TrimSpace(patch.Category.Value))
	}
	// Tags skip null and empty values; these columns take neither.
	if patch.Priority.Set {
		if patch.Priority.Null || patch.Priority.Value == "" {
			return nil, invalid("Invalid priority")
		}
		set.Set("priority", patch.Priority.Value)
	}
	if patch.Status.Set {
		if patch.Status.Null || patch.Status.Value == "" {
			return nil, invalid("Invalid status")
		}
		set.Set("status", patch.Status.Value)
	}
	if patch.Progress.Set {
		if patch.Progress.Null {
			return nil, invalid("Progress must be between 0 and 100")
		}
		set.Set("progress", patch.Progress.Value)
	}

	start, end := current.StartDate, current.EndDate
	if patch.StartDate.Set {
		value, err := patchDate(patch.StartDate, "startDate")
		if err != nil {
			return nil, err
		}
		start = value
		set.Set("start_date", nullableColumn(value))
	}
	if patch.EndDate.Set {
		value, err := patchDate(patch.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
		end = value
		set.Set("end_date", nullableColumn(value))
	}
	if err := checkDateOrder(start, end); err != nil {
		return nil, err
	}

	return set, nil
}

func patchDate(o Optional[string], field string) (*string, error) {
	if o.Null {
		return nil, nil
	}
	return normalizeDate(&o.Value, field)
}

// nullableColumn hands GORM an untyped nil so the column is written as NULL.
func nullableColumn(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// normalizeDate accepts YYYY-MM-DD or an RFC 3339 timestamp and keeps the date part.
// Empty strings clear the date.
func normalizeDate(raw *string, field string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	if _, err := time.Parse(model.DateLayout, value); err == nil {
		return &value, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		date := ts.Format(model.DateLayout)
		return &date, nil
	}
	return nil, invalid("Invalid " + field + ", expected YYYY-MM-DD")
}

// Dates in DateLayout compare correctly as strings.
func checkDateOrder(start, end *string) error {
	if start != nil && end != nil && *end < *start {
		return invalid("End date must not be before start date")
	}
	return nil
}
