package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
)

const reminderTitle = "Напоминание о дедлайне"

// MessageSender delivers a chat message. It reports delivery and never fails loudly.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) bool
}

// ReminderGuard lets a (goal, day) reminder through once.
type ReminderGuard interface {
	Acquire(ctx context.Context, goalID uint, day string) (bool, error)
}

// SweepResult summarises one reminder sweep.
type SweepResult struct {
	Date                 string `json:"date"`
	Candidates           int    `json:"candidates"`
	RemindersSent        int    `json:"remindersSent"`
	NotificationsCreated int    `json:"notificationsCreated"`
	Failed               int    `json:"failed"`
	Skipped              int    `json:"skipped"`
}

// ReminderService sends deadline reminders for goals due tomorrow.
type ReminderService struct {
	goals         *repository.GoalRepository
	notifications *repository.NotificationRepository
	sender        MessageSender
	guard         ReminderGuard
	loc           *time.Location
	logger        *slog.Logger
}

func NewReminderService(db *gorm.DB, sender MessageSender, guard ReminderGuard, loc *time.Location, logger *slog.Logger) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		goals:         repository.NewGoalRepository(db),
		notifications: repository.NewNotificationRepository(db),
		sender:        sender,
		guard:         guard,
		loc:           loc,
		logger:        logger,
	}
}

// RunSweep reminds owners of open goals whose end date is the day after now.
// A failure on one goal is logged and the sweep moves on.
func (s *ReminderService) RunSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	tomorrow := now.In(s.loc).AddDate(0, 0, 1).Format(model.DateLayout)
	candidates, err := s.goals.ListDueForReminder(ctx, tomorrow)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Date: tomorrow, Candidates: len(candidates)}
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		s.remind(ctx, c, tomorrow, result)
	}

	s.logger.Info("⏰ [ReminderService] Sweep finished",
		"date", tomorrow,
		"candidates", result.Candidates,
		"sent", result.RemindersSent,
		"notifications", result.NotificationsCreated,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (s *ReminderService) remind(ctx context.Context, c repository.ReminderCandidate, day string, result *SweepResult) {
	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx, c.GoalID, day)
		if err != nil {
			s.logger.Warn("⚠️ [ReminderService] Guard unavailable, sending anyway", "goal_id", c.GoalID, "error", err)
		} else if !ok {
			result.Skipped++
			return
		}
	}

	failed := false
	if s.sender.SendMessage(ctx, c.TelegramChatID, reminderText(c)) {
		result.RemindersSent++
	} else {
		failed = true
		s.logger.Warn("⚠️ [ReminderService] Telegram delivery failed", "goal_id", c.GoalID, "user_id", c.UserID)
	}

	notification := &model.Notification{
		UserID:  c.UserID,
		Title:   reminderTitle,
		Message: fmt.Sprintf("Завтра (%s) истекает срок задачи «%s»", c.EndDate, c.Title),
		Type:    model.NotificationTypeDeadlineReminder,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		failed = true
		s.logger.Error("❌ [ReminderService] Failed to store reminder", "goal_id", c.GoalID, "error", err)
	} else {
		result.NotificationsCreated++
	}

	if failed {
		result.Failed++
	}
}

func reminderText(c repository.ReminderCandidate) string {
	var sb strings.Builder
	sb.WriteString("⏰ <b>" + reminderTitle + "</b>\n\n")
	sb.WriteString(fmt.Sprintf("Завтра истекает срок задачи <b>%s</b>\n", html.EscapeString(strings.TrimSpace(c.Title))))
	sb.WriteString(fmt.Sprintf("📅 Дедлайн: %s", c.EndDate))
	if c.Priority == model.PriorityHigh {
		sb.WriteString("\n🔥 Высокий приоритет")
	}
	return sb.String()
}
