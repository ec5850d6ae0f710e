package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskbuddy/internal/model"
	"taskbuddy/internal/service"
)

type userResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type goalResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type notificationResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type settingsResponse struct {
	Notifications         bool   `json:"notifications"`
	EmailNotifications    bool   `json:"emailNotifications"`
	TelegramNotifications bool   `json:"telegramNotifications"`
	ReminderTime          string `json:"reminderTime"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt}
}

func toGoalResponse(g *model.Goal) goalResponse {
	return goalResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		Priority:    g.Priority,
		Status:      g.Status,
		StartDate:   g.StartDate,
		EndDate:     g.EndDate,
		Progress:    g.Progress,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toGoalResponses(goals []model.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, toGoalResponse(&goals[i]))
	}
	return out
}

func toNotificationResponses(items []model.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func toSettingsResponse(s *model.UserSettings) settingsResponse {
	return settingsResponse{
		Notifications:         s.Notifications,
		EmailNotifications:    s.EmailNotifications,
		TelegramNotifications: s.TelegramNotifications,
		ReminderTime:          s.ReminderTime,
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// writeError maps a service error to its status code and the {"error": ...} envelope.
func (h *handler) writeError(c *gin.Context, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		abortWithError(c, http.StatusBadRequest, validation.Message)
	case errors.Is(err, service.ErrUnauthorized):
		abortWithError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrEmailTaken):
		abortWithError(c, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, service.ErrGoalNotFound):
		abortWithError(c, http.StatusNotFound, "Goal not found")
	case errors.Is(err, service.ErrNotificationNotFound):
		abortWithError(c, http.StatusNotFound, "Notification not found")
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, "User not found")
	default:
		h.logger.Error("❌ [Handler] Request failed", "path", c.Request.URL.Path, "method", c.Request.Method, "error", err)
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}
