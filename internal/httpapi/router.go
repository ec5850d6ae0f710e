package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"taskbuddy/internal/service"
	"taskbuddy/internal/telegram"
)

// Services are the operations the HTTP API exposes.
type Services struct {
	Auth          *service.AuthService
	Goals         *service.GoalService
	Notifications *service.NotificationService
	Reminders     *service.ReminderService
	Profiles      *service.ProfileService
	Telegram      *telegram.Gateway
}

type Options struct {
	// ReminderSecret, when set, is required in X-Cron-Secret to trigger a reminder sweep.
	ReminderSecret string
	// WebhookSecret, when set, must match X-Telegram-Bot-Api-Secret-Token on webhook calls.
	WebhookSecret string
	// Production refuses the reminder trigger when ReminderSecret is empty.
	Production bool
	Logger     *slog.Logger
	Now        func() time.Time
}

type handler struct {
	svc  Services
	opts Options

	logger *slog.Logger
	now    func() time.Time
}

const (
	headerAuthToken     = "X-Auth-Token"
	headerCronSecret    = "X-Cron-Secret"
	headerWebhookSecret = "X-Telegram-Bot-Api-Secret-Token"
	headerRequestID     = "X-Request-ID"
)

// NewRouter wires every endpoint. Each path multiplexes its operations on
// the HTTP method and the "action" query parameter.
func NewRouter(svc Services, opts Options) *gin.Engine {
	h := &handler{svc: svc, opts: opts, logger: opts.Logger, now: opts.Now}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}

	configureBinding()

	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.HandleMethodNotAllowed = true
	r.Use(requestID(), requestLogger(h.logger), gin.CustomRecovery(h.recovery), cors())

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Not found")
	})
	r.NoMethod(func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	preflightRoute(r, "/auth", http.MethodGet, http.MethodPost)
	r.POST("/auth", h.authPost)
	r.GET("/auth", h.authGet)

	preflightRoute(r, "/goals", http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	r.GET("/goals", h.requireToken, h.listGoals)
	r.POST("/goals", h.requireToken, h.createGoal)
	r.PUT("/goals", h.requireToken, h.updateGoal)
	r.DELETE("/goals", h.requireToken, h.deleteGoal)

	preflightRoute(r, "/notifications", http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	r.GET("/notifications", h.requireToken, h.notificationsGet)
	r.POST("/notifications", h.notificationsPost)
	r.PUT("/notifications", h.requireToken, h.notificationsPut)
	r.DELETE("/notifications", h.requireToken, h.deleteNotification)

	preflightRoute(r, "/profile", http.MethodGet, http.MethodPut)
	r.GET("/profile", h.requireToken, h.getProfile)
	r.PUT("/profile", h.requireToken, h.updateProfile)

	preflightRoute(r, "/telegram", http.MethodPost)
	r.POST("/telegram", h.telegramWebhook)

	return r
}

var bindingOnce sync.Once

// configureBinding applies the service validation setup to gin's validator.
func configureBinding() {
	bindingOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			service.ConfigureValidator(v)
		}
	})
}

// preflightRoute answers CORS preflight requests for path.
func preflightRoute(r *gin.Engine, path string, methods ...string) {
	allowed := strings.Join(append(methods, http.MethodOptions), ", ")
	r.OPTIONS(path, func(c *gin.Context) {
		c.Header("Access-Control-Allow-Methods", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+headerAuthToken)
		c.Header("Access-Control-Max-Age", "86400")
		c.Status(http.StatusOK)
	})
}

func (h *handler) recovery(c *gin.Context, recovered any) {
	h.logger.Error("❌ [Handler] Panic recovered", "path", c.Request.URL.Path, "panic", recovered)
	abortWithError(c, http.StatusInternalServerError, "Internal server error")
}
