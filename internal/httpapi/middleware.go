package httpapi

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskbuddy/internal/service"
)

const ctxUserID = "userID"

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

// requestID reuses the caller's X-Request-ID or generates one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "[HTTP] Request",
			"request_id", c.GetString("requestID"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"action", c.Query("action"),
			"status", status,
			"latency", time.Since(started),
		)
	}
}

// requireToken resolves X-Auth-Token to a user id and stores it in the context.
func (h *handler) requireToken(c *gin.Context) {
	if h.authenticate(c) {
		c.Next()
	}
}

// authenticate aborts the request with 401 unless it carries a valid token.
func (h *handler) authenticate(c *gin.Context) bool {
	token := strings.TrimSpace(c.GetHeader(headerAuthToken))
	if token == "" {
		abortWithError(c, http.StatusUnauthorized, "Token required")
		return false
	}
	userID, err := h.svc.Auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			h.logger.Warn("⚠️ [Middleware] Invalid token", "path", c.Request.URL.Path)
		}
		h.writeError(c, err)
		return false
	}
	c.Set(ctxUserID, userID)
	return true
}

func currentUser(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func secretMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// decodeBody reads an optional JSON body and checks its binding tags.
// An empty body decodes as {}.
func (h *handler) decodeBody(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(dst)
	}
	if err == nil {
		return true
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		h.writeError(c, service.AsValidationError(err))
		return false
	}
	abortWithError(c, http.StatusBadRequest, "Invalid JSON body")
	return false
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
