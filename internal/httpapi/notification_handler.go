package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbuddy/internal/service"
)

type markReadRequest struct {
	ID json.Number `json:"id"`
}

func (h *handler) notificationsGet(c *gin.Context) {
	ctx := c.Request.Context()
	switch c.Query("action") {
	case "":
		feed, err := h.svc.Notifications.List(ctx, currentUser(c))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"notifications": toNotificationResponses(feed.Notifications),
			"unreadCount":   feed.UnreadCount,
		})
	case "settings":
		settings, err := h.svc.Notifications.GetSettings(ctx, currentUser(c))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": toSettingsResponse(settings)})
	default:
		abortWithError(c, http.StatusNotFound, "Not found")
	}
}

func (h *handler) notificationsPut(c *gin.Context) {
	ctx := c.Request.Context()
	switch c.Query("action") {
	case "":
		var req markReadRequest
		if !h.decodeBody(c, &req) {
			return
		}
		id, ok := parseID(req.ID.String())
		if !ok {
			abortWithError(c, http.StatusBadRequest, "Notification ID is required")
			return
		}
		if err := h.svc.Notifications.MarkRead(ctx, currentUser(c), id); err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	case "read-all":
		updated, err := h.svc.Notifications.MarkAllRead(ctx, currentUser(c))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
	case "settings":
		var patch service.SettingsPatch
		if !h.decodeBody(c, &patch) {
			return
		}
		settings, err := h.svc.Notifications.UpdateSettings(ctx, currentUser(c), patch)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": toSettingsResponse(settings)})
	default:
		abortWithError(c, http.StatusNotFound, "Not found")
	}
}

func (h *handler) deleteNotification(c *gin.Context) {
	id, ok := parseID(c.Query("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Notification ID is required")
		return
	}
	if err := h.svc.Notifications.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// notificationsPost runs the reminder sweep. With a configured secret the
// caller must present it in X-Cron-Secret. Without one, production refuses
// the trigger and other environments accept any signed-in user.
func (h *handler) notificationsPost(c *gin.Context) {
	if c.Query("action") != "reminders" {
		abortWithError(c, http.StatusNotFound, "Not found")
		return
	}

	if h.opts.ReminderSecret != "" {
		if !secretMatches(c.GetHeader(headerCronSecret), h.opts.ReminderSecret) {
			abortWithError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
	} else {
		if h.opts.Production {
			h.logger.Warn("⚠️ [Handler] Reminder trigger refused, REMINDER_SECRET is not set")
			abortWithError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !h.authenticate(c) {
			return
		}
	}

	result, err := h.svc.Reminders.RunSweep(c.Request.Context(), h.now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
