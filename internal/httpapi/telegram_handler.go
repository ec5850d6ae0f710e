package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramWebhook receives Bot API updates. Telegram retries anything but a
// 200, so unusable payloads are acknowledged too.
func (h *handler) telegramWebhook(c *gin.Context) {
	if h.opts.WebhookSecret != "" && !secretMatches(c.GetHeader(headerWebhookSecret), h.opts.WebhookSecret) {
		abortWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("⚠️ [Telegram] Unreadable update", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	h.svc.Telegram.HandleUpdate(c.Request.Context(), update)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
