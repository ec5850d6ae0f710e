package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbuddy/internal/service"
)

func (h *handler) getProfile(c *gin.Context) {
	profile, err := h.svc.Profiles.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *handler) updateProfile(c *gin.Context) {
	var patch service.ProfilePatch
	if !h.decodeBody(c, &patch) {
		return
	}
	profile, err := h.svc.Profiles.Update(c.Request.Context(), currentUser(c), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
