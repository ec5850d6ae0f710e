package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbuddy/internal/service"
)

type goalUpdateRequest struct {
	ID json.Number `json:"id"`
	service.GoalPatch
}

// listGoals returns active goals, or a single goal (deleted ones included) for ?id=.
func (h *handler) listGoals(c *gin.Context) {
	ctx := c.Request.Context()
	if raw, ok := c.GetQuery("id"); ok {
		id, valid := parseID(raw)
		if !valid {
			abortWithError(c, http.StatusBadRequest, "Goal ID is required")
			return
		}
		goal, err := h.svc.Goals.Get(ctx, currentUser(c), id)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"goal": toGoalResponse(goal)})
		return
	}

	goals, err := h.svc.Goals.List(ctx, currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": toGoalResponses(goals)})
}

func (h *handler) createGoal(c *gin.Context) {
	var in service.CreateGoalInput
	if !h.decodeBody(c, &in) {
		return
	}
	goal, err := h.svc.Goals.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": toGoalResponse(goal)})
}

func (h *handler) updateGoal(c *gin.Context) {
	var req goalUpdateRequest
	if !h.decodeBody(c, &req) {
		return
	}
	id, ok := parseID(req.ID.String())
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Goal ID is required")
		return
	}
	goal, err := h.svc.Goals.Update(c.Request.Context(), currentUser(c), id, req.GoalPatch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": toGoalResponse(goal)})
}

func (h *handler) deleteGoal(c *gin.Context) {
	id, ok := parseID(c.Query("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Goal ID is required")
		return
	}
	if err := h.svc.Goals.SoftDelete(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
