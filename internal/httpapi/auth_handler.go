package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbuddy/internal/service"
)

type registerRequest struct {
	service.Credentials
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

func (h *handler) authPost(c *gin.Context) {
	switch c.Query("action") {
	case "register":
		h.register(c)
	case "login":
		h.login(c)
	case "logout":
		h.logout(c)
	default:
		abortWithError(c, http.StatusNotFound, "Not found")
	}
}

func (h *handler) authGet(c *gin.Context) {
	if c.Query("action") != "verify" {
		abortWithError(c, http.StatusNotFound, "Not found")
		return
	}
	if !h.authenticate(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "userId": currentUser(c)})
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if !h.decodeBody(c, &req) {
		return
	}
	user, token, err := h.svc.Auth.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user), "token": token})
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if !h.decodeBody(c, &req) {
		return
	}
	user, token, err := h.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user), "token": token})
}

func (h *handler) logout(c *gin.Context) {
	token := c.GetHeader(headerAuthToken)
	if token == "" {
		abortWithError(c, http.StatusUnauthorized, "Token required")
		return
	}
	if err := h.svc.Auth.Logout(c.Request.Context(), token); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
