package handlers

import (
	"net/http"
	"strings"

	"modlink/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler binds a caller id to the cookie session. Identity is
// asserted, not verified; requests may also send the caller header.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginRequest struct {
	CallerID string `json:"caller_id" form:"caller_id"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	id := strings.TrimSpace(req.CallerID)
	if id == "" {
		badRequest(c, "caller_id is required")
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionCallerKey, id)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"caller_id": id})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Status(http.StatusNoContent)
}
