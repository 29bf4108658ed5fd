package handlers

import (
	"net/http"

	"modlink/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	engine *services.Engine
}

func NewUserHandler(engine *services.Engine) *UserHandler {
	return &UserHandler{engine: engine}
}

// Profile returns the user's reputation.
func (h *UserHandler) Profile(c *gin.Context) {
	u, ok := h.engine.GetUser(c.Param("id"))
	if !ok {
		notFound(c, "user not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

// ReputationLogs lists every reputation change of the user, oldest first.
func (h *UserHandler) ReputationLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.ReputationLogs(c.Param("id")))
}
