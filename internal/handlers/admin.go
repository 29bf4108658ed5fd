package handlers

import (
	"net/http"

	"modlink/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	engine *services.Engine
}

func NewAdminHandler(engine *services.Engine) *AdminHandler {
	return &AdminHandler{engine: engine}
}

// Moderate runs the moderation decision on one content.
func (h *AdminHandler) Moderate(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	res, err := h.engine.Moderate(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type reputationRequest struct {
	Delta *int64 `json:"delta" form:"delta"`
}

// UpdateReputation adjusts a user's reputation, registering the user if
// needed. The result never drops below zero.
func (h *AdminHandler) UpdateReputation(c *gin.Context) {
	var req reputationRequest
	if err := c.ShouldBind(&req); err != nil || req.Delta == nil {
		badRequest(c, "delta is required")
		return
	}
	u, err := h.engine.UpdateReputation(c.Param("id"), *req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
