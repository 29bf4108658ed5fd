package handlers

import (
	"net/http"
	"strconv"

	"modlink/internal/models"
	"modlink/internal/services"

	"github.com/gin-gonic/gin"
)

type GuidelineHandler struct {
	engine *services.Engine
}

func NewGuidelineHandler(engine *services.Engine) *GuidelineHandler {
	return &GuidelineHandler{engine: engine}
}

// List returns the guidelines in proposal order.
func (h *GuidelineHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetGuidelines())
}

type proposeRequest struct {
	Rule string `json:"rule" form:"rule"`
}

func (h *GuidelineHandler) Propose(c *gin.Context) {
	var req proposeRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	g, err := h.engine.ProposeGuideline(req.Rule)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

type guidelineVoteRequest struct {
	Support *bool `json:"support" form:"support"`
}

// Vote casts a weighted vote. :ref is either the guideline's position in the
// list or its id.
func (h *GuidelineHandler) Vote(c *gin.Context) {
	var req guidelineVoteRequest
	if err := c.ShouldBind(&req); err != nil || req.Support == nil {
		badRequest(c, "support must be true or false")
		return
	}

	var (
		g   models.Guideline
		err error
	)
	ref := c.Param("ref")
	if index, perr := strconv.Atoi(ref); perr == nil {
		g, err = h.engine.CastGuidelineVote(caller(c), index, *req.Support)
	} else {
		g, err = h.engine.CastGuidelineVoteByID(caller(c), ref, *req.Support)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
