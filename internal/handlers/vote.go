package handlers

import (
	"net/http"
	"strings"

	"modlink/internal/models"
	"modlink/internal/services"

	"github.com/gin-gonic/gin"
)

// Scheduler queues background moderation of a content.
type Scheduler interface {
	Schedule(contentID uint64) bool
}

type VoteHandler struct {
	engine    *services.Engine
	scheduler Scheduler
}

// NewVoteHandler builds the handler. scheduler may be nil, in which case
// content is only moderated on explicit request.
func NewVoteHandler(engine *services.Engine, scheduler Scheduler) *VoteHandler {
	return &VoteHandler{engine: engine, scheduler: scheduler}
}

type voteRequest struct {
	Choice string `json:"choice" form:"choice"`
}

// Vote records the caller's remove/keep vote on a content.
func (h *VoteHandler) Vote(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	var req voteRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	choice := models.VoteChoice(strings.ToLower(strings.TrimSpace(req.Choice)))
	vote, err := h.engine.CastContentVote(caller(c), id, choice)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.scheduler != nil {
		h.scheduler.Schedule(id)
	}
	c.JSON(http.StatusCreated, vote)
}

type reportRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// Report files the caller's report on a content.
func (h *VoteHandler) Report(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	var req reportRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	report, err := h.engine.ReportContent(caller(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
