package handlers

import (
	"net/http"
	"time"

	"modlink/internal/services"
	"modlink/internal/utils"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	engine *services.Engine
	now    func() time.Time
}

func NewContentHandler(engine *services.Engine) *ContentHandler {
	return &ContentHandler{engine: engine, now: time.Now}
}

type submitRequest struct {
	Body string `json:"body" form:"body"`
}

// Submit stores a content authored by the caller.
func (h *ContentHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	id, err := h.engine.SubmitContent(caller(c), req.Body, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ContentHandler) Get(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	content, found := h.engine.GetContent(id)
	if !found {
		notFound(c, "content not found")
		return
	}
	c.JSON(http.StatusOK, content)
}

// Render returns the body as sanitized HTML.
func (h *ContentHandler) Render(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	content, found := h.engine.GetContent(id)
	if !found {
		notFound(c, "content not found")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(utils.RenderMarkdown(content.Body)))
}

// Reports lists reports on the content, including after it was removed.
func (h *ContentHandler) Reports(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.engine.GetReports(id))
}
