package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"modlink/internal/middleware"
	"modlink/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps engine errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		code = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, services.ErrIndexOutOfRange):
		code = http.StatusUnprocessableEntity
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}

// contentID parses the :id path parameter.
func contentID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid content id")
		return 0, false
	}
	return id, true
}

// caller returns the caller id; routes using it sit behind CallerRequired.
func caller(c *gin.Context) string {
	id, _ := middleware.Caller(c)
	return id
}
