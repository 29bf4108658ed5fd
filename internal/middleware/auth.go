package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CallerKey        = "caller"
	CallerHeader     = "X-Caller-ID"
	SessionCallerKey = "caller_id"
)

// LoadCaller resolves the caller id from the X-Caller-ID header, falling back
// to the session, and stores it in the context.
func LoadCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := strings.TrimSpace(c.GetHeader(CallerHeader))
		if caller == "" {
			session := sessions.Default(c)
			if v, ok := session.Get(SessionCallerKey).(string); ok {
				caller = v
			}
		}
		if caller != "" {
			c.Set(CallerKey, caller)
		}
		c.Next()
	}
}

// Caller returns the caller id resolved by LoadCaller.
func Caller(c *gin.Context) (string, bool) {
	caller := c.GetString(CallerKey)
	return caller, caller != ""
}

// CallerRequired rejects requests without a caller id.
func CallerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Caller(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "caller id required"})
			return
		}
		c.Next()
	}
}

// AdminRequired only lets callers for which isAdmin is true through.
func AdminRequired(isAdmin func(caller string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := Caller(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "caller id required"})
			return
		}
		if !isAdmin(caller) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
