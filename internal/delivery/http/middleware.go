package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

// corsPreflightMaxAge is how long, in seconds, browsers may cache a preflight
const corsPreflightMaxAge = "3600"

// CORSMiddleware lets allowed browser origins read the panel API. Every route
// is a GET, so only preflights for GET are answered; any other OPTIONS request
// falls through to the router.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		origin := c.GetHeader("Origin")
		if !isAllowedOrigin(origin, allowedOrigins) {
			c.Next()
			return
		}
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Expose-Headers", requestIDHeader)

		requested := c.GetHeader("Access-Control-Request-Method")
		if c.Request.Method != http.MethodOptions || requested == "" {
			c.Next()
			return
		}
		if requested != http.MethodGet {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		h.Set("Access-Control-Allow-Methods", http.MethodGet)
		h.Set("Access-Control-Allow-Headers", "Authorization, "+requestIDHeader)
		h.Set("Access-Control-Max-Age", corsPreflightMaxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}

// isAllowedOrigin reports whether origin is listed. An entry ending in ":*"
// matches that scheme and host on any numeric port.
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range allowedOrigins {
		prefix, wildcard := strings.CutSuffix(allowed, ":*")
		if !wildcard {
			if origin == allowed {
				return true
			}
			continue
		}
		port, ok := strings.CutPrefix(origin, prefix+":")
		if ok && port != "" && strings.Trim(port, "0123456789") == "" {
			return true
		}
	}
	return false
}

// RequestIDMiddleware tags every request with an id, reusing the caller's if present
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware logs one line per request through zerolog
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}
