package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shareit/internal/metrics"
)

// HeaderUserID carries the acting user's identity on every call. There is
// no session or token layer; ownership checks are the only authorization.
const HeaderUserID = "X-Sharer-User-Id"

const headerRequestID = "X-Request-Id"

// RequestID stamps a request id when the gateway did not already set one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request and feeds the
// prometheus counters.
func AccessLog(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.ObserveHTTP(route, strconv.Itoa(status), elapsed.Seconds())

		logger.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
	}
}

// userID extracts the acting user from the identity header.
func userID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader(HeaderUserID)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": HeaderUserID + " header is required"})
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": HeaderUserID + " header must be a positive number"})
		return 0, false
	}
	return uint(id), true
}

// pagination reads from/size query params as a raw zero-based offset and
// a page length.
func pagination(c *gin.Context, defaultSize int) (from, size int, ok bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a non-negative number"})
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil || size < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive number"})
		return 0, 0, false
	}
	return from, size, true
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive number"})
		return 0, false
	}
	return uint(id), true
}
