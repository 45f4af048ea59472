package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// RequestID tags each request with an X-Request-ID, honoring one supplied by
// the caller so IDs survive proxies and retries.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one line per request after the handler chain completes:
// request id, method, path with query, status, response size, and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		id, _ := c.Get(requestIDKey)
		log.Printf("middleware.Logger: [%v] %s %s status=%d bytes=%d elapsed=%s",
			id, c.Request.Method, path, c.Writer.Status(), c.Writer.Size(), time.Since(start))
	}
}

// Recovery converts handler panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
