package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggerMiddleware creates a request logging middleware. Every request
// gets a request ID, and lines are tagged with the branch the request
// was resolved to.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Generate request ID if not present
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		if raw != "" {
			path = path + "?" + raw
		}

		// Branch scoping happens further down the chain, so the value
		// is only there after Next has run.
		branch := "-"
		if id, ok := c.Get("branch_id"); ok {
			if branchID, ok := id.(uuid.UUID); ok {
				branch = branchID.String()[:8]
			}
		}

		log.Printf("[%s] %s | %d | %v | %s | branch=%s | %s",
			requestID[:8],
			method,
			statusCode,
			latency,
			clientIP,
			branch,
			path,
		)

		// Log errors if any
		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				log.Printf("[%s] Error: %v", requestID[:8], e.Err)
			}
		}
	}
}
