package mw

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prestamos-admin/internal/upstream"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
)

// RequestID tags every request with an id, reusing the caller's when sent,
// and forwards it to the loan API calls made while serving the request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(upstream.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
