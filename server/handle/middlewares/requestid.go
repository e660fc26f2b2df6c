package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIdHeader = "X-Request-ID"
	RequestIdKey    = "request_id"
)

// RequestId keeps a caller supplied uuid request id or assigns a new one.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIdHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIdKey, id)
		c.Header(RequestIdHeader, id)
		c.Next()
	}
}
