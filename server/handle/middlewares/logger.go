package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sinder-app/sinder/log"
	"time"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		c.Next()
		if raw != "" {
			path = path + "?" + raw
		}
		log.Srv.Infof("request_id: %s, method: %s, path: %s, status: %d, latency: %s, client_ip: %s, error_message: %s, body_size: %d",
			c.GetString(RequestIdKey), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP(),
			c.Errors.ByType(gin.ErrorTypePrivate).String(), c.Writer.Size())
	}
}
