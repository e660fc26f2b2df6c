package middlewares

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/sinder-app/sinder/internal/sentry"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/server/handle/api"
	"net/http"
)

// Recovery turns a handler panic into the generic 500 payload and reports
// it to sentry when a client is configured.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			sentry.CaptureRequestPanic(r, c.Request)
			log.Srv.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.RespInternalErr(fmt.Errorf("%v", r)))
		}()
		c.Next()
	}
}
