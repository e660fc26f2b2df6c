package handle

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sinder-app/sinder/server/handle/middlewares"
)

func (h *Handler) InitRouter() {
	h.Engine().Use(
		middlewares.RequestId(),
		middlewares.Logger(),
		middlewares.Recovery(),
	)
	if len(h.options.origins) > 0 {
		h.Engine().Use(middlewares.Cors(h.options.origins...))
	}
	if h.options.enablePProf {
		pprof.Register(h.Engine())
	}
	if h.options.enablePrometheus {
		h.Engine().GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	group := h.Engine().Group("/api")
	group.GET("/health", h.Health)
	group.GET("/sins", h.Sins)
	group.GET("/user/:address/absolved", h.Absolved)
}
