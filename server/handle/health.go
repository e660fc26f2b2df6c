package handle

import (
	"github.com/gin-gonic/gin"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/server/handle/api"
	"github.com/sinder-app/sinder/tables"
	"net/http"
)

// Health reports the deployer counter as both loaded count and last id.
func (h *Handler) Health(ctx *gin.Context) {
	if err := h.doHealth(ctx); err != nil {
		log.Srv.Errorf("health check: %v", err)
		ctx.JSON(http.StatusInternalServerError, api.RespHealthErr(err))
		return
	}
}

func (h *Handler) doHealth(ctx *gin.Context) error {
	n, err := h.Registry().Count(ctx)
	if err != nil {
		return err
	}
	h.record(tables.StatisticHealthChecks, 1)
	ctx.JSON(http.StatusOK, api.HealthResp{
		Status:          api.StatusHealthy,
		SinsLoaded:      n,
		DeployerAddress: h.DeployerAddress(),
		LastKnownSinId:  n,
		Timestamp:       h.options.now().UnixMilli(),
	})
	return nil
}
