package handle

import (
	"github.com/gin-gonic/gin"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/server/handle/api"
	"github.com/sinder-app/sinder/tables"
	"net/http"
	"strings"
)

// Absolved lists the sins the address holds a token of.
func (h *Handler) Absolved(ctx *gin.Context) {
	address := strings.TrimSpace(ctx.Param("address"))
	if address == "" {
		ctx.JSON(http.StatusBadRequest, api.RespErr(api.MsgAddressRequired))
		return
	}
	if err := h.doAbsolved(ctx, address); err != nil {
		log.Srv.Errorf("absolved sins of %s: %v", address, err)
		ctx.JSON(http.StatusInternalServerError, api.RespInternalErr(err))
		return
	}
}

func (h *Handler) doAbsolved(ctx *gin.Context, address string) error {
	absolutions, skipped, err := h.Registry().UserAbsolutions(ctx, address)
	if err != nil {
		return err
	}
	h.record(tables.StatisticAbsolvedQueries, 1)
	h.recordSkips(skipped)
	ctx.JSON(http.StatusOK, api.AbsolvedResp{AbsolvedSins: absolutions})
	return nil
}
