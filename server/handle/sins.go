package handle

import (
	"github.com/gin-gonic/gin"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/server/handle/api"
	"github.com/sinder-app/sinder/sin"
	"github.com/sinder-app/sinder/tables"
	"net/http"
)

// Sins lists the registry. Only active=true (the default) filters out
// inactive sins.
func (h *Handler) Sins(ctx *gin.Context) {
	limit := queryInt(ctx, "limit", constants.DefaultPageLimit)
	offset := queryInt(ctx, "offset", constants.DefaultPageOffset)
	activeOnly := ctx.Query("active")
	if activeOnly == "" {
		activeOnly = "true"
	}
	if err := h.doSins(ctx, limit, offset, activeOnly == "true"); err != nil {
		log.Srv.Errorf("list sins: %v", err)
		ctx.JSON(http.StatusInternalServerError, api.RespInternalErr(err))
		return
	}
}

func (h *Handler) doSins(ctx *gin.Context, limit, offset int, activeOnly bool) error {
	all, skipped, err := h.Registry().LoadAll(ctx)
	if err != nil {
		return err
	}
	h.record(tables.StatisticSinsEnumerated, uint64(len(all)))
	h.recordSkips(skipped)

	filtered := all
	if activeOnly {
		filtered = make([]*sin.Sin, 0, len(all))
		for _, s := range all {
			if s.Active {
				filtered = append(filtered, s)
			}
		}
	}
	sins := paginate(filtered, offset, limit)

	// hasMore compares against the unfiltered total, so with the active
	// filter on it can be true past the last active sin.
	ctx.JSON(http.StatusOK, api.SinsResp{
		Sins:    sins,
		Total:   len(all),
		HasMore: offset+len(sins) < len(all),
	})
	return nil
}

// paginate returns sins[offset:offset+limit] clipped to the slice bounds.
func paginate(sins []*sin.Sin, offset, limit int) []*sin.Sin {
	if offset >= len(sins) || limit == 0 {
		return []*sin.Sin{}
	}
	end := len(sins)
	if limit < end-offset {
		end = offset + limit
	}
	return sins[offset:end]
}

// queryInt reads a numeric query parameter. Missing or empty values use
// def, anything non-numeric reads as 0 and negatives clamp to 0.
func queryInt(ctx *gin.Context, key string, def int) int {
	v := ctx.Query(key)
	if v == "" {
		return def
	}
	n := gconv.Int(v)
	if n < 0 {
		return 0
	}
	return n
}
