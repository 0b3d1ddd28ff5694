package controller

import (
	"strconv"
	"studypath_backend/internal/service"
	"studypath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// ProgramStats godoc
// @Summary 课程项目报名统计（管理员）
// @Description 完成/进行中/未开始数量与完成率区间分布
// @Tags stats
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程项目ID"
// @Success 200 {object} util.Response{data=service.ProgramStats}
// @Router /api/admin/programs/{id}/stats [get]
func (c *StatsController) ProgramStats(ctx *gin.Context) {
	programID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	stats, err := c.StatsService.ProgramStats(ctx.Request.Context(), programID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// Ranking godoc
// @Summary 按完成率排序的报名列表（管理员）
// @Tags stats
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程项目ID"
// @Param order query string false "desc（默认）或 asc"
// @Param min query number false "完成率下限 [0,1]"
// @Param max query number false "完成率上限 [0,1]"
// @Success 200 {object} util.Response
// @Router /api/admin/programs/{id}/stats/ranking [get]
func (c *StatsController) Ranking(ctx *gin.Context) {
	programID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	minStr, hasMin := ctx.GetQuery("min")
	maxStr, hasMax := ctx.GetQuery("max")
	if hasMin || hasMax {
		min := 0.0
		max := 1.0
		if hasMin {
			if min, err = strconv.ParseFloat(minStr, 64); err != nil {
				util.BadRequest(ctx, "invalid min")
				return
			}
		}
		if hasMax {
			if max, err = strconv.ParseFloat(maxStr, 64); err != nil {
				util.BadRequest(ctx, "invalid max")
				return
			}
		}

		views, err := c.StatsService.ByPercentRange(programID, min, max)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, views)
		return
	}

	ascending := ctx.DefaultQuery("order", "desc") == "asc"
	views, err := c.StatsService.Ranking(programID, ascending)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, views)
}
