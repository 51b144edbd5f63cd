package controller

import (
	"strconv"

	"gradebook_backend/internal/service"
	"gradebook_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PeriodController struct {
	Service *service.PeriodService
}

func NewPeriodController(svc *service.PeriodService) *PeriodController {
	return &PeriodController{Service: svc}
}

// @Summary 创建成绩上报周期
// @Tags 周期模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreatePeriodReq true "周期信息"
// @Success 201 {object} util.Response
// @Router /api/admin/periods [post]
func (c *PeriodController) CreatePeriod(ctx *gin.Context) {
	var req service.CreatePeriodReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	period, err := c.Service.CreatePeriod(req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, period)
}

type transitionReq struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// @Summary 周期状态迁移(open/closed/reopened)
// @Tags 周期模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "周期ID"
// @Param body body transitionReq true "目标状态与原因"
// @Success 200 {object} util.Response
// @Router /api/admin/periods/{id}/status [post]
func (c *PeriodController) Transition(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req transitionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	period, err := c.Service.Transition(ctx.Param("id"), req.Status, user.UserID, req.Reason)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, period)
}

// @Summary 获取周期详情
// @Tags 周期模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "周期ID"
// @Success 200 {object} util.Response
// @Router /api/periods/{id} [get]
func (c *PeriodController) GetPeriod(ctx *gin.Context) {
	period, err := c.Service.GetPeriod(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, period)
}

// @Summary 获取周期列表
// @Tags 周期模块
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/periods [get]
func (c *PeriodController) ListPeriods(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	periods, total, err := c.Service.ListPeriods(page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": periods, "total": total})
}
