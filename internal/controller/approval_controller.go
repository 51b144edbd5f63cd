package controller

import (
	"strconv"

	"gradebook_backend/internal/service"
	"gradebook_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ApprovalController struct {
	Service *service.ApprovalService
}

func NewApprovalController(svc *service.ApprovalService) *ApprovalController {
	return &ApprovalController{Service: svc}
}

// @Summary 申请关闭周期后的成绩覆盖
// @Tags 覆盖审批模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.RequestOverwriteReq true "覆盖申请"
// @Success 201 {object} util.Response
// @Router /api/teacher/overwrite-requests [post]
func (c *ApprovalController) Request(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RequestOverwriteReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	approval, err := c.Service.Request(req, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, approval)
}

type decisionReq struct {
	Status     string `json:"status" binding:"required"`
	ApproverID string `json:"approver_id"`
}

// @Summary 审批覆盖申请(approved/rejected)
// @Tags 覆盖审批模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "申请ID"
// @Param body body decisionReq true "审批结果"
// @Success 200 {object} util.Response
// @Router /api/admin/overwrite-requests/{id}/decision [post]
func (c *ApprovalController) Decide(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req decisionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	approver := req.ApproverID
	if approver == "" {
		approver = user.UserID
	}

	approval, err := c.Service.Decide(ctx.Param("id"), req.Status, approver)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, approval)
}

// @Summary 查询覆盖申请列表
// @Tags 覆盖审批模块
// @Produce json
// @Security BearerAuth
// @Param status query string false "按状态过滤(pending/approved/rejected)"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/admin/overwrite-requests [get]
func (c *ApprovalController) ListApprovals(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	status := ctx.Query("status")

	approvals, total, err := c.Service.ListApprovals(status, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": approvals, "total": total})
}

// @Summary 查询某个成绩的全部覆盖申请
// @Tags 覆盖审批模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "成绩ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/grades/{id}/overwrite-requests [get]
func (c *ApprovalController) ListForGrade(ctx *gin.Context) {
	approvals, err := c.Service.ListForGrade(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, approvals)
}

// @Summary 获取覆盖申请详情
// @Tags 覆盖审批模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "申请ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/overwrite-requests/{id} [get]
func (c *ApprovalController) GetApproval(ctx *gin.Context) {
	approval, err := c.Service.GetApproval(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, approval)
}
