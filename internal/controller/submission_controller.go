package controller

import (
	"gradebook_backend/internal/service"
	"gradebook_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	Service *service.SubmissionService
}

func NewSubmissionController(svc *service.SubmissionService) *SubmissionController {
	return &SubmissionController{Service: svc}
}

// @Summary 提交/重新提交一个范围的成绩
// @Tags 提交模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmitReq true "提交范围；重复提交必须带 reason"
// @Success 200 {object} util.Response
// @Router /api/teacher/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Service.Submit(req, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

type advanceReq struct {
	Status string `json:"status" binding:"required"`
}

// @Summary 推进提交状态(仅前进)
// @Tags 提交模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "提交记录ID"
// @Param body body advanceReq true "目标状态"
// @Success 200 {object} util.Response
// @Router /api/admin/submissions/{id}/advance [post]
func (c *SubmissionController) Advance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req advanceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Service.Advance(ctx.Param("id"), req.Status, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

type resetReq struct {
	Reason string `json:"reason"`
}

// @Summary 重置提交为草稿(管理员)
// @Tags 提交模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "提交记录ID"
// @Param body body resetReq false "原因"
// @Success 200 {object} util.Response
// @Router /api/admin/submissions/{id}/reset [post]
func (c *SubmissionController) ResetToDraft(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req resetReq
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Service.ResetToDraft(ctx.Param("id"), user.UserID, req.Reason)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

// @Summary 获取提交记录
// @Tags 提交模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "提交记录ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/submissions/{id} [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	sub, err := c.Service.GetSubmission(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

// @Summary 按范围查询提交记录
// @Tags 提交模块
// @Produce json
// @Security BearerAuth
// @Param period_id query string true "周期ID"
// @Param class_id query string true "班级ID"
// @Param subject_id query string true "科目ID"
// @Param teacher_id query string true "教师ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/submissions [get]
func (c *SubmissionController) GetByScope(ctx *gin.Context) {
	periodID := ctx.Query("period_id")
	classID := ctx.Query("class_id")
	subjectID := ctx.Query("subject_id")
	teacherID := ctx.Query("teacher_id")
	if periodID == "" || classID == "" || subjectID == "" || teacherID == "" {
		util.BadRequest(ctx, "period_id, class_id, subject_id and teacher_id are required")
		return
	}

	sub, err := c.Service.GetByScope(periodID, classID, subjectID, teacherID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}
