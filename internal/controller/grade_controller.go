package controller

import (
	"gradebook_backend/internal/service"
	"gradebook_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	Service *service.GradeService
}

func NewGradeController(svc *service.GradeService) *GradeController {
	return &GradeController{Service: svc}
}

// @Summary 写入单个成绩分量
// @Tags 成绩模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SetGradeReq true "成绩信息，grade_value 为 null 表示清除"
// @Success 200 {object} util.Response
// @Router /api/teacher/grades [post]
func (c *GradeController) SetGrade(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SetGradeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	grade, err := c.Service.SetGrade(req, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, grade)
}

// @Summary 批量写入成绩(按班级+科目+周期范围)
// @Tags 成绩模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.BulkSetGradesReq true "批量成绩，镜像导入文件结构"
// @Success 200 {object} util.Response
// @Router /api/teacher/grades/bulk [post]
func (c *GradeController) BulkSetGrades(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.BulkSetGradesReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.BulkSetGrades(req, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 查询一个范围内的成绩
// @Tags 成绩模块
// @Produce json
// @Security BearerAuth
// @Param period_id query string true "周期ID"
// @Param class_id query string true "班级ID"
// @Param subject_id query string true "科目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/grades [get]
func (c *GradeController) ListScope(ctx *gin.Context) {
	periodID := ctx.Query("period_id")
	classID := ctx.Query("class_id")
	subjectID := ctx.Query("subject_id")
	if periodID == "" || classID == "" || subjectID == "" {
		util.BadRequest(ctx, "period_id, class_id and subject_id are required")
		return
	}

	grades, err := c.Service.ListScope(periodID, classID, subjectID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, grades)
}

// @Summary 获取单个成绩
// @Tags 成绩模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "成绩ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/grades/{id} [get]
func (c *GradeController) GetGrade(ctx *gin.Context) {
	grade, err := c.Service.GetGrade(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, grade)
}
