package controller

import (
	"gradebook_backend/internal/service"
	"gradebook_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	Service *service.AuditService
}

func NewAuditController(svc *service.AuditService) *AuditController {
	return &AuditController{Service: svc}
}

// @Summary 查询一条记录的完整审计历史
// @Tags 审计模块
// @Produce json
// @Security BearerAuth
// @Param recordId path string true "记录ID(成绩/提交/审批/周期)"
// @Success 200 {object} util.Response
// @Router /api/audit/{recordId} [get]
func (c *AuditController) History(ctx *gin.Context) {
	entries, err := c.Service.History(ctx.Param("recordId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
