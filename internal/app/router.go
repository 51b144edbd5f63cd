package app

import (
	"gradebook_backend/internal/config"
	"gradebook_backend/internal/middleware"
	"gradebook_backend/internal/model"
	"gradebook_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)

		// 审计历史 教师与管理员均可查
		authGroup.GET("/audit/:recordId", middleware.RoleMiddleware(model.Teacher), c.audit.History)

		// 周期只读接口
		authGroup.GET("/periods", middleware.RoleMiddleware(model.Teacher), c.period.ListPeriods)
		authGroup.GET("/periods/:id", middleware.RoleMiddleware(model.Teacher), c.period.GetPeriod)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/grades", c.grade.SetGrade)
		teacher.POST("/grades/bulk", c.grade.BulkSetGrades)
		teacher.GET("/grades", c.grade.ListScope)
		teacher.GET("/grades/:id", c.grade.GetGrade)
		teacher.GET("/grades/:id/overwrite-requests", c.approval.ListForGrade)

		teacher.POST("/submissions", c.submission.Submit)
		teacher.GET("/submissions", c.submission.GetByScope)
		teacher.GET("/submissions/:id", c.submission.GetSubmission)

		teacher.POST("/overwrite-requests", c.approval.Request)
		teacher.GET("/overwrite-requests/:id", c.approval.GetApproval)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/periods", c.period.CreatePeriod)
		admin.POST("/periods/:id/status", c.period.Transition)

		admin.POST("/submissions/:id/advance", c.submission.Advance)
		admin.POST("/submissions/:id/reset", c.submission.ResetToDraft)

		admin.GET("/overwrite-requests", c.approval.ListApprovals)
		admin.POST("/overwrite-requests/:id/decision", c.approval.Decide)
	}
}
