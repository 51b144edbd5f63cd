package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gradebook_backend/internal/config"
	"gradebook_backend/internal/controller"
	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/service"
	"gradebook_backend/pkg/database"
	"gradebook_backend/pkg/logger"
	"gradebook_backend/pkg/monitoring"
	"gradebook_backend/pkg/security"
	"gradebook_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	configCallbacks []func(*config.Config)
}

type repositories struct {
	period     *repository.PeriodRepository
	grade      *repository.GradeRepository
	submission *repository.SubmissionRepository
	approval   *repository.ApprovalRepository
	audit      *repository.AuditRepository
}

type services struct {
	period     *service.PeriodService
	grade      *service.GradeService
	submission *service.SubmissionService
	approval   *service.ApprovalService
	audit      *service.AuditService
}

type controllers struct {
	period     *controller.PeriodController
	grade      *controller.GradeController
	submission *controller.SubmissionController
	approval   *controller.ApprovalController
	audit      *controller.AuditController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OnConfigReload 配置热更新回调入口，由 configwatcher 驱动
func (a *App) OnConfigReload(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		period:     repository.NewPeriodRepository(db),
		grade:      repository.NewGradeRepository(db),
		submission: repository.NewSubmissionRepository(db),
		approval:   repository.NewApprovalRepository(db),
		audit:      repository.NewAuditRepository(db),
	}
}

func (a *App) initServices(repos *repositories, db *gorm.DB) *services {
	s := &services{}

	s.audit = service.NewAuditService(repos.audit)
	s.period = service.NewPeriodService(repos.period, repos.audit, db)
	s.grade = service.NewGradeService(repos.grade, repos.period, repos.audit, db)
	s.submission = service.NewSubmissionService(repos.submission, repos.audit, db)
	s.approval = service.NewApprovalService(repos.approval, repos.grade, repos.period, repos.audit, s.grade, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		period:     controller.NewPeriodController(s.period),
		grade:      controller.NewGradeController(s.grade),
		submission: controller.NewSubmissionController(s.submission),
		approval:   controller.NewApprovalController(s.approval),
		audit:      controller.NewAuditController(s.audit),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, db)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("gradebook-engine", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	}
	return gin.DebugMode
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
