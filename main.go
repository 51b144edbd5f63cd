// @title Gradebook 成绩生命周期与审计引擎 API
// @version 1.0
// @description 成绩录入、提交、锁定、覆盖审批与审计后端服务。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"gradebook_backend/internal/app"
	"gradebook_backend/internal/config"
	"gradebook_backend/pkg/configwatcher"
	"gradebook_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.Log.Info("Config reloaded", zap.String("mode", newCfg.Server.Mode))
	})

	go configwatcher.WatchConfig("configs/config.yaml", application.OnConfigReload)

	application.Run()
}
