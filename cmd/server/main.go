package main

import (
	"context"
	"flag"
	"log"
	"os"

	"k8s.io/klog/v2"

	"github.com/smedocgen/backend/config"
	"github.com/smedocgen/backend/internal/handler"
	"github.com/smedocgen/backend/internal/pkg/database"
	"github.com/smedocgen/backend/internal/pkg/llm"
	"github.com/smedocgen/backend/internal/repository"
	"github.com/smedocgen/backend/internal/router"
	"github.com/smedocgen/backend/internal/service"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	templateRepo := repository.NewTemplateRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// 初始化 Service
	provider := llm.NewClient()
	settingService := service.NewSettingService(settingRepo, provider)
	templateService := service.NewTemplateService(templateRepo, settingService, provider)
	generationService := service.NewGenerationService(templateRepo, historyRepo, settingService, provider)
	historyService := service.NewHistoryService(historyRepo, templateRepo, settingService)

	ctx := context.Background()

	// 预置默认配置，API Key 可通过环境变量注入
	if err := service.SeedDefaultSettings(ctx, settingRepo); err != nil {
		log.Fatalf("Failed to seed default settings: %v", err)
	}
	seedAPIKeyFromEnv(ctx, settingRepo)

	// 启动时按保留期清理过期历史
	purgeExpiredHistory(ctx, historyService)

	// 初始化 Handler
	templateHandler := handler.NewTemplateHandler(templateService)
	settingHandler := handler.NewSettingHandler(settingService)
	generateHandler := handler.NewGenerateHandler(generationService)
	historyHandler := handler.NewHistoryHandler(historyService)

	// CORS 来源取自应用设置
	snap, err := settingService.Snapshot(ctx)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	// 设置路由
	r := router.Setup(cfg, snap.CORSOrigins, templateHandler, settingHandler, generateHandler, historyHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAPIKeyFromEnv 数据库中未配置 API Key 时从环境变量注入
func seedAPIKeyFromEnv(ctx context.Context, settingRepo repository.SettingRepository) {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		return
	}

	cfg, err := settingRepo.GetByKey(ctx, service.KeyLLMAPIKey)
	if err != nil || cfg.ConfigValue != "" {
		return
	}
	if err := settingRepo.UpdateValue(ctx, service.KeyLLMAPIKey, apiKey); err != nil {
		klog.Warningf("注入 LLM_API_KEY 失败: %v", err)
		return
	}
	klog.V(6).Info("已从环境变量注入 LLM API Key")
}

// purgeExpiredHistory 启动时清理超过保留期的历史记录
func purgeExpiredHistory(ctx context.Context, historyService service.HistoryService) {
	affected, err := historyService.PurgeExpired(ctx)
	if err != nil {
		klog.V(6).Infof("清理过期历史失败: %v", err)
		return
	}

	if affected > 0 {
		klog.V(6).Infof("启动时清理了 %d 条过期历史记录", affected)
	}
}
