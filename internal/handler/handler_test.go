package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/pkg/llm"
	"github.com/smedocgen/backend/internal/repository"
	"github.com/smedocgen/backend/internal/service"
	"gorm.io/gorm"
)

// stubProvider 测试用 LLM 补全桩
type stubProvider struct {
	reply string
	err   error
	calls int
}

func (p *stubProvider) Complete(ctx context.Context, prompt string, opts llm.CallOptions) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

// testServer 完整路由 + 内存库的 Handler 测试环境
type testServer struct {
	router       *gin.Engine
	provider     *stubProvider
	templateRepo repository.TemplateRepository
	settingRepo  repository.SettingRepository
	historyRepo  repository.HistoryRepository
	settings     service.SettingService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.PromptTemplate{}, &model.AppConfig{}, &model.DocumentHistory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	templateRepo := repository.NewTemplateRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	provider := &stubProvider{reply: "generated document text"}

	settingService := service.NewSettingService(settingRepo, provider)
	templateService := service.NewTemplateService(templateRepo, settingService, provider)
	generationService := service.NewGenerationService(templateRepo, historyRepo, settingService, provider)
	historyService := service.NewHistoryService(historyRepo, templateRepo, settingService)

	ctx := context.Background()
	if err := service.SeedDefaultSettings(ctx, settingRepo); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
	if err := settingRepo.UpdateValue(ctx, service.KeyLLMAPIKey, "sk-test"); err != nil {
		t.Fatalf("failed to set api key: %v", err)
	}

	templateHandler := NewTemplateHandler(templateService)
	settingHandler := NewSettingHandler(settingService)
	generateHandler := NewGenerateHandler(generationService)
	historyHandler := NewHistoryHandler(historyService)

	r := gin.New()
	api := r.Group("/api")
	{
		templates := api.Group("/templates")
		{
			templates.GET("", templateHandler.List)
			templates.POST("", templateHandler.Create)
			templates.GET("/:id", templateHandler.Get)
			templates.PUT("/:id", templateHandler.Update)
			templates.DELETE("/:id", templateHandler.Delete)
			templates.POST("/:id/test", templateHandler.Test)
		}
		settings := api.Group("/settings")
		{
			settings.GET("", settingHandler.List)
			settings.PUT("", settingHandler.Update)
			settings.GET("/test-connection", settingHandler.TestConnection)
		}
		api.POST("/generate", generateHandler.Generate)
		history := api.Group("/history")
		{
			history.GET("/docs", historyHandler.List)
			history.GET("/docs/:id", historyHandler.Get)
			history.GET("/docs/:id/download", historyHandler.Download)
		}
	}

	return &testServer{
		router:       r,
		provider:     provider,
		templateRepo: templateRepo,
		settingRepo:  settingRepo,
		historyRepo:  historyRepo,
		settings:     settingService,
	}
}

// do 发送一次 JSON 请求
func (ts *testServer) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload error: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) mustCreateTemplate(t *testing.T, name, docType, content string) *model.PromptTemplate {
	t.Helper()
	tpl := &model.PromptTemplate{
		Name:            name,
		DocumentType:    docType,
		TemplateContent: content,
		IsActive:        true,
	}
	if err := ts.templateRepo.Create(context.Background(), tpl); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	return tpl
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("unmarshal response error: %v, body: %s", err, w.Body.String())
	}
}
