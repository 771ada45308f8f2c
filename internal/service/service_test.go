package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/pkg/llm"
	"github.com/smedocgen/backend/internal/repository"
	"gorm.io/gorm"
)

// mockProvider 可编程的 LLM 补全桩
type mockProvider struct {
	CompleteFunc func(ctx context.Context, prompt string, opts llm.CallOptions) (string, error)
	calls        int
	lastPrompt   string
	lastOpts     llm.CallOptions
}

func (m *mockProvider) Complete(ctx context.Context, prompt string, opts llm.CallOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, opts)
	}
	return "generated text", nil
}

// testEnv 服务层测试环境：内存库 + 预置设置 + LLM 桩
type testEnv struct {
	db           *gorm.DB
	templateRepo repository.TemplateRepository
	settingRepo  repository.SettingRepository
	historyRepo  repository.HistoryRepository
	settings     SettingService
	provider     *mockProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.PromptTemplate{}, &model.AppConfig{}, &model.DocumentHistory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	env := &testEnv{
		db:           db,
		templateRepo: repository.NewTemplateRepository(db),
		settingRepo:  repository.NewSettingRepository(db),
		historyRepo:  repository.NewHistoryRepository(db),
		provider:     &mockProvider{},
	}
	env.settings = NewSettingService(env.settingRepo, env.provider)

	ctx := context.Background()
	if err := SeedDefaultSettings(ctx, env.settingRepo); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
	// 测试默认配置好 API Key
	if err := env.settingRepo.UpdateValue(ctx, KeyLLMAPIKey, "sk-test"); err != nil {
		t.Fatalf("failed to set api key: %v", err)
	}
	return env
}

// mustCreateTemplate 创建一个激活的测试模板
func (env *testEnv) mustCreateTemplate(t *testing.T, name, docType, content string) *model.PromptTemplate {
	t.Helper()
	tpl := &model.PromptTemplate{
		Name:            name,
		DocumentType:    docType,
		TemplateContent: content,
		IsActive:        true,
	}
	if err := env.templateRepo.Create(context.Background(), tpl); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	return tpl
}
