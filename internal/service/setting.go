package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/pkg/llm"
	"github.com/smedocgen/backend/internal/repository"
	"k8s.io/klog/v2"
)

// maskedValue 敏感配置（API Key）对外展示的掩码
const maskedValue = "********"

// LLMSnapshot 一次生成调用所需的设置快照
// 每次调用读取一次，避免隐式的全局可变状态
type LLMSnapshot struct {
	APIKey        string
	BaseURL       string
	Model         string
	TestModel     string
	SystemMessage string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
	Retries       int
	DefaultFormat string
	EnableHistory bool
	RetentionDays int
	CORSOrigins   []string
}

// CallOptions 将快照转换为 LLM 调用参数
// test 为 true 时使用连接测试模型
func (s *LLMSnapshot) CallOptions(test bool) llm.CallOptions {
	model := s.Model
	if test {
		model = s.TestModel
	}
	return llm.CallOptions{
		BaseURL:       s.BaseURL,
		APIKey:        s.APIKey,
		Model:         model,
		SystemMessage: s.SystemMessage,
		Temperature:   s.Temperature,
		MaxTokens:     s.MaxTokens,
		Timeout:       s.Timeout,
		Retries:       s.Retries,
	}
}

// RequireAPIKey 生成前校验 API Key 已配置
func (s *LLMSnapshot) RequireAPIKey() error {
	if s.APIKey == "" {
		return fmt.Errorf("%w: llm_api_key is not configured, please set it in the application settings", ErrValidation)
	}
	return nil
}

// ConnectionTestResult LLM 连接测试结果
type ConnectionTestResult struct {
	Status      string `json:"status"` // ok, error
	Message     string `json:"message"`
	Model       string `json:"model,omitempty"`
	SampleReply string `json:"sample_reply,omitempty"`
}

// SettingService 应用配置服务接口
type SettingService interface {
	// List 列出所有配置项（API Key 掩码后返回）
	List(ctx context.Context) ([]model.AppConfig, error)

	// Update 批量更新配置值；任一键不在固定键空间时整体拒绝
	Update(ctx context.Context, updates map[string]string) (int, error)

	// Snapshot 读取并解析当前设置为类型化快照
	Snapshot(ctx context.Context) (*LLMSnapshot, error)

	// TestConnection 用测试模型做一次最小补全来验证连接
	TestConnection(ctx context.Context) *ConnectionTestResult
}

// settingService 应用配置服务实现
type settingService struct {
	repo     repository.SettingRepository
	provider CompletionProvider
}

// NewSettingService 创建应用配置服务
func NewSettingService(repo repository.SettingRepository, provider CompletionProvider) SettingService {
	return &settingService{repo: repo, provider: provider}
}

// List 列出所有配置项（API Key 掩码后返回）
func (s *settingService) List(ctx context.Context) ([]model.AppConfig, error) {
	configs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if configs[i].ConfigKey == KeyLLMAPIKey && configs[i].ConfigValue != "" {
			configs[i].ConfigValue = maskedValue
		}
	}
	return configs, nil
}

// Update 批量更新配置值
// 先整体校验键空间再逐个写入，未知键不会造成部分更新；
// 收到掩码形式的 API Key 时跳过，避免把掩码写回存储
func (s *settingService) Update(ctx context.Context, updates map[string]string) (int, error) {
	for key := range updates {
		if !IsKnownSettingKey(key) {
			klog.Warningf("Update: unknown setting key %s", key)
			return 0, fmt.Errorf("%w: unknown setting key '%s'", ErrValidation, key)
		}
	}

	updated := 0
	for key, value := range updates {
		if key == KeyLLMAPIKey && value == maskedValue {
			continue
		}
		if err := s.repo.UpdateValue(ctx, key, value); err != nil {
			klog.Errorf("Update: failed to update %s: %v", key, err)
			return updated, err
		}
		updated++
	}
	klog.V(6).Infof("Update: updated %d settings", updated)
	return updated, nil
}

// Snapshot 读取并解析当前设置为类型化快照
// 解析失败的值回退到预置默认值
func (s *settingService) Snapshot(ctx context.Context) (*LLMSnapshot, error) {
	configs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(configs))
	for _, cfg := range configs {
		values[cfg.ConfigKey] = cfg.ConfigValue
	}

	snap := &LLMSnapshot{
		APIKey:        values[KeyLLMAPIKey],
		BaseURL:       stringValue(values, KeyLLMAPIBaseURL),
		Model:         stringValue(values, KeyLLMModel),
		TestModel:     stringValue(values, KeyLLMModelTest),
		SystemMessage: stringValue(values, KeyLLMSystemMessage),
		Temperature:   floatValue(values, KeyLLMTemperature),
		MaxTokens:     intValue(values, KeyLLMMaxTokens),
		Timeout:       time.Duration(intValue(values, KeyResponseTimeoutSecs)) * time.Second,
		Retries:       intValue(values, KeyRetryOnFailureCount),
		DefaultFormat: stringValue(values, KeyDefaultDocFormat),
		EnableHistory: boolValue(values, KeyEnableHistory),
		RetentionDays: intValue(values, KeyHistoryRetentionDays),
		CORSOrigins:   splitOrigins(stringValue(values, KeyCORSAllowedOrigins)),
	}
	return snap, nil
}

// TestConnection 用测试模型做一次最小补全来验证连接
// 始终返回结果对象，连接失败体现在 status/message 中
func (s *settingService) TestConnection(ctx context.Context) *ConnectionTestResult {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return &ConnectionTestResult{Status: "error", Message: err.Error()}
	}
	if err := snap.RequireAPIKey(); err != nil {
		return &ConnectionTestResult{Status: "error", Message: err.Error()}
	}

	opts := snap.CallOptions(true)
	opts.Retries = 0 // 连接测试不重试，快速反馈

	reply, err := s.provider.Complete(ctx, "Hello, world!", opts)
	if err != nil {
		klog.Warningf("TestConnection: failed: %v", err)
		return &ConnectionTestResult{Status: "error", Message: err.Error(), Model: opts.Model}
	}

	return &ConnectionTestResult{
		Status:      "ok",
		Message:     "LLM connection successful!",
		Model:       opts.Model,
		SampleReply: reply,
	}
}

// defaultFor 返回键的预置默认值
func defaultFor(key string) string {
	for _, cfg := range DefaultSettings {
		if cfg.ConfigKey == key {
			return cfg.ConfigValue
		}
	}
	return ""
}

func stringValue(values map[string]string, key string) string {
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return defaultFor(key)
}

func floatValue(values map[string]string, key string) float64 {
	v, err := strconv.ParseFloat(stringValue(values, key), 64)
	if err != nil {
		v, _ = strconv.ParseFloat(defaultFor(key), 64)
	}
	return v
}

func intValue(values map[string]string, key string) int {
	v, err := strconv.Atoi(stringValue(values, key))
	if err != nil {
		v, _ = strconv.Atoi(defaultFor(key))
	}
	return v
}

func boolValue(values map[string]string, key string) bool {
	return strings.EqualFold(stringValue(values, key), "true")
}

// splitOrigins 解析逗号分隔的 CORS 来源列表
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}
