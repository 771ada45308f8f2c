package service

import (
	"context"

	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/repository"
	"k8s.io/klog/v2"
)

// 应用配置键空间（固定，不允许通过接口增删）
const (
	KeyLLMAPIKey            = "llm_api_key"
	KeyLLMAPIBaseURL        = "llm_api_base_url"
	KeyLLMModel             = "llm_model"
	KeyLLMModelTest         = "llm_model_test"
	KeyLLMTemperature       = "llm_temperature"
	KeyLLMMaxTokens         = "llm_max_tokens"
	KeyLLMSystemMessage     = "llm_system_message"
	KeyDefaultDocFormat     = "default_doc_format"
	KeyEnableHistory        = "enable_history"
	KeyHistoryRetentionDays = "history_retention_days"
	KeyResponseTimeoutSecs  = "response_timeout_seconds"
	KeyCORSAllowedOrigins   = "cors_allowed_origins"
	KeyRetryOnFailureCount  = "retry_on_failure_count"
)

// DefaultSettings 预置配置项
// 值统一以字符串存储，读取时由 Snapshot 解析为具体类型
var DefaultSettings = []model.AppConfig{
	{
		ConfigKey:   KeyLLMAPIKey,
		ConfigValue: "", // 出于安全考虑默认留空
		Description: "Your LLM provider API key (required before generating documents)",
	},
	{
		ConfigKey:   KeyLLMAPIBaseURL,
		ConfigValue: "https://api.openai.com/v1",
		Description: "Base URL for your LLM provider (any OpenAI-compatible endpoint)",
	},
	{
		ConfigKey:   KeyLLMModel,
		ConfigValue: "gpt-4o-mini",
		Description: "Which LLM model to call (e.g., gpt-4o, gpt-4o-mini)",
	},
	{
		ConfigKey:   KeyLLMModelTest,
		ConfigValue: "gpt-4o-mini",
		Description: "Specific LLM model to use for the connection test endpoint",
	},
	{
		ConfigKey:   KeyLLMTemperature,
		ConfigValue: "0.7",
		Description: "Controls creativity of the responses (0.0 to 1.0)",
	},
	{
		ConfigKey:   KeyLLMMaxTokens,
		ConfigValue: "1024",
		Description: "Limits response length (max_tokens)",
	},
	{
		ConfigKey:   KeyLLMSystemMessage,
		ConfigValue: "You are a helpful assistant.",
		Description: "Default system message for LLM calls",
	},
	{
		ConfigKey:   KeyDefaultDocFormat,
		ConfigValue: "pdf",
		Description: "pdf or docx – controls your download endpoint",
	},
	{
		ConfigKey:   KeyEnableHistory,
		ConfigValue: "true",
		Description: "Toggle whether you persist users' previous queries",
	},
	{
		ConfigKey:   KeyHistoryRetentionDays,
		ConfigValue: "30",
		Description: "How long to keep query history around",
	},
	{
		ConfigKey:   KeyResponseTimeoutSecs,
		ConfigValue: "60",
		Description: "How long your backend will wait for the LLM to respond",
	},
	{
		ConfigKey:   KeyCORSAllowedOrigins,
		ConfigValue: "*",
		Description: "Comma-separated list of allowed front-ends/hosts",
	},
	{
		ConfigKey:   KeyRetryOnFailureCount,
		ConfigValue: "2",
		Description: "How many times to auto-retry an LLM call if it fails transiently",
	},
}

// IsKnownSettingKey 校验键是否属于固定键空间
func IsKnownSettingKey(key string) bool {
	for _, cfg := range DefaultSettings {
		if cfg.ConfigKey == key {
			return true
		}
	}
	return false
}

// SeedDefaultSettings 初始化预置配置
// 已存在的键只补齐描述，不覆盖管理员设置过的值
func SeedDefaultSettings(ctx context.Context, repo repository.SettingRepository) error {
	for _, def := range DefaultSettings {
		existing, err := repo.GetByKey(ctx, def.ConfigKey)
		if err == nil {
			if existing.Description != def.Description {
				existing.Description = def.Description
				if err := repo.Save(ctx, existing); err != nil {
					return err
				}
			}
			continue
		}
		if err != repository.ErrNotFound {
			return err
		}
		cfg := def
		if err := repo.Save(ctx, &cfg); err != nil {
			return err
		}
		klog.V(6).Infof("SeedDefaultSettings: created config %s", def.ConfigKey)
	}
	return nil
}
