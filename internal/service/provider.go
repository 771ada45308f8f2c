package service

import (
	"context"

	"github.com/smedocgen/backend/internal/pkg/llm"
)

// CompletionProvider LLM 补全能力抽象（由 llm.Client 实现）
// 提示词进、补全文本出，失败分类由 llm 包负责
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string, opts llm.CallOptions) (string, error)
}
