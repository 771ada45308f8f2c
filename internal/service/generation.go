package service

import (
	"context"
	"fmt"

	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/pkg/prompt"
	"github.com/smedocgen/backend/internal/repository"
	"github.com/smedocgen/backend/internal/utils"
	"k8s.io/klog/v2"
)

// 提示词尾部追加的市场语境指令（面向肯尼亚中小企业用户）
const marketContextInstruction = " Ensure the document is formatted and relevant for the Kenyan market, including using KES for currency where applicable."

// generateOutputInstruction 正式生成时额外要求输出为纯文本/Markdown
const generateOutputInstruction = " Provide the output in plain text or Markdown format suitable for a document."

// GenerateRequest 文档生成请求
type GenerateRequest struct {
	TemplateID     string `json:"template_id" binding:"required"`
	InputData      string `json:"input_data"` // 表单数据的 JSON 对象字符串
	DocumentFormat string `json:"document_format"`
}

// GenerateResult 文档生成结果
// HistoryID 为空表示历史记录被禁用或保存失败
type GenerateResult struct {
	HistoryID        string `json:"history_id,omitempty"`
	GeneratedContent string `json:"generated_content"`
	DocumentFormat   string `json:"document_format"`
}

// GenerationService 文档生成编排服务接口
type GenerationService interface {
	// Generate 解析模板、代入表单数据、调用 LLM 并按设置落历史
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)
}

// generationService 文档生成编排服务实现
type generationService struct {
	templateRepo repository.TemplateRepository
	historyRepo  repository.HistoryRepository
	settings     SettingService
	provider     CompletionProvider
}

// NewGenerationService 创建文档生成编排服务
func NewGenerationService(
	templateRepo repository.TemplateRepository,
	historyRepo repository.HistoryRepository,
	settings SettingService,
	provider CompletionProvider,
) GenerationService {
	return &generationService{
		templateRepo: templateRepo,
		historyRepo:  historyRepo,
		settings:     settings,
		provider:     provider,
	}
}

// Generate 解析模板、代入表单数据、调用 LLM 并按设置落历史
// 不修改模板与设置本身
func (s *generationService) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	tpl, err := s.templateRepo.Get(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, fmt.Errorf("%w: template '%s' is inactive", ErrValidation, tpl.Name)
	}

	inputData, err := utils.ParseKeyValues(req.InputData)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON format for input_data: %v", ErrValidation, err)
	}

	// 所有占位符必须有非空值，缺失即整体失败，不做部分替换
	rendered, err := prompt.Render(tpl.TemplateContent, inputData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// 每次调用读取一次设置快照
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := snap.RequireAPIKey(); err != nil {
		return nil, err
	}

	format := req.DocumentFormat
	if format == "" {
		format = snap.DefaultFormat
	}
	if format != "pdf" && format != "docx" {
		return nil, fmt.Errorf("%w: document_format must be 'pdf' or 'docx'", ErrValidation)
	}

	finalPrompt := rendered + marketContextInstruction + generateOutputInstruction
	klog.V(6).Infof("Generate: template=%s format=%s input=%s", req.TemplateID, format, utils.ToJSON(inputData))

	content, err := s.provider.Complete(ctx, finalPrompt, snap.CallOptions(false))
	if err != nil {
		klog.Errorf("Generate: llm call failed for template %s: %v", req.TemplateID, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	result := &GenerateResult{
		GeneratedContent: content,
		DocumentFormat:   format,
	}

	if snap.EnableHistory {
		record := &model.DocumentHistory{
			TemplateID:       tpl.ID,
			InputData:        req.InputData,
			GeneratedContent: content,
			DocumentFormat:   format,
		}
		if err := s.historyRepo.Create(ctx, record); err != nil {
			// 历史保存失败不影响已生成的结果
			klog.Warningf("Generate: failed to save history record: %v", err)
		} else {
			result.HistoryID = record.ID
		}
	}

	return result, nil
}
