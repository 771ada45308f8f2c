package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/pkg/prompt"
	"github.com/smedocgen/backend/internal/repository"
	"k8s.io/klog/v2"
)

// CreateTemplateRequest 创建模板请求
type CreateTemplateRequest struct {
	Name            string `json:"name" binding:"required"`
	DocumentType    string `json:"document_type" binding:"required"`
	TemplateContent string `json:"template_content" binding:"required"`
	IsActive        *bool  `json:"is_active"`
}

// UpdateTemplateRequest 更新模板请求
// DocumentType 创建后不可变，传入不同值会被拒绝
type UpdateTemplateRequest struct {
	Name            string `json:"name"`
	DocumentType    string `json:"document_type"`
	TemplateContent string `json:"template_content"`
	IsActive        *bool  `json:"is_active"`
}

// TemplateService 提示词模板服务接口
type TemplateService interface {
	// Create 创建模板
	Create(ctx context.Context, req *CreateTemplateRequest) (*model.PromptTemplate, error)

	// List 列出所有模板
	List(ctx context.Context) ([]model.PromptTemplate, error)

	// Get 根据 ID 获取模板
	Get(ctx context.Context, id string) (*model.PromptTemplate, error)

	// Update 更新模板
	Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*model.PromptTemplate, error)

	// Delete 删除模板（历史记录保留弱引用）
	Delete(ctx context.Context, id string) error

	// Test 用给定表单数据试运行模板，返回 LLM 预览输出
	Test(ctx context.Context, id string, inputData map[string]string) (string, error)
}

// templateService 提示词模板服务实现
type templateService struct {
	repo     repository.TemplateRepository
	settings SettingService
	provider CompletionProvider
}

// NewTemplateService 创建提示词模板服务
func NewTemplateService(repo repository.TemplateRepository, settings SettingService, provider CompletionProvider) TemplateService {
	return &templateService{repo: repo, settings: settings, provider: provider}
}

// Create 创建模板
func (s *templateService) Create(ctx context.Context, req *CreateTemplateRequest) (*model.PromptTemplate, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(req.TemplateContent) == "" {
		return nil, fmt.Errorf("%w: template_content is required", ErrValidation)
	}
	if !model.IsValidDocumentType(req.DocumentType) {
		return nil, fmt.Errorf("%w: unsupported document_type '%s'", ErrValidation, req.DocumentType)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	tpl := &model.PromptTemplate{
		Name:            req.Name,
		DocumentType:    req.DocumentType,
		TemplateContent: req.TemplateContent,
		IsActive:        isActive,
	}
	if err := s.repo.Create(ctx, tpl); err != nil {
		klog.Errorf("Create: failed to create template %s: %v", req.Name, err)
		return nil, err
	}

	klog.V(6).Infof("Create: created template id=%s name=%s", tpl.ID, tpl.Name)
	return tpl, nil
}

// List 列出所有模板
func (s *templateService) List(ctx context.Context) ([]model.PromptTemplate, error) {
	return s.repo.List(ctx)
}

// Get 根据 ID 获取模板
func (s *templateService) Get(ctx context.Context, id string) (*model.PromptTemplate, error) {
	return s.repo.Get(ctx, id)
}

// Update 更新模板
func (s *templateService) Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*model.PromptTemplate, error) {
	tpl, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DocumentType != "" && req.DocumentType != tpl.DocumentType {
		return nil, fmt.Errorf("%w: document_type is immutable after creation", ErrValidation)
	}
	if req.Name != "" && req.Name != tpl.Name {
		existing, err := s.repo.GetByName(ctx, req.Name)
		if err == nil && existing != nil && existing.ID != id {
			return nil, repository.ErrDuplicate
		}
		tpl.Name = req.Name
	}
	if req.TemplateContent != "" {
		tpl.TemplateContent = req.TemplateContent
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := s.repo.Save(ctx, tpl); err != nil {
		klog.Errorf("Update: failed to save template %s: %v", id, err)
		return nil, err
	}

	klog.V(6).Infof("Update: updated template id=%s", id)
	return tpl, nil
}

// Delete 删除模板
func (s *templateService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	klog.V(6).Infof("Delete: deleted template id=%s", id)
	return nil
}

// Test 用给定表单数据试运行模板
// 走连接测试模型，便于用便宜的模型验证模板效果
func (s *templateService) Test(ctx context.Context, id string, inputData map[string]string) (string, error) {
	tpl, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	rendered, err := prompt.Render(tpl.TemplateContent, inputData)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if err := snap.RequireAPIKey(); err != nil {
		return "", err
	}

	output, err := s.provider.Complete(ctx, rendered+marketContextInstruction, snap.CallOptions(true))
	if err != nil {
		klog.Errorf("Test: llm call failed for template %s: %v", id, err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return output, nil
}
