package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/repository"
	"k8s.io/klog/v2"
)

// UnknownTemplateLabel 模板已删除时历史展示的回退标签
const UnknownTemplateLabel = "Unknown"

// ErrHistoryDisabled 历史功能在设置中被关闭
var ErrHistoryDisabled = fmt.Errorf("document history is disabled in application settings")

// HistoryItem 历史记录展示项，附带解析出的模板信息
// 模板被删除后 TemplateName 与 DocumentType 回退为 Unknown
type HistoryItem struct {
	model.DocumentHistory
	TemplateName string `json:"template_name"`
	DocumentType string `json:"document_type"`
}

// HistoryService 生成历史服务接口
type HistoryService interface {
	// List 分页列出历史记录，可按解析后的单据类型过滤
	List(ctx context.Context, skip, limit int, documentType string) ([]HistoryItem, error)

	// Get 获取单条历史记录
	Get(ctx context.Context, id string) (*HistoryItem, error)

	// PurgeExpired 按保留期清理过期历史，返回删除条数
	PurgeExpired(ctx context.Context) (int64, error)
}

// historyService 生成历史服务实现
type historyService struct {
	repo         repository.HistoryRepository
	templateRepo repository.TemplateRepository
	settings     SettingService
}

// NewHistoryService 创建生成历史服务
func NewHistoryService(repo repository.HistoryRepository, templateRepo repository.TemplateRepository, settings SettingService) HistoryService {
	return &historyService{repo: repo, templateRepo: templateRepo, settings: settings}
}

// List 分页列出历史记录
// 类型过滤下推到仓储层，skip/limit 始终作用于过滤后的结果集；
// 模板查不到时回退为 Unknown，不让单条脏引用拖垮整个列表
func (s *historyService) List(ctx context.Context, skip, limit int, documentType string) ([]HistoryItem, error) {
	if err := s.requireEnabled(ctx); err != nil {
		return nil, err
	}

	var records []model.DocumentHistory
	var err error
	if documentType != "" {
		records, err = s.repo.ListByDocumentType(ctx, documentType, skip, limit)
	} else {
		records, err = s.repo.List(ctx, skip, limit)
	}
	if err != nil {
		return nil, err
	}

	templates, err := s.resolveTemplates(ctx, records)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(records))
	for _, record := range records {
		items = append(items, s.toItem(record, templates))
	}
	return items, nil
}

// Get 获取单条历史记录
func (s *historyService) Get(ctx context.Context, id string) (*HistoryItem, error) {
	if err := s.requireEnabled(ctx); err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	templates, err := s.resolveTemplates(ctx, []model.DocumentHistory{*record})
	if err != nil {
		return nil, err
	}
	item := s.toItem(*record, templates)
	return &item, nil
}

// PurgeExpired 按 history_retention_days 清理过期历史
func (s *historyService) PurgeExpired(ctx context.Context) (int64, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if snap.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -snap.RetentionDays)
	affected, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		klog.V(6).Infof("PurgeExpired: removed %d history records older than %d days", affected, snap.RetentionDays)
	}
	return affected, nil
}

// requireEnabled 历史功能关闭时拒绝读取
func (s *historyService) requireEnabled(ctx context.Context) error {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !snap.EnableHistory {
		return ErrHistoryDisabled
	}
	return nil
}

// resolveTemplates 批量解析历史记录引用的模板
func (s *historyService) resolveTemplates(ctx context.Context, records []model.DocumentHistory) (map[string]model.PromptTemplate, error) {
	idSet := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, record := range records {
		if record.TemplateID == "" {
			continue
		}
		if _, ok := idSet[record.TemplateID]; ok {
			continue
		}
		idSet[record.TemplateID] = struct{}{}
		ids = append(ids, record.TemplateID)
	}

	templates, err := s.templateRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.PromptTemplate, len(templates))
	for _, tpl := range templates {
		byID[tpl.ID] = tpl
	}
	return byID, nil
}

// toItem 组装展示项，模板缺失时回退为 Unknown
func (s *historyService) toItem(record model.DocumentHistory, templates map[string]model.PromptTemplate) HistoryItem {
	item := HistoryItem{
		DocumentHistory: record,
		TemplateName:    UnknownTemplateLabel,
		DocumentType:    UnknownTemplateLabel,
	}
	if tpl, ok := templates[record.TemplateID]; ok {
		item.TemplateName = tpl.Name
		item.DocumentType = tpl.DocumentType
	}
	return item
}
