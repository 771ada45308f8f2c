package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smedocgen/backend/internal/model"
	"gorm.io/gorm"
)

// historyRepository 生成历史仓储实现
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 创建生成历史仓储
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create 追加一条历史记录
func (r *historyRepository) Create(ctx context.Context, record *model.DocumentHistory) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// List 分页列出历史记录，按生成时间倒序
func (r *historyRepository) List(ctx context.Context, skip, limit int) ([]model.DocumentHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	var records []model.DocumentHistory
	err := r.db.WithContext(ctx).
		Order("generated_at DESC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ListByDocumentType 分页列出指定单据类型的历史记录
// 过滤在 SQL 层完成，skip/limit 作用于过滤后的结果集；
// 模板已删除的记录类型无从解析，自然不会命中任何类型过滤
func (r *historyRepository) ListByDocumentType(ctx context.Context, documentType string, skip, limit int) ([]model.DocumentHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	var records []model.DocumentHistory
	err := r.db.WithContext(ctx).
		Joins("JOIN prompt_templates ON prompt_templates.id = document_history.template_id").
		Where("prompt_templates.document_type = ?", documentType).
		Order("document_history.generated_at DESC, document_history.id ASC").
		Offset(skip).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// Get 根据 ID 获取历史记录
func (r *historyRepository) Get(ctx context.Context, id string) (*model.DocumentHistory, error) {
	var record model.DocumentHistory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// DeleteOlderThan 删除早于 cutoff 的历史记录，返回删除条数
// 历史对外只增不删，保留期清理是唯一的删除路径
func (r *historyRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("generated_at < ?", cutoff).
		Delete(&model.DocumentHistory{})
	return result.RowsAffected, result.Error
}
