package repository

import (
	"context"
	"errors"

	"github.com/smedocgen/backend/internal/model"
	"gorm.io/gorm"
)

// templateRepository 模板仓储实现
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository 创建模板仓储
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create 创建模板，名称重复时返回 ErrDuplicate
func (r *templateRepository) Create(ctx context.Context, tpl *model.PromptTemplate) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.PromptTemplate{}).
		Where("name = ?", tpl.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return r.db.WithContext(ctx).Create(tpl).Error
}

// List 列出所有模板
func (r *templateRepository) List(ctx context.Context) ([]model.PromptTemplate, error) {
	var templates []model.PromptTemplate
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&templates).Error
	return templates, err
}

// Get 根据 ID 获取模板
func (r *templateRepository) Get(ctx context.Context, id string) (*model.PromptTemplate, error) {
	var tpl model.PromptTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// GetByName 根据名称获取模板
func (r *templateRepository) GetByName(ctx context.Context, name string) (*model.PromptTemplate, error) {
	var tpl model.PromptTemplate
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// GetByIDs 批量获取模板（用于历史记录的模板解析）
func (r *templateRepository) GetByIDs(ctx context.Context, ids []string) ([]model.PromptTemplate, error) {
	if len(ids) == 0 {
		return []model.PromptTemplate{}, nil
	}
	var templates []model.PromptTemplate
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&templates).Error
	return templates, err
}

// Save 保存模板变更
func (r *templateRepository) Save(ctx context.Context, tpl *model.PromptTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

// Delete 删除模板；历史记录保留弱引用，不级联删除
func (r *templateRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.PromptTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
