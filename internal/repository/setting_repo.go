package repository

import (
	"context"
	"errors"

	"github.com/smedocgen/backend/internal/model"
	"gorm.io/gorm"
)

// settingRepository 应用配置仓储实现
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建应用配置仓储
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// List 列出所有配置项
func (r *settingRepository) List(ctx context.Context) ([]model.AppConfig, error) {
	var configs []model.AppConfig
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&configs).Error
	return configs, err
}

// GetByKey 根据键获取配置项
func (r *settingRepository) GetByKey(ctx context.Context, key string) (*model.AppConfig, error) {
	var cfg model.AppConfig
	err := r.db.WithContext(ctx).Where("config_key = ?", key).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Save 保存配置项（用于初始化种子数据）
func (r *settingRepository) Save(ctx context.Context, cfg *model.AppConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

// UpdateValue 只更新配置值，键与描述不可变
func (r *settingRepository) UpdateValue(ctx context.Context, key, value string) error {
	result := r.db.WithContext(ctx).
		Model(&model.AppConfig{}).
		Where("config_key = ?", key).
		Update("config_value", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count 配置项总数（用于判断是否需要初始化种子数据）
func (r *settingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AppConfig{}).Count(&count).Error
	return count, err
}
