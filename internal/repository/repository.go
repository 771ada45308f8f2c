package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smedocgen/backend/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

// ErrDuplicate 唯一约束冲突错误
var ErrDuplicate = errors.New("record already exists")

type TemplateRepository interface {
	Create(ctx context.Context, tpl *model.PromptTemplate) error
	List(ctx context.Context) ([]model.PromptTemplate, error)
	Get(ctx context.Context, id string) (*model.PromptTemplate, error)
	GetByName(ctx context.Context, name string) (*model.PromptTemplate, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.PromptTemplate, error)
	Save(ctx context.Context, tpl *model.PromptTemplate) error
	Delete(ctx context.Context, id string) error
}

type SettingRepository interface {
	List(ctx context.Context) ([]model.AppConfig, error)
	GetByKey(ctx context.Context, key string) (*model.AppConfig, error)
	Save(ctx context.Context, cfg *model.AppConfig) error
	UpdateValue(ctx context.Context, key, value string) error
	Count(ctx context.Context) (int64, error)
}

type HistoryRepository interface {
	Create(ctx context.Context, record *model.DocumentHistory) error
	List(ctx context.Context, skip, limit int) ([]model.DocumentHistory, error)
	ListByDocumentType(ctx context.Context, documentType string, skip, limit int) ([]model.DocumentHistory, error)
	Get(ctx context.Context, id string) (*model.DocumentHistory, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
