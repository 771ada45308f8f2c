package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentHistory 文档生成历史记录
// TemplateID 是弱引用：模板删除后记录仍保留，展示时回退为 Unknown
type DocumentHistory struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	TemplateID       string    `json:"template_id" gorm:"size:36;index"`
	InputData        string    `json:"input_data" gorm:"type:text"` // 生成时收到的表单数据（JSON 字符串）
	GeneratedContent string    `json:"generated_content" gorm:"type:text"`
	DocumentFormat   string    `json:"document_format" gorm:"size:10"` // pdf, docx
	GeneratedAt      time.Time `json:"generated_at"`
}

// TableName 指定表名
func (DocumentHistory) TableName() string {
	return "document_history"
}

// BeforeCreate GORM 钩子：创建前生成 UUID 并补齐时间戳
func (h *DocumentHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.GeneratedAt.IsZero() {
		h.GeneratedAt = time.Now()
	}
	return nil
}
