package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 支持的单据类型
const (
	DocumentTypeQuote    = "Quote"
	DocumentTypeInvoice  = "Invoice"
	DocumentTypeLPO      = "LPO"
	DocumentTypeContract = "Contract"
)

// DocumentTypes 当前支持的单据类型列表（可扩展）
var DocumentTypes = []string{
	DocumentTypeQuote,
	DocumentTypeInvoice,
	DocumentTypeLPO,
	DocumentTypeContract,
}

// IsValidDocumentType 校验单据类型是否在支持列表中
func IsValidDocumentType(t string) bool {
	for _, dt := range DocumentTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// PromptTemplate 提示词模板
// 模板正文中可包含若干 {placeholder} 占位符，生成前由表单数据填充
type PromptTemplate struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	Name            string    `json:"name" gorm:"size:255;uniqueIndex;not null"`
	DocumentType    string    `json:"document_type" gorm:"size:50;not null"` // Quote, Invoice, LPO, Contract
	TemplateContent string    `json:"template_content" gorm:"type:text;not null"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 指定表名
func (PromptTemplate) TableName() string {
	return "prompt_templates"
}

// BeforeCreate GORM 钩子：创建前生成 UUID
func (t *PromptTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
