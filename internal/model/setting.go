package model

// AppConfig 应用配置项，键空间固定，值统一以字符串存储
type AppConfig struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ConfigKey   string `json:"config_key" gorm:"size:50;uniqueIndex;not null"`
	ConfigValue string `json:"config_value" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
}

// TableName 指定表名
func (AppConfig) TableName() string {
	return "application_config"
}
