package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smedocgen/backend/internal/service"
)

// SettingHandler 应用配置 Handler
type SettingHandler struct {
	settingService service.SettingService
}

// NewSettingHandler 创建 Handler
func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// List 获取全部配置项（API Key 掩码后返回）
func (h *SettingHandler) List(c *gin.Context) {
	configs, err := h.settingService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": configs})
}

// Update 批量更新配置值
func (h *SettingHandler) Update(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no settings provided"})
		return
	}

	updated, err := h.settingService.Update(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "settings updated", "updated": updated})
}

// TestConnection 测试 LLM 连接
// 始终返回 200，连接结果体现在 status 字段中
func (h *SettingHandler) TestConnection(c *gin.Context) {
	result := h.settingService.TestConnection(c.Request.Context())
	c.JSON(http.StatusOK, result)
}
