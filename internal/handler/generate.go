package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smedocgen/backend/internal/service"
)

// GenerateHandler 文档生成 Handler
type GenerateHandler struct {
	generationService service.GenerationService
}

// NewGenerateHandler 创建 Handler
func NewGenerateHandler(generationService service.GenerationService) *GenerateHandler {
	return &GenerateHandler{generationService: generationService}
}

// Generate 根据模板与表单数据生成文档
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.generationService.Generate(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
