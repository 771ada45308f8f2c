package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smedocgen/backend/internal/service"
)

// HistoryHandler 生成历史 Handler
type HistoryHandler struct {
	historyService service.HistoryService
}

// NewHistoryHandler 创建 Handler
func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List 分页获取历史记录，支持按单据类型过滤
func (h *HistoryHandler) List(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	items, err := h.historyService.List(c.Request.Context(), skip, limit, c.Query("document_type"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Get 获取单条历史记录
func (h *HistoryHandler) Get(c *gin.Context) {
	item, err := h.historyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

// Download 以附件形式下载生成的文档
// 文件名按存储的格式取扩展名，内容为纯文本
func (h *HistoryHandler) Download(c *gin.Context) {
	item, err := h.historyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	ext := item.DocumentFormat
	if ext == "" {
		ext = "txt"
	}
	filename := fmt.Sprintf("document_%s.%s", item.ID, ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(item.GeneratedContent))
}
