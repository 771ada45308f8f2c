package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/pkg/prompt"
	"github.com/smedocgen/backend/internal/service"
)

// TemplateHandler 提示词模板 Handler
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler 创建 Handler
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// templateView 模板展示结构，附带解析出的占位符列表供前端动态建表单
type templateView struct {
	model.PromptTemplate
	Placeholders []string `json:"placeholders"`
}

func toView(tpl model.PromptTemplate) templateView {
	return templateView{
		PromptTemplate: tpl,
		Placeholders:   prompt.ExtractPlaceholders(tpl.TemplateContent),
	}
}

// List 获取模板列表
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templateService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]templateView, 0, len(templates))
	for _, tpl := range templates {
		views = append(views, toView(tpl))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// Get 获取模板详情
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.templateService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toView(*template)})
}

// Create 创建模板
func (h *TemplateHandler) Create(c *gin.Context) {
	var req service.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": template})
}

// Update 更新模板
func (h *TemplateHandler) Update(c *gin.Context) {
	var req service.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": template})
}

// Delete 删除模板
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templateService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Test 用样例数据试运行模板，返回 LLM 预览输出
func (h *TemplateHandler) Test(c *gin.Context) {
	var req struct {
		InputData map[string]string `json:"input_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.templateService.Test(c.Request.Context(), c.Param("id"), req.InputData)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template_id": c.Param("id"), "test_output": output})
}
