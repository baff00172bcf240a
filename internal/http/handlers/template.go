package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type TemplateHandler struct {
	templateService services.TemplateService
}

func NewTemplateHandler(templateService services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// GET /task-templates?include_archived=true
func (th *TemplateHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	templates, err := th.templateService.List(c.Request.Context(), includeArchived)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"templates": templates})
}

// POST /task-templates
func (th *TemplateHandler) Create(c *gin.Context) {
	var req services.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	template, err := th.templateService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": template})
}

// PUT /task-templates/:id
func (th *TemplateHandler) Update(c *gin.Context) {
	templateID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	template, err := th.templateService.Update(c.Request.Context(), templateID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"template": template})
}

// DELETE /task-templates/:id
//
// Templates are archived rather than removed so historical tasks keep
// their names.
func (th *TemplateHandler) Archive(c *gin.Context) {
	templateID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := th.templateService.Archive(c.Request.Context(), templateID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
