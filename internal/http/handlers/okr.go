package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type OKRHandler struct {
	okrService services.OKRService
}

func NewOKRHandler(okrService services.OKRService) *OKRHandler {
	return &OKRHandler{okrService: okrService}
}

// GET /objectives
func (oh *OKRHandler) List(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	objectives, err := oh.okrService.ListForUser(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"objectives": objectives})
}

// POST /objectives
func (oh *OKRHandler) Create(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	var req services.ObjectiveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := oh.okrService.Create(c.Request.Context(), profileID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// PUT /objectives/:id
func (oh *OKRHandler) Update(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	objectiveID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ObjectiveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := oh.okrService.Update(c.Request.Context(), profileID, objectiveID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// DELETE /objectives/:id
func (oh *OKRHandler) Delete(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	objectiveID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := oh.okrService.Delete(c.Request.Context(), profileID, objectiveID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /objectives/:id/key-results
func (oh *OKRHandler) UpsertKeyResult(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	objectiveID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.KeyResultInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := oh.okrService.UpsertKeyResult(c.Request.Context(), profileID, objectiveID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// DELETE /objectives/:id/key-results/:krId
func (oh *OKRHandler) DeleteKeyResult(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	objectiveID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	krID, ok := pathUUID(c, "krId")
	if !ok {
		return
	}
	view, err := oh.okrService.DeleteKeyResult(c.Request.Context(), profileID, objectiveID, krID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}
