package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// GET /schedules
func (sh *ScheduleHandler) List(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	schedules, err := sh.scheduleService.ListForUser(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"schedules": schedules})
}

// PUT /schedules
// body: { "schedules": [ { "task_template_id": "...", "weekdays": ["Monday"] } ] }
func (sh *ScheduleHandler) Upsert(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	var req struct {
		Schedules []services.ScheduleInput `json:"schedules"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	schedules, err := sh.scheduleService.Upsert(c.Request.Context(), profileID, req.Schedules)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"schedules": schedules})
}

// DELETE /schedules/:id
func (sh *ScheduleHandler) Delete(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	scheduleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := sh.scheduleService.Delete(c.Request.Context(), profileID, scheduleID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /schedules/run
//
// Materializes today's tasks for every profile. Normally invoked by a
// cron job; exposed so a parent can trigger it by hand.
func (sh *ScheduleHandler) Run(c *gin.Context) {
	created, err := sh.scheduleService.RunDaily(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"created": created})
}
