package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// GET /tasks/today
func (th *TaskHandler) Today(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	tasks, err := th.taskService.TodayForUser(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tasks": tasks})
}

// POST /tasks/:id/complete
func (th *TaskHandler) Complete(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	task, err := th.taskService.Complete(c.Request.Context(), profileID, taskID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": task})
}
