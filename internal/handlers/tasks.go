package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/bots/orchestrator"
	"github.com/playcrest/playcrest-backend/internal/stores"
	"github.com/playcrest/playcrest-backend/internal/types"
)

type TasksHandler struct {
	orch *orchestrator.Orchestrator
}

func NewTasksHandler(orch *orchestrator.Orchestrator) *TasksHandler {
	return &TasksHandler{orch: orch}
}

type createTaskRequest struct {
	Kind     types.TaskKind     `json:"kind" binding:"required"`
	Payload  map[string]any     `json:"payload"`
	Priority types.TaskPriority `json:"priority"`
}

// POST /api/tasks
func (h *TasksHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	taskID, err := h.orch.CreateTask(c.Request.Context(), req.Kind, req.Payload, req.Priority)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_task_failed", err)
		return
	}

	// Critical tasks are already terminal here; return their state inline.
	if req.Priority == types.TaskPriorityCritical {
		task, getErr := h.orch.GetTask(c.Request.Context(), taskID)
		if getErr == nil {
			RespondOK(c, gin.H{"task_id": taskID, "task": task})
			return
		}
	}
	RespondOK(c, gin.H{"task_id": taskID})
}

// GET /api/tasks/:id
func (h *TasksHandler) GetTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return
	}
	task, err := h.orch.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "task_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "task_lookup_failed", err)
		return
	}
	RespondOK(c, gin.H{"task": task})
}

// GET /api/insights
func (h *TasksHandler) GetInsights(c *gin.Context) {
	insightType := types.InsightType(c.Query("type"))
	RespondOK(c, gin.H{"insights": h.orch.GetInsights(insightType)})
}

// GET /api/system/health
func (h *TasksHandler) GetSystemHealth(c *gin.Context) {
	RespondOK(c, h.orch.GetSystemHealth(c.Request.Context()))
}
