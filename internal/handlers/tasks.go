package handlers

import (
	"context"
	"net/http"

	"taskboard/backend/internal/middleware"
	"taskboard/backend/internal/models"
	"taskboard/backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type TaskService interface {
	List(ctx context.Context, caller *models.Identity, ownerFilter *uint) ([]models.TaskWithOwner, error)
	Get(ctx context.Context, caller *models.Identity, id uint) (*models.TaskWithOwner, error)
	Create(ctx context.Context, caller *models.Identity, input models.TaskInput) (*models.TaskWithOwner, error)
	Update(ctx context.Context, caller *models.Identity, id uint, patch models.TaskPatch) (*models.TaskWithOwner, error)
	Delete(ctx context.Context, caller *models.Identity, id uint) error
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func taskID(c *gin.Context) (uint, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid task id")
		return 0, false
	}
	return id, true
}

// ListTasks honours ?userId= for administrators.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var owner *uint
	if raw, ok := c.GetQuery("userId"); ok && raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			badRequest(c, "invalid userId")
			return
		}
		owner = &id
	}

	tasks, err := h.tasks.List(c.Request.Context(), middleware.CurrentIdentity(c), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input models.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), middleware.CurrentIdentity(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "task created", "taskId": task.ID})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task updated", "task": task})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}
