package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/time-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/time-tracker-api/internal/errors"
	"github.com/yukikurage/time-tracker-api/internal/middleware"
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/services"
	"github.com/yukikurage/time-tracker-api/internal/utils"
)

const dateLayout = "2006-01-02"

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks, newest first.
// Supports optional status, priority and category filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{UserID: userID}

	if raw := c.Query("status"); raw != "" && raw != "all" {
		status, err := models.ParseTaskStatus(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" && raw != "all" {
		priority, err := models.ParseTaskPriority(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid priority filter")
			return
		}
		input.Priority = &priority
	}
	if raw := c.Query("category"); raw != "" && raw != "all" {
		categoryID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid category filter")
			return
		}
		input.CategoryID = &categoryID
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	result := make([]dto.TaskDTO, len(tasks))
	for i, task := range tasks {
		result[i] = dto.ToTaskDTO(task)
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      result,
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
	})
}

// GetTask returns a task loaded by RequireTaskAccess.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task := c.MustGet("task").(models.Task)

	full, err := h.taskService.GetTask(task.ID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*full))
}

// CreateTask creates a new task for the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		Priority    string  `json:"priority" binding:"required"`
		DueDate     *string `json:"due_date"`
		CategoryID  *uint64 `json:"category_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	priority, err := models.ParseTaskPriority(req.Priority)
	if err != nil {
		apierrors.BadRequest(c, "Invalid priority")
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     dueDate,
		CategoryID:  req.CategoryID,
		UserID:      userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies partial changes to a task loaded by RequireTaskAccess.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task := c.MustGet("task").(models.Task)

	type UpdateTaskRequest struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		Priority      *string `json:"priority"`
		Status        *string `json:"status"`
		DueDate       *string `json:"due_date"`
		ClearDueDate  bool    `json:"clear_due_date"`
		CategoryID    *uint64 `json:"category_id"`
		ClearCategory bool    `json:"clear_category"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		ClearDueDate:  req.ClearDueDate,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	}

	if req.Priority != nil {
		priority, err := models.ParseTaskPriority(*req.Priority)
		if err != nil {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		input.Priority = &priority
	}
	if req.Status != nil {
		status, err := models.ParseTaskStatus(*req.Status)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalDate(req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		input.DueDate = dueDate
	}

	updated, err := h.taskService.UpdateTask(task.ID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// CompleteTask marks a task completed.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task := c.MustGet("task").(models.Task)

	completed, err := h.taskService.CompleteTask(task.ID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*completed))
}

// DeleteTask deletes a task and its time entries.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task := c.MustGet("task").(models.Task)

	if err := h.taskService.DeleteTask(task.ID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
