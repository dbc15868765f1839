package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/time-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/time-tracker-api/internal/errors"
	"github.com/yukikurage/time-tracker-api/internal/middleware"
	"github.com/yukikurage/time-tracker-api/internal/services"
	"github.com/yukikurage/time-tracker-api/internal/utils"
)

// TimerHandler coordinates timer HTTP handlers.
type TimerHandler struct {
	timerService *services.TimerService
}

// NewTimerHandler creates a new TimerHandler.
func NewTimerHandler(timerService *services.TimerService) *TimerHandler {
	return &TimerHandler{
		timerService: timerService,
	}
}

// Start opens a timer against one of the user's tasks.
func (h *TimerHandler) Start(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type StartTimerRequest struct {
		TaskID uint64 `json:"task_id" binding:"required"`
	}

	var req StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Please select a task to start timing")
		return
	}

	entry, err := h.timerService.Start(userID, req.TaskID)
	if err != nil {
		respondTimerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Timer started for \"" + entry.Task.Title + "\"",
		"time_entry": dto.ToTimeEntryDTO(*entry),
	})
}

// Stop closes the user's running timer.
func (h *TimerHandler) Stop(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entry, err := h.timerService.Stop(userID)
	if err != nil {
		respondTimerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Timer stopped. Duration: " + utils.FormatClock(*entry.Duration),
		"time_entry": dto.ToTimeEntryDTO(*entry),
	})
}

// Status reports the running timer, if any, for polling clients.
func (h *TimerHandler) Status(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	status, err := h.timerService.Status(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to read timer status")
		return
	}

	c.JSON(http.StatusOK, status)
}

func respondTimerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTimerAlreadyActive):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeTimerActive,
			"You already have an active timer. Please stop it first.")
	case errors.Is(err, services.ErrNoActiveTimer):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeNoActiveTimer, "No active timer found.")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
