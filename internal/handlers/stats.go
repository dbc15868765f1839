package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/time-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/time-tracker-api/internal/errors"
	"github.com/yukikurage/time-tracker-api/internal/middleware"
	"github.com/yukikurage/time-tracker-api/internal/services"
)

// StatsHandler serves the productivity statistics endpoint.
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats returns the productivity snapshot for a trailing window.
// The window defaults to 30 days; a malformed days value falls back to
// the default rather than erroring.
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	days := constants.DefaultStatsWindowDays
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			days = parsed
		}
	}

	stats, err := h.statsService.Compute(userID, days)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}
