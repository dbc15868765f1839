package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/time-tracker-api/internal/errors"
	"github.com/yukikurage/time-tracker-api/internal/middleware"
	"github.com/yukikurage/time-tracker-api/internal/services"
)

// ReportHandler serves the CSV and PDF report downloads.
type ReportHandler struct {
	reportService *services.ReportService
	authService   *services.AuthService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService, authService *services.AuthService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		authService:   authService,
	}
}

// ExportCSV streams the CSV report as a file download.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	from, to := reportWindow(c)

	data, err := h.reportService.GenerateCSV(userID, from, to)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate report")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+h.reportService.Filename("csv"))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF streams the PDF report as a file download.
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load user")
		return
	}

	from, to := reportWindow(c)

	data, err := h.reportService.GeneratePDF(user, from, to)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate report")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+h.reportService.Filename("pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

// reportWindow parses the optional start_date/end_date query params.
// Missing or unparseable values mean "no bound", by contract.
func reportWindow(c *gin.Context) (*time.Time, *time.Time) {
	var from, to *time.Time
	if parsed, err := time.Parse(dateLayout, c.Query("start_date")); err == nil {
		from = &parsed
	}
	if parsed, err := time.Parse(dateLayout, c.Query("end_date")); err == nil {
		to = &parsed
	}
	return from, to
}
