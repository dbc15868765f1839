package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/repository"
	"github.com/yukikurage/time-tracker-api/internal/utils"
)

const pdfTitleMaxLen = 30

// ReportRow is one task line shared by the CSV and PDF renderers. Both
// formats are built from the same rows so they can never disagree on
// the task set.
type ReportRow struct {
	Title        string
	CategoryName string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	SecondsSpent int64
	CreatedAt    time.Time
	DueDate      *time.Time
	CompletedAt  *time.Time
}

// ReportSummary carries the aggregate block rendered at the bottom of
// the PDF.
type ReportSummary struct {
	TotalTasks     int
	CompletedTasks int
	CompletionRate float64
	TotalHours     float64
}

// ReportService renders CSV and PDF productivity reports over a shared
// task selection.
type ReportService struct {
	taskRepo repository.TaskRepository

	now func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(taskRepo repository.TaskRepository) *ReportService {
	return &ReportService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// Rows selects the user's tasks created inside the optional inclusive
// window and assembles report rows. Per-task time sums every recorded
// entry of the task, not only entries inside the window.
func (s *ReportService) Rows(userID uint64, from, to *time.Time) ([]ReportRow, ReportSummary, error) {
	tasks, err := s.taskRepo.ListForReport(userID, from, to)
	if err != nil {
		return nil, ReportSummary{}, fmt.Errorf("failed to load tasks for report: %w", err)
	}

	rows := make([]ReportRow, 0, len(tasks))
	summary := ReportSummary{TotalTasks: len(tasks)}
	var totalSeconds int64

	for _, task := range tasks {
		categoryName := NoCategoryLabel
		if task.Category != nil {
			categoryName = task.Category.Name
		}

		seconds := task.TotalTimeSpent()
		totalSeconds += seconds
		if task.Status == models.TaskStatusCompleted {
			summary.CompletedTasks++
		}

		rows = append(rows, ReportRow{
			Title:        task.Title,
			CategoryName: categoryName,
			Status:       task.Status,
			Priority:     task.Priority,
			SecondsSpent: seconds,
			CreatedAt:    task.CreatedAt,
			DueDate:      task.DueDate,
			CompletedAt:  task.CompletedAt,
		})
	}

	if summary.TotalTasks > 0 {
		summary.CompletionRate = float64(summary.CompletedTasks) / float64(summary.TotalTasks) * 100
	}
	summary.TotalHours = float64(totalSeconds) / 3600

	return rows, summary, nil
}

// Filename returns the date-stamped download filename for an export.
func (s *ReportService) Filename(extension string) string {
	return fmt.Sprintf("productivity_report_%s.%s", s.now().Format("20060102"), extension)
}

// GenerateCSV renders the report as CSV bytes.
func (s *ReportService) GenerateCSV(userID uint64, from, to *time.Time) ([]byte, error) {
	rows, _, err := s.Rows(userID, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{
		"Task Title", "Category", "Status", "Priority", "Time Spent (Hours)",
		"Created Date", "Due Date", "Completed Date",
	}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Title,
			row.CategoryName,
			statusLabel(row.Status),
			priorityLabel(row.Priority),
			fmt.Sprintf("%.2f", float64(row.SecondsSpent)/3600),
			row.CreatedAt.Format("2006-01-02 15:04"),
			formatOptionalDate(row.DueDate),
			formatOptionalDate(row.CompletedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// GeneratePDF renders the report as a PDF document with the task table
// and a summary block.
func (s *ReportService) GeneratePDF(user *models.User, from, to *time.Time) ([]byte, error) {
	rows, summary, err := s.Rows(user.ID, from, to)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "Productivity Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("User: %s", user.Username), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", s.now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	if from != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("From: %s", from.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	if to != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("To: %s", to.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	if len(rows) == 0 {
		pdf.CellFormat(0, 8, "No tasks found for the selected period.", "", 1, "L", false, 0, "")
	} else {
		s.writeTaskTable(pdf, rows)
		s.writeSummary(pdf, summary)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *ReportService) writeTaskTable(pdf *gofpdf.Fpdf, rows []ReportRow) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Tasks Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{70, 30, 28, 24, 28}
	headers := []string{"Task", "Category", "Status", "Priority", "Time Spent"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.CellFormat(widths[0], 7, truncateTitle(row.Title), "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 7, row.CategoryName, "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[2], 7, statusLabel(row.Status), "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[3], 7, priorityLabel(row.Priority), "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[4], 7, utils.FormatClockMinutes(row.SecondsSpent), "1", 0, "C", true, 0, "")
		pdf.Ln(-1)
	}
}

func (s *ReportService) writeSummary(pdf *gofpdf.Fpdf, summary ReportSummary) {
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Statistics", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Tasks: %d", summary.TotalTasks), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Completed Tasks: %d", summary.CompletedTasks), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Completion Rate: %.1f%%", summary.CompletionRate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Time Tracked: %.2f hours", summary.TotalHours), "", 1, "L", false, 0, "")
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= pdfTitleMaxLen {
		return title
	}
	return string(runes[:pdfTitleMaxLen]) + "..."
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func statusLabel(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusInProgress:
		return "In Progress"
	default:
		return titleCase(string(status))
	}
}

func priorityLabel(priority models.TaskPriority) string {
	return titleCase(string(priority))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
