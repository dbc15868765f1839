package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/time-tracker-api/internal/constants"
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/repository"
)

// NoCategoryLabel buckets tracked time whose task has no category.
const NoCategoryLabel = "No Category"

// ProductivityStats is the read-only snapshot returned by Compute.
// Seconds are kept internally; only total_time_hours and daily_activity
// are converted to fractional hours for presentation.
type ProductivityStats struct {
	TotalTasks      int                         `json:"total_tasks"`
	CompletedTasks  int                         `json:"completed_tasks"`
	CompletionRate  float64                     `json:"completion_rate"`
	TotalTimeHours  float64                     `json:"total_time_hours"`
	TasksByStatus   map[models.TaskStatus]int   `json:"tasks_by_status"`
	TasksByPriority map[models.TaskPriority]int `json:"tasks_by_priority"`
	TimeByCategory  map[string]int64            `json:"time_by_category"`
	DailyActivity   map[string]float64          `json:"daily_activity"`
}

// StatsService derives productivity metrics over a trailing window.
type StatsService struct {
	taskRepo  repository.TaskRepository
	entryRepo repository.TimeEntryRepository

	now func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(taskRepo repository.TaskRepository, entryRepo repository.TimeEntryRepository) *StatsService {
	return &StatsService{
		taskRepo:  taskRepo,
		entryRepo: entryRepo,
		now:       time.Now,
	}
}

// Compute builds the snapshot for [now - windowDays, now]. Tasks are
// selected by created_at and entries by their own start_time; the two
// windows are independent by contract. The daily activity series always
// covers the most recent seven calendar days regardless of windowDays.
func (s *StatsService) Compute(userID uint64, windowDays int) (*ProductivityStats, error) {
	end := s.now()
	start := end.AddDate(0, 0, -windowDays)

	tasks, err := s.taskRepo.ListCreatedBetween(userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for stats: %w", err)
	}

	entries, err := s.entryRepo.ListStartedBetween(userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries for stats: %w", err)
	}

	stats := &ProductivityStats{
		TasksByStatus: map[models.TaskStatus]int{
			models.TaskStatusPending:    0,
			models.TaskStatusInProgress: 0,
			models.TaskStatusCompleted:  0,
		},
		TasksByPriority: map[models.TaskPriority]int{
			models.TaskPriorityLow:    0,
			models.TaskPriorityMedium: 0,
			models.TaskPriorityHigh:   0,
		},
		TimeByCategory: make(map[string]int64),
		DailyActivity:  make(map[string]float64),
	}

	stats.TotalTasks = len(tasks)
	for _, task := range tasks {
		stats.TasksByStatus[task.Status]++
		stats.TasksByPriority[task.Priority]++
		if task.Status == models.TaskStatusCompleted {
			stats.CompletedTasks++
		}
	}

	// Rate is a percentage; zero tasks is a defined 0, not an error.
	if stats.TotalTasks > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
	}

	var totalSeconds int64
	for _, entry := range entries {
		seconds := int64(0)
		if entry.Duration != nil {
			seconds = *entry.Duration
		}
		totalSeconds += seconds

		label := NoCategoryLabel
		if entry.Task.Category != nil {
			label = entry.Task.Category.Name
		}
		stats.TimeByCategory[label] += seconds
	}
	stats.TotalTimeHours = float64(totalSeconds) / 3600

	for i := 0; i < constants.DailyActivityDays; i++ {
		day := end.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")

		var daySeconds int64
		for _, entry := range entries {
			if entry.StartTime.Year() == day.Year() && entry.StartTime.YearDay() == day.YearDay() {
				if entry.Duration != nil {
					daySeconds += *entry.Duration
				}
			}
		}
		stats.DailyActivity[key] = float64(daySeconds) / 3600
	}

	return stats, nil
}
