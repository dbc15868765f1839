package dto

import (
	"time"

	"github.com/yukikurage/time-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TimeEntryDTO represents a time entry in API responses
type TimeEntryDTO struct {
	ID        uint64     `json:"id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Duration  *int64     `json:"duration"`
	TaskID    uint64     `json:"task_id"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	DueDate     *time.Time          `json:"due_date"`
	CompletedAt *time.Time          `json:"completed_at"`
	CategoryID  *uint64             `json:"category_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Category    *CategoryDTO        `json:"category,omitempty"`
	TimeEntries []TimeEntryDTO      `json:"time_entries,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:    category.ID,
		Name:  category.Name,
		Color: category.Color,
	}
}

// ToTimeEntryDTO converts a TimeEntry model to TimeEntryDTO
func ToTimeEntryDTO(entry models.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:        entry.ID,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Duration:  entry.Duration,
		TaskID:    entry.TaskID,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CategoryID:  task.CategoryID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include category if preloaded
	if task.Category != nil {
		category := ToCategoryDTO(*task.Category)
		dto.Category = &category
	}

	// Include entries if preloaded
	if len(task.TimeEntries) > 0 {
		dto.TimeEntries = make([]TimeEntryDTO, len(task.TimeEntries))
		for i, entry := range task.TimeEntries {
			dto.TimeEntries[i] = ToTimeEntryDTO(entry)
		}
	}

	return dto
}
