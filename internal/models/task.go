package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus validates a status label at the API boundary.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority validates a priority label at the API boundary.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(s), nil
	}
	return "", fmt.Errorf("unknown task priority %q", s)
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(100);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Priority    TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate     *time.Time     `json:"due_date"`
	CompletedAt *time.Time     `json:"completed_at"`
	CategoryID  *uint64        `json:"category_id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Category    *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	TimeEntries []TimeEntry `gorm:"foreignKey:TaskID" json:"time_entries,omitempty"`
}

// TotalTimeSpent sums the recorded durations of the task's entries in
// seconds. Running entries (nil duration) count as zero.
func (t *Task) TotalTimeSpent() int64 {
	var total int64
	for _, entry := range t.TimeEntries {
		if entry.Duration != nil {
			total += *entry.Duration
		}
	}
	return total
}
