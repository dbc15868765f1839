package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/time-tracker-api/internal/constants"
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title too long")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID     uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	CategoryID *uint64
	Page       int
	PageSize   int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	CategoryID  *uint64
	UserID      uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Priority      *models.TaskPriority
	Status        *models.TaskStatus
	DueDate       *time.Time
	ClearDueDate  bool
	CategoryID    *uint64
	ClearCategory bool
}

// ListTasks returns the user's tasks matching the provided filters, newest first
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		UserID:     input.UserID,
		Status:     input.Status,
		Priority:   input.Priority,
		CategoryID: input.CategoryID,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task owned by the user with related data
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForUser(taskID, userID, "Category", "TimeEntries")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task after validating the category belongs to the user
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	// Length limits count runes, matching how report truncation treats titles.
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	if input.CategoryID != nil {
		if err := s.ensureCategoryOwned(*input.CategoryID, input.UserID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      models.TaskStatusPending,
		DueDate:     input.DueDate,
		CategoryID:  input.CategoryID,
		UserID:      input.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies the provided changes to a task owned by the user.
// completed_at follows status across this path too, so the
// "completed_at set iff completed" invariant cannot drift via edits.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if utf8.RuneCountInString(title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		s.applyStatus(task, *input.Status)
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearCategory {
		task.CategoryID = nil
	} else if input.CategoryID != nil {
		if err := s.ensureCategoryOwned(*input.CategoryID, userID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// CompleteTask marks a task completed and timestamps it
func (s *TaskService) CompleteTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	s.applyStatus(task, models.TaskStatusCompleted)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task owned by the user and cascades to its time entries
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	task, err := s.taskRepo.FindByIDForUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) applyStatus(task *models.Task, status models.TaskStatus) {
	task.Status = status
	if status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
}

func (s *TaskService) ensureCategoryOwned(categoryID, userID uint64) error {
	if _, err := s.categoryRepo.FindByIDForUser(categoryID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to verify category ownership: %w", err)
	}
	return nil
}
