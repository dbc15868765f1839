package repository

import (
	"time"

	"github.com/yukikurage/time-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithDefaultCategories creates a user and their starter
	// categories within a single transaction.
	CreateWithDefaultCategories(user *models.User, categories []models.Category) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(category *models.Category) error

	// FindByIDForUser finds a category owned by the given user
	FindByIDForUser(id, userID uint64) (*models.Category, error)

	// ListByUser lists all categories owned by a user
	ListByUser(userID uint64) ([]models.Category, error)

	// Update updates a category
	Update(category *models.Category) error

	// Delete soft deletes a category
	Delete(id uint64) error

	// CountTasks counts live tasks referencing a category
	CountTasks(categoryID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID      uint64
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	CategoryID  *uint64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByIDForUser finds a task owned by the given user, with
	// optional preloading
	FindByIDForUser(id, userID uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, newest first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListForReport retrieves a user's tasks in an optional created_at
	// window, with category and time entries preloaded
	ListForReport(userID uint64, from, to *time.Time) ([]models.Task, error)

	// ListCreatedBetween retrieves a user's tasks created in a window
	ListCreatedBetween(userID uint64, from, to time.Time) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its time entries atomically
	Delete(id uint64) error
}

// TimeEntryRepository defines the interface for time entry data access
type TimeEntryRepository interface {
	// Create creates a new time entry
	Create(entry *models.TimeEntry) error

	// CreateWithTaskTransition creates the entry and persists the task's
	// pending→in_progress transition in one transaction
	CreateWithTaskTransition(entry *models.TimeEntry, task *models.Task) error

	// FindActiveByUser finds the user's running entry, if any, with the
	// task preloaded
	FindActiveByUser(userID uint64) (*models.TimeEntry, error)

	// Stop closes an entry by persisting end time and duration together
	Stop(entry *models.TimeEntry, endTime time.Time, duration int64) error

	// ListStartedBetween retrieves a user's entries whose own start_time
	// falls in the window, with task and category preloaded
	ListStartedBetween(userID uint64, from, to time.Time) ([]models.TimeEntry, error)
}
