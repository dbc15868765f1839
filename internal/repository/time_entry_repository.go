package repository

import (
	"time"

	"github.com/yukikurage/time-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTimeEntryRepository is a GORM implementation of TimeEntryRepository
type GormTimeEntryRepository struct {
	db *gorm.DB
}

// NewTimeEntryRepository creates a new TimeEntryRepository
func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &GormTimeEntryRepository{db: db}
}

// Create creates a new time entry
func (r *GormTimeEntryRepository) Create(entry *models.TimeEntry) error {
	return r.db.Create(entry).Error
}

// CreateWithTaskTransition creates the entry and saves the task's status
// change atomically, so a failed insert never leaves the task flipped to
// in_progress.
func (r *GormTimeEntryRepository) CreateWithTaskTransition(entry *models.TimeEntry, task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Save(task).Error
	})
}

// FindActiveByUser finds the user's running entry with the task preloaded
func (r *GormTimeEntryRepository) FindActiveByUser(userID uint64) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.
		Where("user_id = ? AND end_time IS NULL", userID).
		Preload("Task").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Stop persists end time and duration in a single update so the entry
// can never be observed half-closed.
func (r *GormTimeEntryRepository) Stop(entry *models.TimeEntry, endTime time.Time, duration int64) error {
	err := r.db.Model(entry).Updates(map[string]interface{}{
		"end_time": endTime,
		"duration": duration,
	}).Error
	if err != nil {
		return err
	}

	entry.EndTime = &endTime
	entry.Duration = &duration
	return nil
}

// ListStartedBetween retrieves a user's entries by their own start_time
// window, independent of when the parent task was created.
func (r *GormTimeEntryRepository) ListStartedBetween(userID uint64, from, to time.Time) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := r.db.
		Where("user_id = ? AND start_time >= ? AND start_time <= ?", userID, from, to).
		Preload("Task").
		Preload("Task.Category").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
