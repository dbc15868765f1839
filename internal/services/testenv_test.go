package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int

// newTestDB opens a named in-memory sqlite database shared across the
// connection pool, so concurrent goroutines in a test observe the same
// data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", testDBCounter)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.TimeEntry{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, userID uint64, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:   name,
		Color:  "#007bff",
		UserID: userID,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestTask(t *testing.T, db *gorm.DB, userID uint64, title string, status models.TaskStatus) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:    title,
		Priority: models.TaskPriorityMedium,
		Status:   status,
		UserID:   userID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func createTestEntry(t *testing.T, db *gorm.DB, userID, taskID uint64, start time.Time, durationSeconds int64) *models.TimeEntry {
	t.Helper()

	end := start.Add(time.Duration(durationSeconds) * time.Second)
	entry := &models.TimeEntry{
		StartTime: start,
		EndTime:   &end,
		Duration:  &durationSeconds,
		TaskID:    taskID,
		UserID:    userID,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func newTimerService(db *gorm.DB) *TimerService {
	return NewTimerService(
		repository.NewTimeEntryRepository(db),
		repository.NewTaskRepository(db),
	)
}

func newStatsService(db *gorm.DB) *StatsService {
	return NewStatsService(
		repository.NewTaskRepository(db),
		repository.NewTimeEntryRepository(db),
	)
}
