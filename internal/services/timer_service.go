package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTimerAlreadyActive = errors.New("a timer is already active")
	ErrNoActiveTimer      = errors.New("no active timer")
)

const timerLockStripes = 64

// TimerService maintains the one-running-timer-per-user invariant and
// computes durations. Start and Stop hold a per-user lock across their
// read-then-write so two concurrent starts for the same user cannot
// both pass the active check. Locks are striped over a fixed array, so
// memory stays constant regardless of how many users the process sees;
// two users sharing a stripe only ever contend, never interleave.
type TimerService struct {
	entryRepo repository.TimeEntryRepository
	taskRepo  repository.TaskRepository

	locks [timerLockStripes]sync.Mutex

	now func() time.Time
}

// NewTimerService creates a new TimerService
func NewTimerService(entryRepo repository.TimeEntryRepository, taskRepo repository.TaskRepository) *TimerService {
	return &TimerService{
		entryRepo: entryRepo,
		taskRepo:  taskRepo,
		now:       time.Now,
	}
}

// TimerStatus is the read-only projection for polling clients.
type TimerStatus struct {
	Active         bool       `json:"active"`
	TaskID         uint64     `json:"task_id,omitempty"`
	TaskTitle      string     `json:"task_title,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_seconds,omitempty"`
	StartTime      *time.Time `json:"start_time,omitempty"`
}

// Start opens a time entry against the user's task. The task flips from
// pending to in_progress as a side effect; any other status is left
// alone.
func (s *TimerService) Start(userID, taskID uint64) (*models.TimeEntry, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.entryRepo.FindActiveByUser(userID); err == nil {
		return nil, ErrTimerAlreadyActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check active timer: %w", err)
	}

	task, err := s.taskRepo.FindByIDForUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	entry := &models.TimeEntry{
		StartTime: s.now(),
		TaskID:    task.ID,
		UserID:    userID,
	}

	if task.Status == models.TaskStatusPending {
		task.Status = models.TaskStatusInProgress
	}

	if err := s.entryRepo.CreateWithTaskTransition(entry, task); err != nil {
		return nil, fmt.Errorf("failed to start timer: %w", err)
	}

	entry.Task = *task
	return entry, nil
}

// Stop closes the user's running entry, persisting end time and the
// rounded whole-second duration together.
func (s *TimerService) Stop(userID uint64) (*models.TimeEntry, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	entry, err := s.entryRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTimer
		}
		return nil, fmt.Errorf("failed to find active timer: %w", err)
	}

	endTime := s.now()
	duration := int64(endTime.Sub(entry.StartTime).Round(time.Second).Seconds())
	if duration < 0 {
		duration = 0
	}

	if err := s.entryRepo.Stop(entry, endTime, duration); err != nil {
		return nil, fmt.Errorf("failed to stop timer: %w", err)
	}

	return entry, nil
}

// Status reports whether a timer is running without touching any state.
// Elapsed seconds are computed live from the wall clock, not persisted.
func (s *TimerService) Status(userID uint64) (*TimerStatus, error) {
	entry, err := s.entryRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &TimerStatus{Active: false}, nil
		}
		return nil, fmt.Errorf("failed to find active timer: %w", err)
	}

	startTime := entry.StartTime
	return &TimerStatus{
		Active:         true,
		TaskID:         entry.TaskID,
		TaskTitle:      entry.Task.Title,
		ElapsedSeconds: entry.ElapsedSince(s.now()),
		StartTime:      &startTime,
	}, nil
}

func (s *TimerService) userLock(userID uint64) *sync.Mutex {
	return &s.locks[userID%timerLockStripes]
}
