package models

import (
	"time"

	"gorm.io/gorm"
)

// TimeEntry is one tracked interval against a task. A nil EndTime marks
// the entry as running; Duration is written exactly once when the timer
// stops and the entry is never mutated again. UserID duplicates the
// owning task's user so timer queries never need a join.
type TimeEntry struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	StartTime time.Time      `gorm:"not null" json:"start_time"`
	EndTime   *time.Time     `json:"end_time"`
	Duration  *int64         `json:"duration"`
	TaskID    uint64         `gorm:"not null;index" json:"task_id"`
	UserID    uint64         `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsRunning reports whether the entry is still open.
func (e *TimeEntry) IsRunning() bool {
	return e.EndTime == nil
}

// ElapsedSince returns the live elapsed seconds for a running entry.
func (e *TimeEntry) ElapsedSince(now time.Time) int64 {
	return int64(now.Sub(e.StartTime).Round(time.Second).Seconds())
}
