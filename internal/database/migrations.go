package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for filtering and sorting
		{"tasks", "idx_tasks_user_id", "user_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_priority", "priority"},
		{"tasks", "idx_tasks_category_id", "category_id"},
		{"tasks", "idx_tasks_created_at", "created_at"},

		// Time entry indexes for timer and window queries
		{"time_entries", "idx_time_entries_user_id", "user_id"},
		{"time_entries", "idx_time_entries_task_id", "task_id"},
		{"time_entries", "idx_time_entries_start_time", "start_time"},
		// Active-timer lookup: user_id + end_time lets the "is a timer
		// running" check hit the index.
		{"time_entries", "idx_time_entries_active", "user_id, end_time"},

		// Category indexes
		{"categories", "idx_categories_user_id", "user_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// MigrateDatabase runs schema migration followed by index creation.
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
