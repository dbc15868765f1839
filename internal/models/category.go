package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups a user's tasks. Deleting a category is guarded at the
// service layer when tasks still reference it; the model declares no
// cascade so no other deletion path can silently destroy tasks.
type Category struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Color     string         `gorm:"type:varchar(7);not null" json:"color"`
	UserID    uint64         `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Tasks []Task `gorm:"foreignKey:CategoryID" json:"tasks,omitempty"`
}
