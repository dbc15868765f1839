package repository

import (
	"github.com/yukikurage/time-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// FindByIDForUser finds a category by ID scoped to its owner
func (r *GormCategoryRepository) FindByIDForUser(id, userID uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("user_id = ?", userID).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByUser lists all categories owned by a user
func (r *GormCategoryRepository) ListByUser(userID uint64) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("user_id = ?", userID).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Update updates a category
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete soft deletes a category
func (r *GormCategoryRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Category{}, id).Error
}

// CountTasks counts live tasks referencing a category
func (r *GormCategoryRepository) CountTasks(categoryID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}
