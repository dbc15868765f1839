package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/time-tracker-api/internal/constants"
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInvalidCategoryName = errors.New("category name cannot be empty")
	ErrCategoryNameTooLong = errors.New("category name too long")
	ErrInvalidColor        = errors.New("color must be a #RRGGBB value")
	ErrCategoryHasTasks    = errors.New("category has existing tasks")
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CategoryService provides business logic for category operations.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

// CreateCategoryInput represents parameters to create a new category.
type CreateCategoryInput struct {
	Name   string
	Color  string
	UserID uint64
}

// CreateCategory creates a new category for the user.
func (s *CategoryService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidCategoryName
	}
	if utf8.RuneCountInString(name) > constants.MaxCategoryName {
		return nil, ErrCategoryNameTooLong
	}
	if !colorPattern.MatchString(input.Color) {
		return nil, ErrInvalidColor
	}

	category := &models.Category{
		Name:   name,
		Color:  input.Color,
		UserID: input.UserID,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// ListCategories returns all categories owned by the user.
func (s *CategoryService) ListCategories(userID uint64) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategoryInput represents mutable category fields.
type UpdateCategoryInput struct {
	Name  *string
	Color *string
}

// UpdateCategory updates a category owned by the user.
func (s *CategoryService) UpdateCategory(categoryID, userID uint64, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.findOwned(categoryID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidCategoryName
		}
		if utf8.RuneCountInString(name) > constants.MaxCategoryName {
			return nil, ErrCategoryNameTooLong
		}
		category.Name = name
	}
	if input.Color != nil {
		if !colorPattern.MatchString(*input.Color) {
			return nil, ErrInvalidColor
		}
		category.Color = *input.Color
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category. Categories that still have tasks
// are refused; this guard is the single place the policy lives, the
// model itself never cascades to tasks.
func (s *CategoryService) DeleteCategory(categoryID, userID uint64) error {
	category, err := s.findOwned(categoryID, userID)
	if err != nil {
		return err
	}

	count, err := s.categoryRepo.CountTasks(category.ID)
	if err != nil {
		return fmt.Errorf("failed to count category tasks: %w", err)
	}
	if count > 0 {
		return ErrCategoryHasTasks
	}

	if err := s.categoryRepo.Delete(category.ID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

func (s *CategoryService) findOwned(categoryID, userID uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByIDForUser(categoryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}
