package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/time-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/time-tracker-api/internal/errors"
	"github.com/yukikurage/time-tracker-api/internal/middleware"
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/services"
)

// CategoryHandler coordinates category HTTP handlers.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories returns all categories owned by the current user.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list categories")
		return
	}

	result := make([]dto.CategoryDTO, len(categories))
	for i, category := range categories {
		result[i] = dto.ToCategoryDTO(category)
	}

	c.JSON(http.StatusOK, gin.H{"categories": result})
}

// CreateCategory creates a category for the current user.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateCategoryRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color" binding:"required"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(services.CreateCategoryInput{
		Name:   req.Name,
		Color:  req.Color,
		UserID: userID,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryDTO(*category))
}

// UpdateCategory updates a category loaded by RequireCategoryAccess.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	category := c.MustGet("category").(models.Category)

	type UpdateCategoryRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.categoryService.UpdateCategory(category.ID, userID, services.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*updated))
}

// DeleteCategory deletes a category loaded by RequireCategoryAccess.
// Categories with existing tasks are refused.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	category := c.MustGet("category").(models.Category)

	if err := h.categoryService.DeleteCategory(category.ID, userID); err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidCategoryName),
		errors.Is(err, services.ErrCategoryNameTooLong),
		errors.Is(err, services.ErrInvalidColor):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCategoryHasTasks):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeCategoryHasTasks,
			"Cannot delete category with existing tasks. Please reassign or delete tasks first.")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
