package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/time-tracker-api/internal/database"
	apierrors "github.com/yukikurage/time-tracker-api/internal/errors"
	"github.com/yukikurage/time-tracker-api/internal/models"
)

// RequireTaskAccess loads the task from the :id parameter and rejects
// requests for tasks the user does not own. Foreign tasks get a 404,
// never a 403, so existence is not leaked across users.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Where("user_id = ?", userID).
			Preload("Category").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set("task", task)
		c.Next()
	}
}

// RequireCategoryAccess loads the category from the :id parameter and
// rejects requests for categories the user does not own, with the same
// 404-over-403 convention as tasks.
func RequireCategoryAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid category ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var category models.Category
		if err := database.GetDB().
			Where("user_id = ?", userID).
			First(&category, categoryID).Error; err != nil {
			apierrors.NotFound(c, "Category not found")
			c.Abort()
			return
		}

		c.Set("category", category)
		c.Next()
	}
}
