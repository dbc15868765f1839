package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/time-tracker-api/internal/database"
	"github.com/yukikurage/time-tracker-api/internal/dto"
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/repository"
	"github.com/yukikurage/time-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CategoryHandlerTestSuite defines the test suite for CategoryHandler
type CategoryHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CategoryHandler
}

// SetupTest runs before each test
func (suite *CategoryHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.TimeEntry{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	categoryService := services.NewCategoryService(repository.NewCategoryRepository(suite.db))
	suite.handler = NewCategoryHandler(categoryService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CategoryHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CategoryHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *CategoryHandlerTestSuite) createTestCategory(userID uint64, name string) *models.Category {
	category := &models.Category{
		Name:   name,
		Color:  "#007bff",
		UserID: userID,
	}
	suite.db.Create(category)
	return category
}

func (suite *CategoryHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// Helper function to set category context (simulates RequireCategoryAccess middleware)
func (suite *CategoryHandlerTestSuite) setCategoryContext(c *gin.Context, category models.Category) {
	c.Set("category", category)
}

func (suite *CategoryHandlerTestSuite) TestListCategories_Success() {
	user := suite.createTestUser("alice")
	suite.createTestCategory(user.ID, "Work")
	suite.createTestCategory(user.ID, "Personal")

	c, w := suite.createAuthContext("GET", "/api/categories", nil, user.ID)

	suite.handler.ListCategories(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]dto.CategoryDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response["categories"], 2)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_Success() {
	user := suite.createTestUser("alice")

	requestBody := map[string]interface{}{
		"name":  "Learning",
		"color": "#ffc107",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.CategoryDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Learning", response.Name)
	assert.Equal(suite.T(), "#ffc107", response.Color)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_InvalidColor() {
	user := suite.createTestUser("alice")

	requestBody := map[string]interface{}{
		"name":  "Learning",
		"color": "yellow",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestUpdateCategory_Success() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory(user.ID, "Work")

	requestBody := map[string]interface{}{
		"name": "Deep Work",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/categories/1", body, user.ID)
	suite.setCategoryContext(c, *category)

	suite.handler.UpdateCategory(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.CategoryDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Deep Work", response.Name)
}

func (suite *CategoryHandlerTestSuite) TestDeleteCategory_Success() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory(user.ID, "Work")

	c, w := suite.createAuthContext("DELETE", "/api/categories/1", nil, user.ID)
	suite.setCategoryContext(c, *category)

	suite.handler.DeleteCategory(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var deleted models.Category
	err := suite.db.First(&deleted, category.ID).Error
	assert.Error(suite.T(), err)
}

func (suite *CategoryHandlerTestSuite) TestDeleteCategory_WithTasks() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory(user.ID, "Work")

	task := &models.Task{
		Title:      "Attached",
		Priority:   models.TaskPriorityMedium,
		Status:     models.TaskStatusPending,
		CategoryID: &category.ID,
		UserID:     user.ID,
	}
	suite.db.Create(task)

	c, w := suite.createAuthContext("DELETE", "/api/categories/1", nil, user.ID)
	suite.setCategoryContext(c, *category)

	suite.handler.DeleteCategory(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "CATEGORY_HAS_TASKS")

	// Category survives the refused delete
	var survivor models.Category
	err := suite.db.First(&survivor, category.ID).Error
	assert.NoError(suite.T(), err)
}

// TestSuite runs the test suite
func TestCategoryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlerTestSuite))
}
