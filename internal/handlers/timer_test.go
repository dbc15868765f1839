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
	"github.com/yukikurage/time-tracker-api/internal/models"
	"github.com/yukikurage/time-tracker-api/internal/repository"
	"github.com/yukikurage/time-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TimerHandlerTestSuite defines the test suite for TimerHandler
type TimerHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TimerHandler
}

// SetupTest runs before each test
func (suite *TimerHandlerTestSuite) SetupTest() {
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

	timerService := services.NewTimerService(
		repository.NewTimeEntryRepository(suite.db),
		repository.NewTaskRepository(suite.db),
	)
	suite.handler = NewTimerHandler(timerService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TimerHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TimerHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TimerHandlerTestSuite) createTestTask(title string, userID uint64) *models.Task {
	task := &models.Task{
		Title:    title,
		Priority: models.TaskPriorityMedium,
		Status:   models.TaskStatusPending,
		UserID:   userID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TimerHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
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

func (suite *TimerHandlerTestSuite) startTimer(userID, taskID uint64) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]interface{}{"task_id": taskID})
	c, w := suite.createAuthContext("POST", "/timer/start", body, userID)
	suite.handler.Start(c)
	return w
}

func (suite *TimerHandlerTestSuite) TestStart_Success() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask("Deep work", user.ID)

	w := suite.startTimer(user.ID, task.ID)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response["message"], "Deep work")

	// Starting a timer moves a pending task to in_progress
	var reloaded models.Task
	suite.db.First(&reloaded, task.ID)
	assert.Equal(suite.T(), models.TaskStatusInProgress, reloaded.Status)
}

func (suite *TimerHandlerTestSuite) TestStart_MissingTaskID() {
	user := suite.createTestUser("alice")

	c, w := suite.createAuthContext("POST", "/timer/start", []byte("{}"), user.ID)

	suite.handler.Start(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TimerHandlerTestSuite) TestStart_TaskNotFound() {
	user := suite.createTestUser("alice")

	w := suite.startTimer(user.ID, 9999)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TimerHandlerTestSuite) TestStart_ForeignTask() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	task := suite.createTestTask("Bob's task", bob.ID)

	w := suite.startTimer(alice.ID, task.ID)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TimerHandlerTestSuite) TestStart_SecondTimerRejected() {
	user := suite.createTestUser("alice")
	first := suite.createTestTask("First", user.ID)
	second := suite.createTestTask("Second", user.ID)

	w := suite.startTimer(user.ID, first.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.startTimer(user.ID, second.ID)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "TIMER_ALREADY_ACTIVE")
}

func (suite *TimerHandlerTestSuite) TestStart_IndependentPerUser() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	aliceTask := suite.createTestTask("Alice's task", alice.ID)
	bobTask := suite.createTestTask("Bob's task", bob.ID)

	w := suite.startTimer(alice.ID, aliceTask.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	// Alice's running timer does not block Bob
	w = suite.startTimer(bob.ID, bobTask.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

func (suite *TimerHandlerTestSuite) TestStop_Success() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask("Deep work", user.ID)

	w := suite.startTimer(user.ID, task.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	c, w := suite.createAuthContext("POST", "/timer/stop", nil, user.ID)
	suite.handler.Stop(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response["message"], "Timer stopped")

	entry := response["time_entry"].(map[string]interface{})
	assert.NotNil(suite.T(), entry["end_time"])
	assert.NotNil(suite.T(), entry["duration"])
}

func (suite *TimerHandlerTestSuite) TestStop_NoActiveTimer() {
	user := suite.createTestUser("alice")

	c, w := suite.createAuthContext("POST", "/timer/stop", nil, user.ID)
	suite.handler.Stop(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "NO_ACTIVE_TIMER")
}

func (suite *TimerHandlerTestSuite) TestStatus_Inactive() {
	user := suite.createTestUser("alice")

	c, w := suite.createAuthContext("GET", "/api/timer/status", nil, user.ID)
	suite.handler.Status(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), false, response["active"])
}

func (suite *TimerHandlerTestSuite) TestStatus_Active() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask("Deep work", user.ID)

	w := suite.startTimer(user.ID, task.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	c, w := suite.createAuthContext("GET", "/api/timer/status", nil, user.ID)
	suite.handler.Status(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), true, response["active"])
	assert.EqualValues(suite.T(), task.ID, response["task_id"])
	assert.Equal(suite.T(), "Deep work", response["task_title"])
}

func (suite *TimerHandlerTestSuite) TestStatus_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/timer/status", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.Status(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestSuite runs the test suite
func TestTimerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TimerHandlerTestSuite))
}
