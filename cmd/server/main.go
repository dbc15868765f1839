package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/time-tracker-api/internal/config"
	"github.com/yukikurage/time-tracker-api/internal/constants"
	"github.com/yukikurage/time-tracker-api/internal/database"
	"github.com/yukikurage/time-tracker-api/internal/handlers"
	"github.com/yukikurage/time-tracker-api/internal/middleware"
	"github.com/yukikurage/time-tracker-api/internal/repository"
	"github.com/yukikurage/time-tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer func() {
		_ = logger.Sync()
	}()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		logger.Fatal("failed to add indexes", zap.Error(err))
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatal("failed to create redis session store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	entryRepo := repository.NewTimeEntryRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	taskService := services.NewTaskService(taskRepo, categoryRepo)
	timerService := services.NewTimerService(entryRepo, taskRepo)
	statsService := services.NewStatsService(taskRepo, entryRepo)
	reportService := services.NewReportService(taskRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	taskHandler := handlers.NewTaskHandler(taskService)
	timerHandler := handlers.NewTimerHandler(timerService)
	statsHandler := handlers.NewStatsHandler(statsService)
	reportHandler := handlers.NewReportHandler(reportService, authService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Time Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
			tasks.POST("/:id/complete", middleware.RequireTaskAccess(), taskHandler.CompleteTask)
		}

		// Category routes (protected)
		categories := api.Group("/categories")
		categories.Use(middleware.RequireAuth())
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.PATCH("/:id", middleware.RequireCategoryAccess(), categoryHandler.UpdateCategory)
			categories.DELETE("/:id", middleware.RequireCategoryAccess(), categoryHandler.DeleteCategory)
		}

		// Timer polling and statistics (protected)
		api.GET("/timer/status", middleware.RequireAuth(), timerHandler.Status)
		api.GET("/stats", middleware.RequireAuth(), statsHandler.GetStats)
	}

	// Timer mutations (protected)
	timer := r.Group("/timer")
	timer.Use(middleware.RequireAuth())
	{
		timer.POST("/start", timerHandler.Start)
		timer.POST("/stop", timerHandler.Stop)
	}

	// Report downloads (protected)
	reports := r.Group("/reports")
	reports.Use(middleware.RequireAuth())
	{
		reports.GET("/csv", reportHandler.ExportCSV)
		reports.GET("/pdf", reportHandler.ExportPDF)
	}

	// Start server
	logger.Info("server starting", zap.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
