package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jobpilot-dev/jobpilot/internal/handlers"
	"github.com/jobpilot-dev/jobpilot/internal/middleware"
	"github.com/jobpilot-dev/jobpilot/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/refresh", handlers.Refresh)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		profile := api.Group("/profile", middleware.AuthMiddleware())
		{
			profile.GET("", handlers.GetProfile)
			profile.PUT("", handlers.UpdateProfile)
			profile.GET("/validate", handlers.ValidateProfile)
			profile.GET("/skills/suggestions", handlers.GetSkillSuggestions)
			profile.POST("/critique/:application_id", handlers.CritiqueProfile)
			profile.PATCH("/:section", handlers.UpdateSection)
		}

		cvs := api.Group("/cvs", middleware.AuthMiddleware())
		{
			cvs.GET("", handlers.ListCVs)
			cvs.POST("", handlers.CreateCV)
			cvs.GET("/stats", handlers.GetCVStats)
			cvs.POST("/generate", handlers.GenerateCV)
			cvs.POST("/save", handlers.SaveGeneratedCV)
			cvs.GET("/:id", handlers.GetCV)
			cvs.PUT("/:id", handlers.UpdateCV)
			cvs.DELETE("/:id", handlers.DeleteCV)
			cvs.PATCH("/:id/set-default", handlers.SetDefaultCV)
			cvs.GET("/:id/download", handlers.DownloadCV)
		}

		applications := api.Group("/job-applications", middleware.AuthMiddleware())
		{
			applications.GET("", handlers.ListApplications)
			applications.POST("", handlers.CreateApplication)
			applications.GET("/stats", handlers.GetApplicationStats)
			applications.GET("/export", handlers.ExportApplications)
			applications.GET("/:id", handlers.GetApplication)
			applications.PUT("/:id", handlers.UpdateApplication)
			applications.PATCH("/:id/status", handlers.UpdateApplicationStatus)
			applications.DELETE("/:id", handlers.DeleteApplication)
			applications.POST("/:id/quiz", handlers.GenerateInterviewQuiz)
		}

		todos := api.Group("/todos", middleware.AuthMiddleware())
		{
			todos.GET("", handlers.ListTodos)
			todos.POST("", handlers.CreateTodo)
			todos.GET("/stats", handlers.GetTodoStats)
			todos.POST("/generate-skill-gaps", handlers.GenerateSkillGapTodos)
			todos.GET("/:id", handlers.GetTodo)
			todos.PUT("/:id", handlers.UpdateTodo)
			todos.DELETE("/:id", handlers.DeleteTodo)
			todos.PATCH("/:id/toggle", handlers.ToggleTodoStatus)
			todos.PATCH("/:id/progress", handlers.UpdateTodoProgress)
		}

		interview := api.Group("/interview", middleware.AuthMiddleware())
		{
			interview.POST("/technical", handlers.TechnicalInterview)
			interview.POST("/hr", handlers.HRInterview)
		}
	}

	return r
}
