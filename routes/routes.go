package routes

import (
	"worklink-api/handlers"
	"worklink-api/middleware"
	"worklink-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Discovery (no auth needed)
		public.GET("/tasks", handlers.ListTasks)
		public.GET("/tasks/:id", handlers.GetTask)
		public.GET("/map/viewport", handlers.GetMapViewport)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.PUT("/profile", handlers.UpdateProfile)
		auth.POST("/profile/photo", handlers.UploadPhoto)
		auth.GET("/notifications", handlers.ListNotifications)
		auth.PUT("/notifications/:id/read", handlers.MarkNotificationRead)
	}

	// ── Worker routes ──────────────────────────────────────────────
	worker := r.Group("/api/worker")
	worker.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleWorker))
	{
		worker.GET("/tasks", handlers.GetWorkerFeed)
		worker.GET("/jobs", handlers.GetWorkerJobs)
		worker.GET("/summary", handlers.GetWorkerSummary)
		worker.POST("/tasks/:id/apply", handlers.ApplyToTask)
		worker.PUT("/tasks/:id/status", handlers.AdvanceTask)
		worker.POST("/tasks/:id/tracking/start", handlers.StartTracking)
		worker.GET("/tasks/:id/tracking", handlers.GetTracking)
		worker.POST("/tasks/:id/tracking/stop", handlers.StopTracking)
	}

	// ── Provider routes ────────────────────────────────────────────
	provider := r.Group("/api/provider")
	provider.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleProvider))
	{
		provider.POST("/tasks/analyze", handlers.AnalyzeTask)
		provider.POST("/tasks", handlers.CreateTask)
		provider.GET("/tasks", handlers.GetProviderTasks)
		provider.GET("/summary", handlers.GetProviderSummary)
		provider.PUT("/tasks/:id/applicants/:workerId", handlers.DecideApplicant)
		provider.PUT("/tasks/:id/cancel", handlers.CancelTask)
		provider.GET("/tasks/:id/tracking", handlers.GetTracking)
		provider.POST("/tasks/:id/tracking/stop", handlers.StopTracking)
	}
}
