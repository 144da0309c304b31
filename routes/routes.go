package routes

import (
	"accana-api/controllers"
	"accana-api/middleware"
	"accana-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "ACCANA API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)

			// Standards catalog & analysis
			protected.GET("/accreditation-bodies", controllers.GetAccreditationBodies)
			protected.POST("/analyze", controllers.AnalyzeContent)
			protected.POST("/extract", controllers.ExtractFile)

			// Account management (Admin and Leads; Leads are limited to
			// University ID creation inside the service)
			users := protected.Group("/users")
			users.Use(middleware.RequireRole(models.RoleAdmin, models.RoleUniversityLead))
			{
				users.POST("", controllers.RegisterUser)
				users.GET("", controllers.GetUsers)
			}

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.POST("", controllers.CreateSubmission)
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.GET("/:id/revision", controllers.LoadSubmissionForRevision)
				submissions.GET("/:id/report.txt", controllers.GetSubmissionReportText)
				submissions.GET("/:id/report.pdf", controllers.GetSubmissionReportPDF)

				// Only reviewers can decide or annotate
				reviewers := middleware.RequireRole(models.RoleAdmin, models.RoleUniversityLead)
				submissions.POST("/:id/review", reviewers, controllers.ReviewSubmission)
				submissions.POST("/:id/notes", reviewers, controllers.AddSubmissionNote)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.POST("/read-all", controllers.MarkAllNotificationsRead)
				notifications.DELETE("/read", controllers.ClearReadNotifications)
			}

			// Internal messages
			messages := protected.Group("/messages")
			{
				messages.POST("", controllers.SendMessage)
				messages.GET("/inbox", controllers.GetInbox)
				messages.GET("/sent", controllers.GetSentMessages)
				messages.POST("/:id/read", controllers.MarkMessageRead)
				messages.DELETE("/read", controllers.DeleteReadMessages)
			}
		}
	}
}
