package routes

import (
	"city-report-api/controllers"
	"city-report-api/middleware"
	"city-report-api/models"
	"city-report-api/realtime"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, hub *realtime.Hub) {
	// Realtime notification channel; the token travels as a query
	// parameter, so this sits outside the Bearer middleware.
	router.GET("/ws", realtime.ServeWS(hub))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "City Report API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PATCH("/profile", controllers.UpdateProfile)

			// Lookup tables
			protected.GET("/categories", controllers.GetCategories)
			protected.GET("/recipients", controllers.GetRecipients)

			// Reports
			reports := protected.Group("/reports")
			{
				reports.POST("", controllers.CreateReport)
				reports.GET("/my", controllers.GetMyReports)
				reports.GET("/:id", controllers.GetReport)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("/my", controllers.GetMyNotifications)
				notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
				notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead)
				notifications.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleOsbbAdmin), controllers.CreateNotification)
			}

			// Admin endpoints (global and OSBB-scoped admins)
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleOsbbAdmin))
			{
				admin.GET("/users", controllers.GetAllUsers)
				admin.PUT("/users/:id", controllers.UpdateUser)
				admin.DELETE("/users/:id", controllers.DeleteUser)

				admin.GET("/reports", controllers.GetAllReports)
				admin.GET("/reports/export", controllers.ExportReports)
				admin.PUT("/reports/:id", controllers.UpdateReport)
				admin.PATCH("/reports/:id/status", controllers.UpdateReportStatus)

				admin.GET("/dashboard/stats", controllers.GetDashboardStats)

				// Association management is reserved for the city admin.
				osbbs := admin.Group("/osbbs")
				osbbs.Use(middleware.RequireRole(models.RoleAdmin))
				{
					osbbs.POST("", controllers.CreateOsbb)
					osbbs.GET("", controllers.GetAllOsbbs)
					osbbs.PUT("/:id", controllers.UpdateOsbb)
					osbbs.DELETE("/:id", controllers.DeleteOsbb)
				}
			}
		}
	}
}
