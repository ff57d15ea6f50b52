package routes

import (
	"github.com/gin-gonic/gin"

	"routeros-panel-api/controllers"
	"routeros-panel-api/middleware"
	"routeros-panel-api/models"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "RouterOS Panel API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth management
			protected.POST("/logout", controllers.Logout)

			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetUnreadCount)
				notifications.POST("", controllers.CreateNotification)
				notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
				notifications.POST("/mark-all-read", controllers.MarkAllNotificationsRead)
				notifications.POST("/clear-all", controllers.ClearAllNotifications)

				// Generator pipeline surface
				notifications.GET("/generator-status", controllers.GetGeneratorStatus)
				notifications.POST("/run-generators", middleware.RequireRole(models.RoleAdmin), controllers.RunGenerators)
			}

			// Panel settings (admin only for writes)
			protected.GET("/panel-settings", controllers.GetPanelSettings)
			protected.POST("/panel-settings", middleware.RequireRole(models.RoleAdmin), controllers.UpdatePanelSettings)

			// Router registry
			routers := protected.Group("/routers")
			{
				routers.GET("", controllers.GetRouters)
				routers.GET("/:id", controllers.GetRouter)

				// Only admins can change the device registry
				routers.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateRouter)
				routers.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateRouter)
				routers.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteRouter)
			}

			// Billing records
			sales := protected.Group("/sales")
			{
				sales.GET("", controllers.GetSales)
				sales.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleOperator), controllers.CreateSale)
				sales.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteSale)
			}
		}
	}
}
