package routes

import (
	"jobsite-api/controllers"
	"jobsite-api/middleware"
	"jobsite-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(router *gin.Engine, data *services.DataContext) {
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Jobsite API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(data))
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Crew
			users := protected.Group("/users")
			{
				users.GET("", controllers.GetUsers)
				users.GET("/:id", controllers.GetUser)
				users.POST("", middleware.RequireAdmin(), controllers.CreateUser)
				users.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateUser)
			}

			// Projects, punch lists and photos
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.GetProjects)
				projects.GET("/:id", controllers.GetProject)
				projects.POST("", controllers.CreateProject)
				projects.PUT("/:id", controllers.UpdateProject)

				projects.POST("/:id/punchlist", controllers.CreatePunchListItem)
				projects.POST("/:id/punchlist/:itemId/toggle", controllers.TogglePunchListItem)
				projects.POST("/:id/punchlist/:itemId/photo", controllers.UploadPunchListPhoto)
				projects.DELETE("/:id/punchlist/:itemId/photo", controllers.DeletePunchListPhoto)

				projects.POST("/:id/photos", controllers.UploadPhotos)
			}
			protected.GET("/photos/*key", controllers.GetPhoto)

			// Tasks
			tasks := protected.Group("/tasks")
			{
				tasks.GET("", controllers.GetTasks)
				tasks.POST("", controllers.CreateTask)
				tasks.PUT("/:id/status", controllers.UpdateTaskStatus)
			}

			// Time clock
			timeclock := protected.Group("/timeclock")
			{
				timeclock.POST("/clock-in", controllers.ClockIn)
				timeclock.POST("/clock-out", controllers.ClockOut)
				timeclock.POST("/switch-job", controllers.SwitchJob)
			}

			// Time logs (admin corrections)
			timelogs := protected.Group("/timelogs")
			{
				timelogs.GET("", controllers.GetTimeLogs)
				timelogs.POST("", middleware.RequireAdmin(), controllers.CreateManualTimeLog)
				timelogs.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateTimeLog)
				timelogs.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteTimeLog)
			}

			// Estimates
			estimates := protected.Group("/estimates")
			{
				estimates.GET("", controllers.GetEstimates)
				estimates.POST("", controllers.CreateEstimate)
				estimates.PUT("/:id/status", middleware.RequireAdmin(), controllers.UpdateEstimateStatus)
			}

			// Expenses
			expenses := protected.Group("/expenses")
			{
				expenses.GET("", controllers.GetExpenses)
				expenses.POST("", controllers.CreateExpense)
				expenses.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteExpense)
			}

			// Invoices
			invoices := protected.Group("/invoices")
			{
				invoices.GET("", controllers.GetInvoices)
				invoices.POST("", middleware.RequireAdmin(), controllers.CreateInvoice)
				invoices.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateInvoice)
				invoices.PUT("/:id/status", middleware.RequireAdmin(), controllers.UpdateInvoiceStatus)
				invoices.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteInvoice)
			}

			// Inventory
			inventory := protected.Group("/inventory")
			{
				inventory.GET("", controllers.GetInventory)
				inventory.GET("/low-stock", controllers.GetLowStock)
				inventory.POST("", controllers.CreateInventoryItem)
				inventory.PUT("/:id", controllers.UpdateInventoryItem)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/weekly-hours", controllers.GetWeeklyHours)
				dashboard.GET("/task-status", controllers.GetTaskStatusCounts)
				dashboard.GET("/job-costing/:id", controllers.GetJobCosting)
				dashboard.GET("/budget-used/:id", controllers.GetBudgetUsed)
			}

			// Assistant and full snapshot
			protected.POST("/assistant/command", controllers.ExecuteAssistantCommand)
			protected.GET("/snapshot", controllers.GetSnapshot)
		}
	}
}
