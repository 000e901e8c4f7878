// Package router assembles the HTTP API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"pocketbook/internal/config"
	_ "pocketbook/internal/docs" // swagger docs
	"pocketbook/internal/handlers"
	"pocketbook/internal/metrics"
	"pocketbook/internal/middleware"
	"pocketbook/internal/services"
)

// New wires services and handlers over db and returns the engine. Outbound
// bot messages go through notifications.
func New(db *gorm.DB, cfg *config.Config, notifications services.NotificationServicer) *gin.Engine {
	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	ledgerService := services.NewLedgerService(db)
	exportService := services.NewExportService(ledgerService, cfg.DefaultCurrency)
	productService := services.NewProductService(db, notifications, cfg.DefaultCurrency)
	debtService := services.NewDebtService(db, notifications, cfg.DefaultCurrency)
	workService := services.NewWorkSessionService(db, notifications)
	calendarService := services.NewCalendarService(db)
	dashboardService := services.NewDashboardService(ledgerService, productService, debtService, workService, cfg.DefaultCurrency)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, exportService, auditService)
	productHandler := handlers.NewProductHandler(productService, auditService)
	debtHandler := handlers.NewDebtHandler(debtService, auditService)
	workHandler := handlers.NewWorkSessionHandler(workService, auditService)
	calendarHandler := handlers.NewCalendarHandler(calendarService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	telegramHandler := handlers.NewTelegramHandler(notifications)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.WebhookSecretHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	v1.POST("/telegram/notify", middleware.WebhookSecret(cfg.WebhookSecret), telegramHandler.Notify)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/password", authHandler.ChangePassword)

	protected.GET("/dashboard", dashboardHandler.GetStats)

	incomes := protected.Group("/incomes")
	incomes.POST("", ledgerHandler.CreateIncome)
	incomes.GET("", ledgerHandler.GetIncomes)
	incomes.GET("/:id", ledgerHandler.GetIncomeByID)
	incomes.PUT("/:id", ledgerHandler.UpdateIncome)
	incomes.DELETE("/:id", ledgerHandler.DeleteIncome)

	expenses := protected.Group("/expenses")
	expenses.POST("", ledgerHandler.CreateExpense)
	expenses.GET("", ledgerHandler.GetExpenses)
	expenses.GET("/:id", ledgerHandler.GetExpenseByID)
	expenses.PUT("/:id", ledgerHandler.UpdateExpense)
	expenses.DELETE("/:id", ledgerHandler.DeleteExpense)

	ledger := protected.Group("/ledger")
	ledger.GET("/summary", ledgerHandler.GetSummary)
	ledger.GET("/export", ledgerHandler.Export)

	products := protected.Group("/products")
	products.POST("", productHandler.CreateProduct)
	products.GET("", productHandler.GetInventory)
	products.GET("/:id", productHandler.GetProductByID)
	products.PUT("/:id", productHandler.UpdateProduct)
	products.DELETE("/:id", productHandler.DeleteProduct)
	products.POST("/:id/sell", productHandler.Sell)
	products.POST("/:id/consume", productHandler.Consume)
	products.GET("/:id/consumptions", productHandler.GetConsumptions)
	protected.GET("/consumptions", productHandler.GetConsumptions)

	debts := protected.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.GetDebts)
	debts.GET("/summary", debtHandler.GetSummary)
	debts.GET("/:id", debtHandler.GetDebtByID)
	debts.PUT("/:id", debtHandler.UpdateDebt)
	debts.DELETE("/:id", debtHandler.DeleteDebt)
	debts.POST("/:id/payments", debtHandler.PayDebt)

	work := protected.Group("/work-sessions")
	work.POST("/clock-in", workHandler.ClockIn)
	work.POST("/clock-out", workHandler.ClockOut)
	work.GET("/active", workHandler.GetActive)
	work.GET("/summary", workHandler.GetSummary)
	work.GET("", workHandler.GetSessions)
	work.PUT("/:id", workHandler.UpdateSession)
	work.DELETE("/:id", workHandler.DeleteSession)

	calendar := protected.Group("/calendar")
	events := calendar.Group("/events")
	events.POST("", calendarHandler.CreateEvent)
	events.GET("", calendarHandler.GetEvents)
	events.GET("/:id", calendarHandler.GetEventByID)
	events.PUT("/:id", calendarHandler.UpdateEvent)
	events.DELETE("/:id", calendarHandler.DeleteEvent)

	tasks := calendar.Group("/tasks")
	tasks.POST("", calendarHandler.CreateTask)
	tasks.GET("", calendarHandler.GetTasks)
	tasks.GET("/:id", calendarHandler.GetTaskByID)
	tasks.PUT("/:id", calendarHandler.UpdateTask)
	tasks.PATCH("/:id/toggle", calendarHandler.ToggleTask)
	tasks.DELETE("/:id", calendarHandler.DeleteTask)

	return router
}
