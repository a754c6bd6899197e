package router

import (
	"database/sql"

	"tableside_backend/internal/handlers"
	"tableside_backend/internal/middleware"
	"tableside_backend/internal/repositories"
	"tableside_backend/internal/services"
	"tableside_backend/internal/tablecode"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, codeGen tablecode.Generator) {
	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Services
	database := services.NewDatabase(db)
	authService := services.NewAuthService(authRepo, database)
	tableService := services.NewTableService(tableRepo, codeGen, database)
	menuService := services.NewMenuService(menuRepo, database)
	orderService := services.NewOrderService(orderRepo, tableRepo, menuRepo, database)
	orderItemService := services.NewOrderItemService(orderRepo, database)
	paymentService := services.NewPaymentService(orderRepo, tableRepo, orderService, database)
	reportService := services.NewReportService(reportRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	tableHandler := handlers.NewTableHandler(tableService)
	menuHandler := handlers.NewMenuHandler(menuService)
	orderHandler := handlers.NewOrderHandler(orderService)
	orderItemHandler := handlers.NewOrderItemHandler(orderItemService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reportHandler := handlers.NewReportHandler(reportService)

	apiV1 := engine.Group("/api/v1")

	// Customer routes are public: guests reach them by scanning the table
	// code, so there is no account to authenticate.
	SetupCustomerRoutes(apiV1, menuHandler, orderHandler, paymentHandler)
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		authenticated.GET("/permissions", authHandler.GetPermissions)
		SetupTableAdminRoutes(authenticated, tableHandler)
		SetupMenuAdminRoutes(authenticated, menuHandler)
		SetupStaffOrderRoutes(authenticated, orderHandler, orderItemHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}
}

// SetupPublicAuthRoutes sets up the unauthenticated auth endpoints.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes sets up the auth endpoints that need a valid token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}
