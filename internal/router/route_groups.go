package router

import (
	"tableside_backend/internal/handlers"
	"tableside_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCustomerRoutes sets up the guest-facing routes. Guests identify
// themselves only by the table number encoded in the table's QR link, so
// these routes carry no authentication. PATCH on the order path is the
// customer checkout, and payment settlement is likewise open.
func SetupCustomerRoutes(
	apiGroup *gin.RouterGroup,
	menuHandler *handlers.MenuHandler,
	orderHandler *handlers.OrderHandler,
	paymentHandler *handlers.PaymentHandler,
) {
	tableRoutes := apiGroup.Group("/tables/:table_number")
	{
		tableRoutes.GET("/menu", menuHandler.GetMenu)
		tableRoutes.GET("/order", orderHandler.GetTableOrder)
		tableRoutes.POST("/order", orderHandler.PlaceOrder)
		tableRoutes.PATCH("/order", orderHandler.CustomerCheckout)
	}

	apiGroup.POST("/orders/:id/pay", paymentHandler.SettlePayment)
}

// SetupTableAdminRoutes sets up the dining table registry routes.
// Reads are open to staff, writes are admin only.
func SetupTableAdminRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableWriteRoutes := authenticatedGroup.Group("/admin/tables")
	tableWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		tableWriteRoutes.POST("", tableHandler.CreateTable)
		tableWriteRoutes.PUT("/:table_number", tableHandler.UpdateTable)
		tableWriteRoutes.DELETE("/:table_number", tableHandler.DeleteTable)
	}

	authenticatedGroup.GET("/admin/tables", middleware.RoleAuthMiddleware("Admin", "Staff"), tableHandler.GetTables)
	authenticatedGroup.GET("/admin/tables/:table_number", middleware.RoleAuthMiddleware("Admin", "Staff"), tableHandler.GetTableByNumber)
}

// SetupMenuAdminRoutes sets up the menu management routes.
// Reads are open to staff, writes are admin only.
func SetupMenuAdminRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuWriteRoutes := authenticatedGroup.Group("/admin/menu")
	menuWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		menuWriteRoutes.POST("", menuHandler.CreateMenuItem)
		menuWriteRoutes.PUT("/:id", menuHandler.UpdateMenuItem)
		menuWriteRoutes.DELETE("/:id", menuHandler.DeleteMenuItem)
	}

	authenticatedGroup.GET("/admin/menu", middleware.RoleAuthMiddleware("Admin", "Staff"), menuHandler.GetMenuItems)
	authenticatedGroup.GET("/admin/menu/:id", middleware.RoleAuthMiddleware("Admin", "Staff"), menuHandler.GetMenuItemByID)
}

// SetupStaffOrderRoutes sets up the staff order routes.
func SetupStaffOrderRoutes(
	authenticatedGroup *gin.RouterGroup,
	orderHandler *handlers.OrderHandler,
	orderItemHandler *handlers.OrderItemHandler,
) {
	orderRoutes := authenticatedGroup.Group("/staff/orders")
	orderRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
	}

	orderItemRoutes := authenticatedGroup.Group("/staff/order-items")
	orderItemRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		orderItemRoutes.GET("/:item_id", orderItemHandler.GetOrderItem)
		orderItemRoutes.PATCH("/:item_id", orderItemHandler.UpdateOrderItem)
		orderItemRoutes.DELETE("/:item_id", orderItemHandler.DeleteOrderItem)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		reportRoutes.GET("/summary", reportHandler.GetSummaryReport)
	}
}
