package router

import (
	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/handlers"
	"resto_pos_terminal/internal/middleware"
	"resto_pos_terminal/internal/models"
)

var (
	staffRoles = []string{models.RoleStaff, models.RoleAdmin}
	adminRoles = []string{models.RoleAdmin}
	anyRole    = []string{models.RoleCustomer, models.RoleStaff, models.RoleAdmin}
)

// SetupPublicAuthRoutes sets up the sign-in routes that need no valid token.
// Restore checks the caller's own, possibly expired, session token itself.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/check", authHandler.CheckUser)
	group.POST("/login", authHandler.Login)
	group.POST("/register", authHandler.Register)
	group.POST("/admin/login", authHandler.AdminLogin)
	group.POST("/restore", authHandler.Restore)
}

// SetupAuthenticatedAuthRoutes sets up the session routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.Logout)
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupFeedbackRoutes sets up the toast and dialog reads the terminal's views poll
// before anyone signs in.
func SetupFeedbackRoutes(apiGroup *gin.RouterGroup, h *handlers.FeedbackHandler) {
	apiGroup.GET("/notifications", h.ListNotifications)
	apiGroup.GET("/dialogs/active", h.ActiveDialog)
}

// SetupFeedbackWriteRoutes sets up raising, dismissing and answering toasts and dialogs.
func SetupFeedbackWriteRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.FeedbackHandler) {
	notificationRoutes := authenticatedGroup.Group("/notifications")
	notificationRoutes.Use(middleware.RoleAuthMiddleware(anyRole...))
	{
		notificationRoutes.POST("", h.Notify)
		notificationRoutes.DELETE("/:id", h.Dismiss)
	}
	dialogRoutes := authenticatedGroup.Group("/dialogs")
	dialogRoutes.Use(middleware.RoleAuthMiddleware(anyRole...))
	{
		dialogRoutes.POST("/confirm", h.Confirm)
		dialogRoutes.POST("/:id/resolve", h.ResolveDialog)
	}
}

// SetupSettingsRoutes sets up the UI preference read.
func SetupSettingsRoutes(apiGroup *gin.RouterGroup, h *handlers.SettingHandler) {
	apiGroup.GET("/settings", h.GetSettings)
}

// SetupSettingsWriteRoutes sets up saving UI preferences.
func SetupSettingsWriteRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.SettingHandler) {
	authenticatedGroup.PUT("/settings", middleware.RoleAuthMiddleware(anyRole...), h.UpdateSettings)
}

// SetupCustomerRoutes sets up the guest self-service routes.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.ReservationHandler) {
	customerRoutes := authenticatedGroup.Group("/me")
	customerRoutes.Use(middleware.RoleAuthMiddleware(models.RoleCustomer))
	{
		customerRoutes.GET("/bookings", h.MyBookings)
		customerRoutes.DELETE("/bookings/:id", h.CancelMyBooking)
	}
	authenticatedGroup.GET("/availability", middleware.RoleAuthMiddleware(anyRole...), h.Availability)
	authenticatedGroup.POST("/reservations", middleware.RoleAuthMiddleware(anyRole...), h.CreateReservation)
}

// SetupTableRoutes sets up the floor plan routes.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.TableHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	tableRoutes.Use(middleware.RoleAuthMiddleware(staffRoles...))
	{
		tableRoutes.GET("", h.ListTables)
		tableRoutes.GET("/:id/order", h.GetTableOrder)
		tableRoutes.POST("/:id/order", h.OpenOrder)
		tableRoutes.PATCH("/:id/status", middleware.RoleAuthMiddleware(adminRoles...), h.UpdateTableStatus)
	}
}

// SetupReservationRoutes sets up the staff reservation routes.
func SetupReservationRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.ReservationHandler) {
	reservationRoutes := authenticatedGroup.Group("/reservations")
	reservationRoutes.Use(middleware.RoleAuthMiddleware(staffRoles...))
	{
		reservationRoutes.GET("", h.ListReservations)
		reservationRoutes.POST("/:id/arrival", h.ConfirmArrival)
		reservationRoutes.POST("/:id/cancel", h.CancelReservation)
		reservationRoutes.POST("/:id/no-show", h.MarkNoShow)
		reservationRoutes.POST("/:id/payment-return", h.PaymentReturn)
	}
}

// SetupOrderRoutes sets up the order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RoleAuthMiddleware(staffRoles...))
	{
		orderRoutes.GET("", h.GetOrders)
		orderRoutes.GET("/:id", h.GetOrderByID)
		orderRoutes.POST("/:id/items", h.AddItem)
		orderRoutes.PATCH("/:id/items/:line", h.SetItemQuantity)
		orderRoutes.DELETE("/:id/items/:line", h.RemoveItem)
		orderRoutes.PUT("/:id/discount", h.ApplyDiscount)
		orderRoutes.PUT("/:id/promotion", h.ApplyPromotion)
		orderRoutes.POST("/:id/close", h.CloseOrder)
	}
}

// SetupInventoryRoutes sets up the ingredient stock routes.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.InventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("/inventory")
	inventoryRoutes.Use(middleware.RoleAuthMiddleware(staffRoles...))
	{
		inventoryRoutes.GET("/ingredients", h.GetIngredients)
		inventoryRoutes.GET("/low-stock", h.GetLowStockIDs)
		inventoryRoutes.GET("/transactions", h.GetTransactions)
		inventoryRoutes.GET("/suppliers", h.GetSuppliers)
		inventoryRoutes.POST("/stock-in", h.StockIn)
		inventoryRoutes.POST("/adjustments", middleware.RoleAuthMiddleware(adminRoles...), h.Adjust)
	}
}

// SetupPromotionRoutes sets up the promotion routes; changes are admin-only.
func SetupPromotionRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.PromotionHandler) {
	promotionRoutes := authenticatedGroup.Group("/promotions")
	promotionRoutes.Use(middleware.RoleAuthMiddleware(staffRoles...))
	{
		promotionRoutes.GET("", h.ListPromotions)
		promotionRoutes.GET("/:id", h.GetPromotion)

		adminRoutes := promotionRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(adminRoles...))
		{
			adminRoutes.POST("", h.CreatePromotion)
			adminRoutes.PUT("/:id", h.UpdatePromotion)
			adminRoutes.DELETE("/:id", h.DeletePromotion)
		}
	}
}

// SetupReportRoutes sets up the dashboard, stats, kitchen display and reload routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("")
	reportRoutes.Use(middleware.RoleAuthMiddleware(staffRoles...))
	{
		reportRoutes.GET("/dashboard", h.GetDashboardSummary)
		reportRoutes.GET("/stats", h.GetOrderStats)
		reportRoutes.GET("/kitchen", h.GetKitchenQueue)
		reportRoutes.POST("/state/reload", middleware.RoleAuthMiddleware(adminRoles...), h.ReloadState)
	}
}
