package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/handlers"
	"resto_pos_terminal/internal/middleware"
	"resto_pos_terminal/internal/services"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	State      services.StateService
	Auth       services.AuthService
	Customers  services.CustomerService
	Promotions services.PromotionService
	Settings   services.SettingService
	Feedback   services.FeedbackService
	Suppliers  handlers.SupplierDirectory
	Archive    handlers.OrderArchive

	AllowedOrigins []string
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Deps) {
	config := cors.DefaultConfig()
	config.AllowOrigins = deps.AllowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Feedback)
	tableHandler := handlers.NewTableHandler(deps.State, deps.Feedback)
	reservationHandler := handlers.NewReservationHandler(deps.State, deps.Customers, deps.Feedback)
	orderHandler := handlers.NewOrderHandler(deps.State, deps.Archive, deps.Feedback)
	inventoryHandler := handlers.NewInventoryHandler(deps.State, deps.Suppliers, deps.Feedback)
	promotionHandler := handlers.NewPromotionHandler(deps.Promotions, deps.Feedback)
	settingHandler := handlers.NewSettingHandler(deps.Settings, deps.Feedback)
	reportHandler := handlers.NewReportHandler(deps.State)
	feedbackHandler := handlers.NewFeedbackHandler(deps.Feedback)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)
	SetupFeedbackRoutes(apiV1, feedbackHandler)
	SetupSettingsRoutes(apiV1, settingHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.Auth))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupFeedbackWriteRoutes(authenticated, feedbackHandler)
		SetupSettingsWriteRoutes(authenticated, settingHandler)
		SetupCustomerRoutes(authenticated, reservationHandler)
		SetupTableRoutes(authenticated, tableHandler)
		SetupReservationRoutes(authenticated, reservationHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupPromotionRoutes(authenticated, promotionHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}
}
