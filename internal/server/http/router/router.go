package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/vansh-choudhary01/CashPay/internal/server/http/handlers"
	"github.com/vansh-choudhary01/CashPay/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketplaceFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	quoteHandler := handlers.NewQuoteHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)
	api.POST("/quote", quoteHandler.Quote)
	api.GET("/quote/attributes", quoteHandler.Attributes)

	// Order creation accepts anonymous submissions; a token, when present,
	// binds the order to the subject.
	orders := api.Group("/orders")
	orders.POST("/sell", middleware.SubjectOptional(facade), orderHandler.CreateSell)
	orders.POST("/purchase", middleware.SubjectOptional(facade), orderHandler.CreatePurchase)
	orders.GET("", middleware.AuthRequired(facade), orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/schedule", orderHandler.Schedule)
	orders.POST("/:id/pickup", orderHandler.Pickup)
	orders.POST("/:id/inspection", orderHandler.Inspection)
	orders.POST("/:id/deliver", orderHandler.Deliver)
	orders.POST("/:id/cancel", orderHandler.Cancel)

	payments := api.Group("/payments")
	payments.POST("/intent", paymentHandler.CreateIntent)
	payments.POST("/verify", paymentHandler.Verify)

	return engine
}
