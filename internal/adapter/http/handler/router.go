package handler

import (
	"net/http"

	"sandbox-payment-gateway/internal/adapter/http/middleware"
	"sandbox-payment-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	CheckoutSvc ports.CheckoutService
	NotifStore  ports.NotificationStore
	Logger      zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck)

	checkoutHandler := NewCheckoutHandler(deps.CheckoutSvc)
	ipnHandler := NewIPNHandler(deps.NotifStore, deps.Logger)

	v1 := r.Group("/api/v1")

	checkout := v1.Group("/checkout")
	{
		checkout.POST("/initiate", checkoutHandler.Initiate)
		checkout.GET("/challenge", checkoutHandler.Challenge)
		checkout.POST("/challenge/authenticate", checkoutHandler.Authenticate)
		checkout.POST("/status", checkoutHandler.Status)
	}

	ipn := v1.Group("/ipn")
	{
		ipn.POST("", ipnHandler.Receive)
		// "list" is a reserved key handled inside Lookup; gin cannot
		// register a literal route alongside the :key wildcard.
		ipn.GET("/:key", ipnHandler.Lookup)
	}

	v1.GET("/transactions", checkoutHandler.ListTransactions)

	return r
}

// HealthCheck handles GET /health. The sandbox holds all state in
// memory, so liveness is the only meaningful check.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
