package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"laundry/internal/handler"
	"laundry/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	OrderHandler *handler.OrderHandler
	ActorHandler *handler.ActorHandler
	RedisClient  *redis.Client
	NewRelicApp  *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Actor routes.
		actors := v1.Group("/actors")
		{
			actors.POST("/register", deps.ActorHandler.Register)
			actors.GET("", deps.ActorHandler.GetAll)
			actors.GET("/:id", deps.ActorHandler.Get)
		}

		// Rider routes.
		riders := v1.Group("/riders")
		{
			riders.GET("/nearby", deps.ActorHandler.NearbyRiders)
			riders.POST("/:id/location", deps.ActorHandler.UpdateLocation)
		}

		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.PlaceOrder)
			orders.GET("", deps.OrderHandler.GetAll)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.POST("/:id/accept", deps.OrderHandler.VendorAccept)
			orders.POST("/:id/assign", deps.OrderHandler.RiderAccept)
			orders.POST("/:id/verify-pickup", deps.OrderHandler.VerifyPickup)
			orders.POST("/:id/verify-delivery", deps.OrderHandler.VerifyDelivery)
			orders.POST("/:id/cancel", deps.OrderHandler.Cancel)
			orders.POST("/:id/refund", deps.OrderHandler.Refund)
			orders.DELETE("/:id", deps.OrderHandler.Delete)
		}
	}

	return router
}
