package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ridehail/internal/auth"
	"ridehail/internal/domain"
	"ridehail/internal/handler"
	"ridehail/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler   *handler.AuthHandler
	RideHandler   *handler.RideHandler
	DriverHandler *handler.DriverHandler
	AdminHandler  *handler.AdminHandler
	TokenManager  *auth.Manager
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
}

// NewRouter creates a Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authn := middleware.AuthMiddleware(deps.TokenManager)

	v1 := router.Group("/v1")
	{
		// Public auth routes. Admin signup is public but gated by the
		// configured signup token.
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", deps.AuthHandler.Register)
			authRoutes.POST("/login", deps.AuthHandler.Login)
		}
		v1.POST("/admin/register", deps.AuthHandler.RegisterAdmin)

		// Ride lifecycle routes. Idempotency applies after authentication so
		// keys are scoped per caller.
		rides := v1.Group("/rides", authn, middleware.IdempotencyMiddleware(deps.RedisClient))
		{
			riderOnly := middleware.RequireRoles(domain.RoleRider)
			driverOnly := middleware.RequireRoles(domain.RoleDriver)

			rides.POST("/request", riderOnly, deps.RideHandler.RequestRide)
			rides.GET("/history", riderOnly, deps.RideHandler.GetHistory)
			rides.GET("/:id", riderOnly, deps.RideHandler.GetRide)
			rides.PATCH("/:id/cancel", riderOnly, deps.RideHandler.CancelRide)
			rides.PATCH("/:id/rate", riderOnly, deps.RideHandler.RateRide)

			rides.PATCH("/:id/accept", driverOnly, deps.RideHandler.AcceptRide)
			rides.PATCH("/:id/reject", driverOnly, deps.RideHandler.RejectRide)
			rides.PATCH("/:id/pickup", driverOnly, deps.RideHandler.PickUpRide)
			rides.PATCH("/:id/start", driverOnly, deps.RideHandler.StartRide)
			rides.PATCH("/:id/complete", driverOnly, deps.RideHandler.CompleteRide)
		}

		// Driver self-service routes.
		drivers := v1.Group("/drivers", authn, middleware.RequireRoles(domain.RoleDriver))
		{
			drivers.GET("/earnings", deps.DriverHandler.GetEarnings)
			drivers.PATCH("/availability", deps.DriverHandler.SetAvailability)
		}

		// Admin routes.
		admin := v1.Group("/admin", authn, middleware.RequireRoles(domain.RoleAdmin))
		{
			admin.GET("/users", deps.AdminHandler.ListUsers)
			admin.GET("/drivers", deps.AdminHandler.ListDrivers)
			admin.GET("/rides", deps.AdminHandler.ListRides)
			admin.PATCH("/users/:id/status", deps.AdminHandler.UpdateUserStatus)
			admin.PATCH("/drivers/:id/status", deps.AdminHandler.UpdateDriverStatus)
		}
	}

	return router
}
