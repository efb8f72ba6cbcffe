// api/routes/router.go
package routes

import (
	"context"

	"busline/internal/auth"
	"busline/internal/bookings"
	"busline/internal/cancellation"
	"busline/internal/seats"
	"busline/internal/shared/config"
	"busline/internal/shared/database"
	"busline/internal/trips"
	"busline/pkg/cache"
	"busline/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config         *config.Config
	db             *database.DB
	notifier       bookings.Notifier
	tripService    trips.Service   // For dependency injection
	bookingService bookings.Service
}

// NewRouter creates a new router instance. notifier may be nil when
// Kafka notifications are disabled.
func NewRouter(cfg *config.Config, db *database.DB, notifier bookings.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Setup auth routes
		r.setupAuthRoutes(api)

		// Setup trip routes (must be before booking routes for dependency injection)
		r.setupTripRoutes(api)

		// Setup booking routes
		r.setupBookingRoutes(api)

		// Setup cancellation routes
		r.setupCancellationRoutes(api)

		// Setup seat hold routes
		r.setupSeatRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "busline-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "busline-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	// Initialize auth dependencies
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	// Setup auth routes
	authRouter.SetupRoutes(rg)
}

// setupTripRoutes configures trip and route management routes
func (r *Router) setupTripRoutes(rg *gin.RouterGroup) {
	// Initialize trip dependencies
	tripRepo := trips.NewRepository(r.db.GetPostgreSQL())
	tripService := trips.NewService(tripRepo, cache.NewService(r.db.GetRedisClient()), r.config.Redis.CacheTTL, r.config.Booking.DefaultSeatCapacity)
	tripController := trips.NewController(tripService)

	// Store trip service for dependency injection
	r.tripService = tripService

	// Setup trip routes
	trips.SetupTripRoutes(rg, tripController)
}

// setupBookingRoutes configures booking, payment and seat-map routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	// Initialize booking dependencies
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.tripService, r.notifier, r.config.Booking.OperationTimeout)

	// Store booking service for dependency injection
	r.bookingService = bookingService

	bookingController := bookings.NewController(bookingService)

	// Setup booking routes
	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupCancellationRoutes configures booking cancellation routes
func (r *Router) setupCancellationRoutes(rg *gin.RouterGroup) {
	cancellationService := cancellation.NewService(r.bookingService)
	cancellationController := cancellation.NewController(cancellationService)

	cancellation.SetupCancellationRoutes(rg, cancellationController)
}

// setupSeatRoutes configures transient seat hold routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	atomicOps := seats.NewAtomicRedisOperations(r.db.GetRedisClient())
	if err := atomicOps.PreloadScripts(context.Background()); err != nil {
		logger.GetDefault().Warn("Failed to preload seat hold scripts:", err)
	}

	seatService := seats.NewService(atomicOps, r.tripService, r.bookingService, r.config.Redis.SeatHoldTTL)
	seatController := seats.NewController(seatService)

	seats.SetupSeatRoutes(rg, seatController)
}
