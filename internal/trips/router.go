package trips

import (
	"github.com/gin-gonic/gin"
)

// SetupTripRoutes configures all trip-related routes. Trip reads are public;
// booking itself requires auth and lives in the bookings package.
func SetupTripRoutes(rg *gin.RouterGroup, controller *Controller) {
	trips := rg.Group("/trips")
	{
		trips.GET("", controller.ListTrips)          // GET /api/v1/trips
		trips.GET("/:id", controller.GetTrip)        // GET /api/v1/trips/:id
		trips.GET("/:id/fare", controller.QuoteFare) // GET /api/v1/trips/:id/fare?passengers=N
	}
}
