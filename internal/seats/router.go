package seats

import (
	"busline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes configures seat hold routes
func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	seats := rg.Group("/seats")
	seats.Use(middleware.JWTAuth())
	{
		seats.POST("/hold", controller.HoldSeats)               // POST   /api/v1/seats/hold
		seats.DELETE("/hold/:holdId", controller.ReleaseHold)  // DELETE /api/v1/seats/hold/:holdId
		seats.GET("/trip/:id/holds", controller.TripHolds)     // GET    /api/v1/seats/trip/:id/holds
	}
}
