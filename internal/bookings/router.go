package bookings

import (
	"busline/internal/shared/middleware"
	"busline/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Seat availability is public so passengers can browse before signing in.
	rg.GET("/trips/:id/seats", controller.GetSeatMap)

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		bookings.POST("", controller.CreateBooking)  // POST /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)  // GET  /api/v1/bookings/:id
	}

	userRoutes := rg.Group("/users")
	userRoutes.Use(middleware.JWTAuth())
	{
		userRoutes.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings
	}

	staff := rg.Group("")
	staff.Use(middleware.JWTAuth(), middleware.RequireRoles(users.RoleStaff.String(), users.RoleAdmin.String()))
	{
		staff.GET("/bookings", controller.GetAllBookings)    // GET  /api/v1/bookings
		staff.POST("/bookings/:id/pay", controller.MarkPaid) // POST /api/v1/bookings/:id/pay
		staff.GET("/payments", controller.ListPayments)      // GET  /api/v1/payments
	}
}
