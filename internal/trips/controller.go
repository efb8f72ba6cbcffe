package trips

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListTrips handles GET /api/v1/trips
func (c *Controller) ListTrips(ctx *gin.Context) {
	var query TripListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	trips, total, err := c.service.ListTrips(ctx.Request.Context(), query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list trips",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Trips retrieved successfully",
		"data": gin.H{
			"trips": trips,
			"total": total,
		},
	})
}

// GetTrip handles GET /api/v1/trips/:id
func (c *Controller) GetTrip(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	trip, err := c.service.GetTripWithRelations(ctx.Request.Context(), tripID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "Trip not found",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Trip retrieved successfully",
		"data":    trip,
	})
}

// QuoteFare handles GET /api/v1/trips/:id/fare?passengers=N
// Used by the booking form for price previews before committing seats.
func (c *Controller) QuoteFare(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	passengers, err := strconv.Atoi(ctx.DefaultQuery("passengers", "1"))
	if err != nil || passengers < 1 {
		passengers = 1
	}

	quote, err := c.service.QuoteFare(ctx.Request.Context(), tripID, passengers)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to quote fare",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Fare quoted successfully",
		"data":    quote,
	})
}
