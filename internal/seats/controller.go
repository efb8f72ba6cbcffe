package seats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// HoldSeats handles POST /api/v1/seats/hold
func (c *Controller) HoldSeats(ctx *gin.Context) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req HoldSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := c.service.HoldSeats(ctx.Request.Context(), userID, req)
	if err != nil {
		var held *ErrSeatHeld
		if errors.As(err, &held) {
			ctx.JSON(http.StatusConflict, gin.H{
				"error":         "Seat already held",
				"conflict_seat": held.SeatNumber,
			})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to hold seats",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Seats held successfully",
		"data":    response,
	})
}

// TripHolds handles GET /api/v1/seats/trip/:id/holds
func (c *Controller) TripHolds(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	response, err := c.service.TripHolds(ctx.Request.Context(), tripID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to list seat holds",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": response})
}

// ReleaseHold handles DELETE /api/v1/seats/hold/:holdId
func (c *Controller) ReleaseHold(ctx *gin.Context) {
	holdID := ctx.Param("holdId")
	if holdID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Hold ID is required"})
		return
	}

	response, err := c.service.ReleaseHold(ctx.Request.Context(), holdID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to release hold",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Hold released successfully",
		"data":    response,
	})
}
