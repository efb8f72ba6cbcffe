package cancellation

import (
	"net/http"

	"busline/internal/bookings"
	"busline/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func actorFromContext(ctx *gin.Context) (Actor, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		return Actor{}, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		return Actor{}, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return Actor{}, false
	}

	roleInterface, _ := ctx.Get("user_role")
	roleStr, _ := roleInterface.(string)
	role := users.Role(roleStr)

	return Actor{
		UserID: userID,
		Staff:  role.CanOperateForOthers(),
		Admin:  role.IsPrivileged(),
	}, true
}

func statusForError(err error) int {
	switch bookings.KindOf(err) {
	case bookings.KindValidation:
		return http.StatusBadRequest
	case bookings.KindPaidImmutable:
		return http.StatusConflict
	case bookings.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req CancellationRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request body",
				"details": err.Error(),
			})
			return
		}
	}

	result, err := c.service.CancelBooking(ctx.Request.Context(), actor, bookingID, req)
	if err != nil {
		body := gin.H{"error": "Failed to cancel booking", "details": err.Error()}
		if kind := bookings.KindOf(err); kind != bookings.KindTransient {
			body["code"] = string(kind)
		}
		ctx.JSON(statusForError(err), body)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
		"data":    result,
	})
}
