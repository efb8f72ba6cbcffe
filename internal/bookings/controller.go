package bookings

import (
	"net/http"

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

// actorFromContext reads the authenticated user set by the JWT middleware.
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

	return Actor{UserID: userID, Privileged: role.CanOperateForOthers()}, true
}

// statusForError maps booking error kinds onto HTTP status codes.
func statusForError(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindSeatUnavailable, KindPaidImmutable, KindAlreadyPaid:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error, fallback string) {
	status := statusForError(err)
	body := gin.H{"error": fallback, "details": err.Error()}
	if kind := KindOf(err); kind != KindTransient {
		body["code"] = string(kind)
	}
	ctx.JSON(status, body)
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	pair, err := c.service.CreateBooking(ctx.Request.Context(), actor, req)
	if err != nil {
		respondError(ctx, err, "Failed to create booking")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"data":    NewCreateBookingResponse(pair),
	})
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
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

	booking, err := c.service.GetBooking(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		respondError(ctx, err, "Failed to get booking")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Booking retrieved successfully",
		"data":    booking,
	})
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	bookings, total, err := c.service.GetUserBookings(ctx.Request.Context(), actor.UserID, query)
	if err != nil {
		respondError(ctx, err, "Failed to get user bookings")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Bookings retrieved successfully",
		"data": gin.H{
			"bookings": bookings,
			"total":    total,
			"page":     query.Page,
			"limit":    query.Limit,
		},
	})
}

// GetAllBookings handles GET /api/v1/bookings (staff/admin)
func (c *Controller) GetAllBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	bookings, total, err := c.service.GetAllBookings(ctx.Request.Context(), query)
	if err != nil {
		respondError(ctx, err, "Failed to list bookings")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Bookings retrieved successfully",
		"data": gin.H{
			"bookings": bookings,
			"total":    total,
			"page":     query.Page,
			"limit":    query.Limit,
		},
	})
}

// GetSeatMap handles GET /api/v1/trips/:id/seats
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	view, err := c.service.SeatLedger(ctx.Request.Context(), tripID)
	if err != nil {
		respondError(ctx, err, "Failed to get seat availability")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Seat availability retrieved successfully",
		"data":    NewSeatMapResponse(view),
	})
}

// MarkPaid handles POST /api/v1/bookings/:id/pay (staff/admin)
func (c *Controller) MarkPaid(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req MarkPaidRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	booking, payment, err := c.service.MarkPaid(ctx.Request.Context(), bookingID, req)
	if err != nil {
		respondError(ctx, err, "Failed to record payment")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Payment recorded successfully",
		"data": gin.H{
			"booking": booking,
			"payment": payment,
		},
	})
}

// ListPayments handles GET /api/v1/payments (staff/admin)
func (c *Controller) ListPayments(ctx *gin.Context) {
	var query PaymentListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	payments, err := c.service.ListPayments(ctx.Request.Context(), query)
	if err != nil {
		respondError(ctx, err, "Failed to list payments")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Payments retrieved successfully",
		"data": gin.H{
			"payments": payments,
			"count":    len(payments),
		},
	})
}
