package bookings

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CancelOrder is one booking to cancel plus the reason to record.
type CancelOrder struct {
	ID     uuid.UUID
	Reason string
}

type Repository interface {
	// Seat ledger
	TakenSeats(ctx context.Context, tripID uuid.UUID) ([]int, error)

	// Atomic booking creation: both legs and their seat claims commit in one
	// transaction or not at all.
	CreatePair(ctx context.Context, pair *BookingPair) error

	// Reads
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAll(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	FindReturnLeg(ctx context.Context, outboundID uuid.UUID) (*Booking, error)

	// Atomic multi-booking cancellation (round-trip cascade)
	CancelAtomic(ctx context.Context, orders []CancelOrder) ([]Booking, error)

	// Payment ledger
	MarkPaid(ctx context.Context, bookingID uuid.UUID, amount *int64, method string) (*Payment, *Booking, error)
	ListPayments(ctx context.Context, limit, offset int) ([]Payment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// TakenSeats returns the seat numbers claimed on a trip by any
// non-cancelled booking. Cancellation deactivates seat rows rather than
// deleting them, so the status filter is belt and braces on top of the
// active flag.
func (r *repository) TakenSeats(ctx context.Context, tripID uuid.UUID) ([]int, error) {
	return takenSeatsTx(r.db.WithContext(ctx), tripID)
}

func takenSeatsTx(tx *gorm.DB, tripID uuid.UUID) ([]int, error) {
	var seats []int
	err := tx.Table("booking_seats").
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("booking_seats.trip_id = ?", tripID).
		Where("booking_seats.active").
		Where("bookings.status <> ?", StatusCancelled).
		Order("booking_seats.seat_number").
		Pluck("booking_seats.seat_number", &seats).Error
	if err != nil {
		return nil, NewTransientError("failed to read taken seats", err)
	}
	return seats, nil
}

// CreatePair creates one or two linked bookings atomically:
//  1. lock the trip rows (sorted order, FOR UPDATE) so racing requests for
//     the same trip serialize at the store even across processes,
//  2. re-check seat availability inside the transaction,
//  3. insert the outbound leg and its seat claims,
//  4. insert the return leg pointing at the outbound, then point the
//     outbound back, forming the mutual link.
//
// Any failure rolls the whole transaction back; a one-legged round trip is
// never observable. The partial unique index on (trip_id, seat_number)
// over active claims backstops the in-transaction check.
func (r *repository) CreatePair(ctx context.Context, pair *BookingPair) error {
	outbound := pair.Outbound
	ret := pair.Return

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tripIDs := []uuid.UUID{outbound.TripID}
		if ret != nil && ret.TripID != outbound.TripID {
			tripIDs = append(tripIDs, ret.TripID)
		}
		sort.Slice(tripIDs, func(i, j int) bool {
			return tripIDs[i].String() < tripIDs[j].String()
		})

		for _, tripID := range tripIDs {
			var locked struct {
				ID uuid.UUID `gorm:"column:id"`
			}
			err := tx.Table("trips").
				Select("id").
				Where("id = ?", tripID).
				Set("gorm:query_option", "FOR UPDATE").
				First(&locked).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("trip %s not found", tripID)
			}
			if err != nil {
				return NewTransientError("failed to lock trip", err)
			}
		}

		if err := checkSeatsFree(tx, outbound.TripID, outbound.Seats, LegOutbound); err != nil {
			return err
		}
		if ret != nil {
			if err := checkSeatsFree(tx, ret.TripID, ret.Seats, LegReturn); err != nil {
				return err
			}
		}

		if err := createLeg(tx, outbound, LegOutbound); err != nil {
			return err
		}

		if ret != nil {
			ret.LinkedBookingID = &outbound.ID
			if err := createLeg(tx, ret, LegReturn); err != nil {
				return err
			}

			err := tx.Model(&Booking{}).
				Where("id = ?", outbound.ID).
				Update("linked_booking_id", ret.ID).Error
			if err != nil {
				return NewTransientError("failed to link outbound booking", err)
			}
			outbound.LinkedBookingID = &ret.ID
		}

		return nil
	})
}

func checkSeatsFree(tx *gorm.DB, tripID uuid.UUID, seats []BookingSeat, leg Leg) error {
	taken, err := takenSeatsTx(tx, tripID)
	if err != nil {
		return err
	}

	takenSet := make(map[int]struct{}, len(taken))
	for _, s := range taken {
		takenSet[s] = struct{}{}
	}

	var conflicts []int
	for _, seat := range seats {
		if _, ok := takenSet[seat.SeatNumber]; ok {
			conflicts = append(conflicts, seat.SeatNumber)
		}
	}
	if len(conflicts) > 0 {
		return NewSeatUnavailableError(leg, conflicts)
	}
	return nil
}

func createLeg(tx *gorm.DB, booking *Booking, leg Leg) error {
	seats := booking.Seats
	booking.Seats = nil

	if err := tx.Create(booking).Error; err != nil {
		booking.Seats = seats
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// booking_number collision: rare, retryable with a new number
			return NewTransientError("booking number collision", err)
		}
		return NewTransientError("failed to create booking", err)
	}

	for i := range seats {
		seats[i].BookingID = booking.ID
		seats[i].TripID = booking.TripID
	}
	if err := tx.Create(&seats).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// we lost a race the FOR UPDATE lock didn't cover
			return NewSeatUnavailableError(leg, seatNumbers(seats))
		}
		return NewTransientError("failed to claim seats", err)
	}
	booking.Seats = seats
	return nil
}

func seatNumbers(seats []BookingSeat) []int {
	out := make([]int, 0, len(seats))
	for _, s := range seats {
		out = append(out, s.SeatNumber)
	}
	return out
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("id = ?", id).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError()
	}
	if err != nil {
		return nil, NewTransientError("failed to get booking", err)
	}
	return &booking, nil
}

func (r *repository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Payments").
		Where("id = ?", id).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError()
	}
	if err != nil {
		return nil, NewTransientError("failed to get booking", err)
	}
	return &booking, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return r.list(ctx, query, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (r *repository) GetAll(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return r.list(ctx, query, nil)
}

func (r *repository) list(ctx context.Context, query BookingListQuery, scope func(*gorm.DB) *gorm.DB) ([]Booking, int64, error) {
	var out []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Booking{})
	if scope != nil {
		baseQuery = scope(baseQuery)
	}
	baseQuery = applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, NewTransientError("failed to count bookings", err)
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Seats").
		Order("booked_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, NewTransientError("failed to list bookings", err)
	}

	return out, totalCount, nil
}

func applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.TripID != "" {
		if tripID, err := uuid.Parse(filters.TripID); err == nil {
			query = query.Where("trip_id = ?", tripID)
		}
	}
	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("booked_at >= ?", dateFrom)
		}
	}
	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("booked_at <= ?", dateTo)
		}
	}
	return query
}

// FindReturnLeg finds the return leg linked to an outbound booking.
func (r *repository) FindReturnLeg(ctx context.Context, outboundID uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("linked_booking_id = ?", outboundID).
		Where("is_return_leg = ?", true).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError()
	}
	if err != nil {
		return nil, NewTransientError("failed to find return leg", err)
	}
	return &booking, nil
}

// CancelAtomic flips every booking in orders to cancelled and releases its
// seat claims, all in one transaction, so a round-trip cascade can never
// leave one leg cancelled and the other active.
func (r *repository) CancelAtomic(ctx context.Context, orders []CancelOrder) ([]Booking, error) {
	var cancelled []Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, order := range orders {
			var booking Booking
			err := tx.
				Set("gorm:query_option", "FOR UPDATE").
				Where("id = ?", order.ID).
				First(&booking).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError()
			}
			if err != nil {
				return NewTransientError("failed to lock booking", err)
			}

			if booking.IsCancelled() {
				return NewValidationError("booking %s is already cancelled", booking.BookingNumber)
			}

			reason := order.Reason
			updates := map[string]interface{}{
				"status":              StatusCancelled,
				"cancelled_at":        now,
				"cancellation_reason": reason,
				"updated_at":          now,
			}
			if err := tx.Model(&Booking{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
				return NewTransientError("failed to cancel booking", err)
			}

			// Deactivating the claims frees the seats under the partial
			// unique index while the rows, and with them the record of
			// which seats the booking held, stay put.
			err = tx.Model(&BookingSeat{}).
				Where("booking_id = ?", order.ID).
				Update("active", false).Error
			if err != nil {
				return NewTransientError("failed to release seats", err)
			}

			var seats []BookingSeat
			if err := tx.Where("booking_id = ?", order.ID).Find(&seats).Error; err != nil {
				return NewTransientError("failed to load released seats", err)
			}

			booking.Status = StatusCancelled
			booking.CancelledAt = &now
			booking.CancellationReason = &reason
			booking.Seats = seats
			cancelled = append(cancelled, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// MarkPaid flips the booking to paid and appends the payment record in one
// transaction: a payment row exists if and only if the booking reached
// payment_status=completed.
func (r *repository) MarkPaid(ctx context.Context, bookingID uuid.UUID, amount *int64, method string) (*Payment, *Booking, error) {
	var payment Payment
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", bookingID).
			First(&booking).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError()
		}
		if err != nil {
			return NewTransientError("failed to lock booking", err)
		}

		if booking.IsPaid() {
			return NewAlreadyPaidError()
		}

		paidAmount := booking.TotalFare
		if amount != nil {
			paidAmount = *amount
		}

		now := time.Now()
		updates := map[string]interface{}{
			"payment_status": PaymentCompleted,
			"payment_method": method,
			"updated_at":     now,
		}
		if err := tx.Model(&Booking{}).Where("id = ?", bookingID).Updates(updates).Error; err != nil {
			return NewTransientError("failed to update payment status", err)
		}

		payment = Payment{
			BookingID: bookingID,
			Amount:    paidAmount,
			Method:    method,
			Status:    "completed",
			PaidAt:    now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return NewTransientError("failed to record payment", err)
		}

		booking.PaymentStatus = PaymentCompleted
		booking.PaymentMethod = &method
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &payment, &booking, nil
}

func (r *repository) ListPayments(ctx context.Context, limit, offset int) ([]Payment, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var payments []Payment
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Order("paid_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, NewTransientError("failed to list payments", err)
	}
	return payments, nil
}
