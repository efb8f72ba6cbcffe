package bookings

import (
	"errors"
	"fmt"
)

// Kind classifies booking-core errors so callers can decide retry vs abort.
type Kind string

const (
	// KindValidation is a malformed request; never retried automatically.
	KindValidation Kind = "validation"
	// KindSeatUnavailable means a requested seat was taken at decision time;
	// safe to retry with different seats after re-reading availability.
	KindSeatUnavailable Kind = "seat_unavailable"
	// KindPaidImmutable means a non-admin tried to cancel a paid booking.
	KindPaidImmutable Kind = "paid_booking_immutable"
	// KindAlreadyPaid means the booking already has a completed payment.
	KindAlreadyPaid Kind = "already_paid"
	// KindNotFound means the referenced booking does not exist.
	KindNotFound Kind = "booking_not_found"
	// KindTransient covers I/O, timeout and serialization conflicts; the
	// whole operation is safe to retry from scratch.
	KindTransient Kind = "transient_storage"
)

// Error is the structured booking-core error: a kind for dispatch, the leg
// for seat conflicts, and a human message.
type Error struct {
	Kind    Kind
	Leg     Leg
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewSeatUnavailableError(leg Leg, seats []int) *Error {
	return &Error{
		Kind:    KindSeatUnavailable,
		Leg:     leg,
		Message: fmt.Sprintf("seats %v are no longer available for the %s trip, please choose different seats", seats, leg),
	}
}

func NewPaidImmutableError() *Error {
	return &Error{
		Kind:    KindPaidImmutable,
		Message: "cannot cancel a paid booking, please contact support for refund requests",
	}
}

func NewAlreadyPaidError() *Error {
	return &Error{Kind: KindAlreadyPaid, Message: "booking is already paid"}
}

func NewNotFoundError() *Error {
	return &Error{Kind: KindNotFound, Message: "booking not found"}
}

func NewTransientError(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Message: msg, Err: err}
}

// KindOf extracts the error kind, or KindTransient for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// IsKind reports whether err carries the given booking error kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
