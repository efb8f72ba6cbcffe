package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	bookingNumberPrefix = "BK"
	randomSuffixLength  = 4
	base36Alphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NumberGenerator produces short, sortable, human-legible booking numbers:
// prefix + base36 millisecond timestamp + random base36 suffix, e.g.
// "BKMDQ3F8A1X9ZC". Collisions are only improbable here; the unique index
// on booking_number is what actually guarantees uniqueness, and a collision
// surfaces as an ordinary insert failure.
type NumberGenerator struct {
	now func() time.Time
}

func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{now: time.Now}
}

// NewBaseNumber returns a fresh base booking number. Round-trip legs derive
// their numbers from one base via OutboundNumber/ReturnNumber.
func (g *NumberGenerator) NewBaseNumber() (string, error) {
	timestamp := strings.ToUpper(strconv.FormatInt(g.now().UnixMilli(), 36))

	suffix := make([]byte, randomSuffixLength)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36Alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		suffix[i] = base36Alphabet[n.Int64()]
	}

	return bookingNumberPrefix + timestamp + string(suffix), nil
}

// OutboundNumber returns the outbound leg's booking number for a base:
// the base itself for one-way bookings, base-A for round trips.
func OutboundNumber(base string, bookingType BookingType) string {
	if bookingType == TypeRoundTrip {
		return base + "-A"
	}
	return base
}

// ReturnNumber returns the return leg's booking number for a base.
func ReturnNumber(base string) string {
	return base + "-B"
}
