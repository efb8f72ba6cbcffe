package bookings

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewBaseNumberFormat(t *testing.T) {
	gen := NewNumberGenerator()

	number, err := gen.NewBaseNumber()
	if err != nil {
		t.Fatalf("NewBaseNumber returned error: %v", err)
	}

	if !strings.HasPrefix(number, bookingNumberPrefix) {
		t.Errorf("expected prefix %q, got %q", bookingNumberPrefix, number)
	}
	if number != strings.ToUpper(number) {
		t.Errorf("expected uppercase booking number, got %q", number)
	}
	for _, r := range number[len(bookingNumberPrefix):] {
		if !strings.ContainsRune(base36Alphabet, r) {
			t.Errorf("unexpected character %q in booking number %q", r, number)
		}
	}
}

func TestNewBaseNumberEncodesTimestamp(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	gen := &NumberGenerator{now: func() time.Time { return fixed }}

	number, err := gen.NewBaseNumber()
	if err != nil {
		t.Fatalf("NewBaseNumber returned error: %v", err)
	}

	wantTimestamp := strings.ToUpper(strconv.FormatInt(fixed.UnixMilli(), 36))
	body := strings.TrimPrefix(number, bookingNumberPrefix)
	if !strings.HasPrefix(body, wantTimestamp) {
		t.Errorf("expected timestamp %q at start of %q", wantTimestamp, body)
	}
	if len(body) != len(wantTimestamp)+randomSuffixLength {
		t.Errorf("expected %d random suffix characters, got body %q", randomSuffixLength, body)
	}
}

func TestLegNumbers(t *testing.T) {
	base := "BKMDQ3F8A1X9ZC"

	if got := OutboundNumber(base, TypeOneWay); got != base {
		t.Errorf("one-way outbound number = %q, want %q", got, base)
	}
	if got := OutboundNumber(base, TypeRoundTrip); got != base+"-A" {
		t.Errorf("round-trip outbound number = %q, want %q", got, base+"-A")
	}
	if got := ReturnNumber(base); got != base+"-B" {
		t.Errorf("return number = %q, want %q", got, base+"-B")
	}
}
