package bookings

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skybook/internal/flights"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47}

func TestTicketQR_ProducesPNG(t *testing.T) {
	generator := NewQRGenerator("test-secret")

	booking := &Booking{
		BookingRef: "SKY-20260901-ABCDEF",
		Flight: &flights.Flight{
			FlightNumber:  "SK101",
			DepartureTime: time.Now().Add(24 * time.Hour),
		},
	}
	ticket := &Ticket{
		TicketNumber: "TKT-3F7A2C9E1B",
		FirstName:    "Asha",
		LastName:     "Patel",
		SeatNumber:   "2A",
		CabinClass:   "ECONOMY",
	}

	png, err := generator.TicketQR(booking, ticket)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestTicketQR_WithoutFlightPreload(t *testing.T) {
	generator := NewQRGenerator("test-secret")

	png, err := generator.TicketQR(
		&Booking{BookingRef: "SKY-20260901-ABCDEF"},
		&Ticket{TicketNumber: "TKT-AA00BB11CC", FirstName: "Daniel", LastName: "Kim", SeatNumber: "1B"},
	)

	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestBoardingPassPayload_RoundTripsAndRejectsTampering(t *testing.T) {
	generator := NewQRGenerator("test-secret")

	encoded, err := encryptAES([]byte(`{"ticket_number":"TKT-3F7A2C9E1B"}`), generator.secret)
	require.NoError(t, err)

	plain, err := decryptAES(encoded, generator.secret)
	require.NoError(t, err)
	assert.Contains(t, string(plain), "TKT-3F7A2C9E1B")

	// Flipping one ciphertext byte must fail authentication.
	raw, err := base64.URLEncoding.DecodeString(encoded)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	_, err = decryptAES(base64.URLEncoding.EncodeToString(raw), generator.secret)
	assert.Error(t, err)

	// A different secret cannot open the payload either.
	other := NewQRGenerator("other-secret")
	_, err = decryptAES(encoded, other.secret)
	assert.Error(t, err)
}

func TestNewQRGenerator_NormalizesSecretLength(t *testing.T) {
	// Any secret length works; it is hashed to a valid AES-256 key.
	short := NewQRGenerator("x")
	long := NewQRGenerator("a-much-longer-secret-than-thirty-two-bytes-would-allow")

	for _, generator := range []*QRGenerator{short, long} {
		png, err := generator.TicketQR(&Booking{}, &Ticket{})
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	}
}
