package bookings

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/skip2/go-qrcode"
)

// boardingPass is the encrypted payload embedded in a ticket's QR
// code. Gate scanners holding the secret can decrypt and verify it.
type boardingPass struct {
	TicketNumber string    `json:"ticket_number"`
	BookingRef   string    `json:"booking_ref"`
	FlightNumber string    `json:"flight_number"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	SeatNumber   string    `json:"seat_number"`
	CabinClass   string    `json:"cabin_class"`
	Departure    time.Time `json:"departure"`
}

// QRGenerator renders boarding pass QR codes with the payload
// AES-encrypted under a shared secret.
type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// TicketQR returns the PNG bytes of the ticket's boarding pass code.
func (q *QRGenerator) TicketQR(booking *Booking, ticket *Ticket) ([]byte, error) {
	pass := boardingPass{
		TicketNumber: ticket.TicketNumber,
		BookingRef:   booking.BookingRef,
		FirstName:    ticket.FirstName,
		LastName:     ticket.LastName,
		SeatNumber:   ticket.SeatNumber,
		CabinClass:   ticket.CabinClass,
	}
	if booking.Flight != nil {
		pass.FlightNumber = booking.Flight.FlightNumber
		pass.Departure = booking.Flight.DepartureTime
	}

	data, err := json.Marshal(pass)
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, q.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// decryptAES is the scanner-side inverse of encryptAES. GCM rejects
// any payload whose ciphertext or nonce was altered.
func decryptAES(encoded string, key []byte) ([]byte, error) {
	sealed, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("boarding pass payload too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
