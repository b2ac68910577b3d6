package bookings

// Payment methods accepted at checkout.
const (
	PaymentCreditCard   = "CREDIT_CARD"
	PaymentDebitCard    = "DEBIT_CARD"
	PaymentPaypal       = "PAYPAL"
	PaymentBankTransfer = "BANK_TRANSFER"
)

func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCreditCard, PaymentDebitCard, PaymentPaypal, PaymentBankTransfer:
		return true
	}
	return false
}

// Booking statuses.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Payment statuses.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)
