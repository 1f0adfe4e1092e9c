package models

import "time"

type PaymentMethod string
type PaymentState string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCOD    PaymentMethod = "cod" // cash on delivery
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodStripe PaymentMethod = "stripe"

	// Lifecycle of the payment record itself (independent of the gateway)
	PaymentStatePending    PaymentState = "pending"
	PaymentStateProcessing PaymentState = "processing"
	PaymentStateCompleted  PaymentState = "completed"
	PaymentStateFailed     PaymentState = "failed"
	PaymentStateRefunded   PaymentState = "refunded"
	PaymentStateCancelled  PaymentState = "cancelled"
)

// ValidPaymentMethod maps a raw string onto a known method. Empty input
// defaults to cash on delivery.
func ValidPaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(raw) {
	case PaymentMethodCard, PaymentMethodCOD, PaymentMethodPayPal, PaymentMethodStripe:
		return PaymentMethod(raw), true
	case "":
		return PaymentMethodCOD, true
	}
	return "", false
}

// Payment tracks the payment lifecycle for exactly one order.
type Payment struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderID       uint          `gorm:"uniqueIndex" json:"order_id"` // 1:1 with Order
	UserID        string        `gorm:"index" json:"user_id"`
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `gorm:"type:VARCHAR(20)" json:"method"`
	Status        PaymentState  `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	TransactionID string        `gorm:"uniqueIndex" json:"transaction_id"`
	GatewayRef    string        `json:"gateway_ref,omitempty"` // gateway-side id, set by callbacks
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
