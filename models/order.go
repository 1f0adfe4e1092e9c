package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Confirmed by seller
	OrderStatusProcessing OrderStatus = "processing" // Being packed
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before shipping

	// Payment statuses on the order
	PaymentStatusPending  PaymentStatus = "pending"  // Payment not completed yet
	PaymentStatusPaid     PaymentStatus = "paid"     // Payment completed successfully
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Money returned to customer
)

// Cancellable reports whether an order in this status may still be cancelled.
// Shipped and delivered orders are past the point of no return.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

type Order struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	OrderRef        string        `gorm:"uniqueIndex" json:"order_ref"`
	UserID          string        `gorm:"index;not null" json:"user_id"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice      float64       `json:"total_price"` // post-discount
	Discount        float64       `json:"discount"`
	CouponCode      string        `json:"coupon_code,omitempty"`
	OrderStatus     OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"order_status"`
	PaymentStatus   PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod   PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentID       uint          `json:"payment_id"`
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	TrackingNumber  string        `json:"tracking_number,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderItem is a snapshot of the product at order time. Later product edits
// must not alter historical orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}
