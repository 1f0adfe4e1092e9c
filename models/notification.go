package models

import "time"

const (
	NotificationOrderPlaced  = "order_placed"
	NotificationOrderUpdated = "order_status_updated"
	NotificationOrderCancel  = "order_cancelled"
)

// Notification is the persisted half of the notifier; delivery to email/SMS
// is best-effort and happens outside the checkout transaction.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Data      string    `json:"data,omitempty"` // JSON payload, e.g. {"order_id":42}
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
