package services

import (
	"time"

	"github.com/momagdy121/ecommerce-api/models"
)

// The checkout core talks to the rest of the backend through these narrow
// interfaces. Production implementations live in the store package; tests
// substitute in-memory fakes.

type CatalogStore interface {
	GetProduct(id uint) (*models.Product, error)
	// DecrementStock atomically applies "stock = stock - qty where stock >= qty".
	// Returns false when stock was insufficient; no partial write happens.
	DecrementStock(id uint, qty int) (bool, error)
	IncrementStock(id uint, qty int) error
}

type CartStore interface {
	// GetCart returns nil (no error) when the user has no cart yet.
	GetCart(userID string) (*models.Cart, error)
	ClearCart(userID string) error
}

type CouponStore interface {
	// FindActiveByCode returns nil (no error) when no active coupon matches
	// the code within its validity window. Lookup is by uppercase code.
	FindActiveByCode(code string, now time.Time) (*models.Coupon, error)
	// IncrementUsage atomically applies "used_count = used_count + 1 where
	// used_count < usage_limit" (or unconditionally when no limit is set).
	// Returns false when the limit was already reached.
	IncrementUsage(code string) (bool, error)
	// DecrementUsage undoes a usage increment. Only the checkout saga calls
	// this, and only while compensating a never-completed order.
	DecrementUsage(code string) error
}

type OrderStore interface {
	Create(order *models.Order) error
	FindByID(id uint) (*models.Order, error)
	Update(id uint, fields map[string]interface{}) error
}

type PaymentStore interface {
	Create(payment *models.Payment) error
	UpdateStatus(id uint, status models.PaymentState) error
}

// Notifier delivers user-facing notifications. Calls are best-effort:
// the checkout outcome never depends on the returned error.
type Notifier interface {
	Notify(userID, typ, title, message, data string) error
}
