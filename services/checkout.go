package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momagdy121/ecommerce-api/models"
)

// CheckoutService converts carts into orders and owns the order lifecycle
// operations (cancel, admin status update). The multi-record checkout write
// sequence runs as a compensating saga: the backing store only guarantees
// per-record atomicity, so each step after order creation carries its own
// undo action.
type CheckoutService struct {
	catalog  CatalogStore
	carts    CartStore
	coupons  CouponStore
	orders   OrderStore
	payments PaymentStore
	notifier Notifier

	now func() time.Time
}

func NewCheckoutService(
	catalog CatalogStore,
	carts CartStore,
	coupons CouponStore,
	orders OrderStore,
	payments PaymentStore,
	notifier Notifier,
) *CheckoutService {
	return &CheckoutService{
		catalog:  catalog,
		carts:    carts,
		coupons:  coupons,
		orders:   orders,
		payments: payments,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateOrderInput is the validated request body for POST /orders.
type CreateOrderInput struct {
	UserID          string
	ShippingAddress models.Address
	PaymentMethod   models.PaymentMethod
	CouponCode      string // optional
	Notes           string
}

// CreateOrder turns the user's cart into an order plus payment record.
//
// Validation (cart load, per-item stock check, coupon evaluation) completes
// for the whole cart before anything is written, so a rejection here has zero
// side effects. The writes then run as a saga; a failure after the order
// record exists compensates completed steps and surfaces a
// PartialCheckoutError instead of silently succeeding.
func (s *CheckoutService) CreateOrder(in CreateOrderInput) (*models.Order, error) {
	now := s.now()

	cart, err := s.carts.GetCart(in.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Re-validate every line item against the live catalog. Cached cart
	// prices and stock counts are never trusted.
	var subtotal float64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		product, err := s.catalog.GetProduct(ci.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, &ProductUnavailableError{Title: productTitle(product, ci.ProductID)}
		}
		if product.Stock < ci.Quantity {
			return nil, &InsufficientStockError{Title: product.Title, Available: product.Stock}
		}
		unitPrice := product.EffectivePrice()
		subtotal += unitPrice * float64(ci.Quantity)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Image:     product.Image,
			UnitPrice: unitPrice,
			Quantity:  ci.Quantity,
		})
	}

	var discount float64
	couponCode := ""
	if in.CouponCode != "" {
		couponCode = NormalizeCouponCode(in.CouponCode)
		coupon, err := s.coupons.FindActiveByCode(couponCode, now)
		if err != nil {
			return nil, err
		}
		discount, err = EvaluateCoupon(coupon, subtotal, now)
		if err != nil {
			return nil, err
		}
	}

	totalPrice := subtotal - discount
	if FloorTotalAtZero && totalPrice < 0 {
		totalPrice = 0
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCOD
	}

	order := &models.Order{
		OrderRef:        generateOrderRef(),
		UserID:          in.UserID,
		Items:           items,
		TotalPrice:      totalPrice,
		Discount:        discount,
		CouponCode:      couponCode,
		OrderStatus:     models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   method,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
		CreatedAt:       now,
	}

	payment := &models.Payment{
		UserID:        in.UserID,
		Amount:        totalPrice,
		Method:        method,
		Status:        models.PaymentStatePending,
		TransactionID: uuid.NewString(),
	}
	if method != models.PaymentMethodCOD {
		payment.Status = models.PaymentStateProcessing
	}

	steps := []sagaStep{
		{
			name:    "create order",
			execute: func() error { return s.orders.Create(order) },
			compensate: func() error {
				return s.orders.Update(order.ID, map[string]interface{}{
					"order_status": models.OrderStatusCancelled,
				})
			},
		},
	}

	if couponCode != "" {
		code := couponCode
		steps = append(steps, sagaStep{
			name: "redeem coupon",
			execute: func() error {
				ok, err := s.coupons.IncrementUsage(code)
				if err != nil {
					return err
				}
				if !ok {
					return ErrCouponExhausted
				}
				return nil
			},
			// A rolled-back checkout never completed, so the redemption is
			// returned. Cancellation of a completed order does NOT do this.
			compensate: func() error { return s.coupons.DecrementUsage(code) },
		})
	}

	for _, it := range items {
		it := it
		steps = append(steps, sagaStep{
			name: fmt.Sprintf("reserve stock for product %d", it.ProductID),
			execute: func() error {
				ok, err := s.catalog.DecrementStock(it.ProductID, it.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					// Lost the race against a concurrent checkout.
					available := 0
					if p, err := s.catalog.GetProduct(it.ProductID); err == nil && p != nil {
						available = p.Stock
					}
					return &InsufficientStockError{Title: it.Title, Available: available}
				}
				return nil
			},
			compensate: func() error { return s.catalog.IncrementStock(it.ProductID, it.Quantity) },
		})
	}

	steps = append(steps,
		sagaStep{
			name:    "clear cart",
			execute: func() error { return s.carts.ClearCart(in.UserID) },
			// Cart contents are not restored on rollback; the order snapshot
			// keeps them available for manual reconciliation.
		},
		sagaStep{
			name: "create payment",
			execute: func() error {
				payment.OrderID = order.ID
				return s.payments.Create(payment)
			},
			compensate: func() error {
				return s.payments.UpdateStatus(payment.ID, models.PaymentStateCancelled)
			},
		},
		sagaStep{
			name: "link payment",
			execute: func() error {
				order.PaymentID = payment.ID
				return s.orders.Update(order.ID, map[string]interface{}{"payment_id": payment.ID})
			},
		},
	)

	if failedStep, err := runSaga(steps); err != nil {
		if order.ID == 0 {
			// The order record never existed; this is a clean failure.
			return nil, err
		}
		perr := &PartialCheckoutError{OrderID: order.ID, Step: failedStep, Err: err}
		log.Printf("⚠️ %v", perr)
		return nil, perr
	}

	s.notifyQuietly(in.UserID, models.NotificationOrderPlaced, "Order placed",
		fmt.Sprintf("Your order %s has been placed. Total: %.2f", order.OrderRef, order.TotalPrice),
		fmt.Sprintf(`{"order_id":%d}`, order.ID))

	return order, nil
}

// CancelOrder cancels a user's own order, restoring stock for every item and
// refunding the linked payment when it had been paid. The coupon usage
// counter is deliberately left alone: redeemed stays redeemed.
func (s *CheckoutService) CancelOrder(orderID uint, userID string) (*models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if order.OrderStatus == models.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !order.OrderStatus.Cancellable() {
		return nil, ErrNotCancellable
	}

	// Restoring stock is an unconditional increment: there is no floor to
	// violate, so this cannot fail on a business rule.
	for _, it := range order.Items {
		if err := s.catalog.IncrementStock(it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{"order_status": models.OrderStatusCancelled}
	paymentState := models.PaymentStateCancelled
	if order.PaymentStatus == models.PaymentStatusPaid {
		fields["payment_status"] = models.PaymentStatusRefunded
		order.PaymentStatus = models.PaymentStatusRefunded
		paymentState = models.PaymentStateRefunded
	}
	if err := s.orders.Update(order.ID, fields); err != nil {
		return nil, err
	}
	order.OrderStatus = models.OrderStatusCancelled

	if order.PaymentID != 0 {
		if err := s.payments.UpdateStatus(order.PaymentID, paymentState); err != nil {
			return nil, err
		}
	}

	s.notifyQuietly(userID, models.NotificationOrderCancel, "Order cancelled",
		fmt.Sprintf("Your order %s has been cancelled.", order.OrderRef),
		fmt.Sprintf(`{"order_id":%d}`, order.ID))

	return order, nil
}

// UpdateOrderStatus sets a new status and/or tracking number on an order.
// Any status may follow any other status, including moving backward: the
// admin UI relies on being able to correct mistakes, so no transition
// state machine is enforced here.
func (s *CheckoutService) UpdateOrderStatus(orderID uint, status, trackingNumber string) (*models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	fields := map[string]interface{}{}
	if status != "" {
		mapped, err := mapOrderStatus(status)
		if err != nil {
			return nil, err
		}
		fields["order_status"] = mapped
		order.OrderStatus = mapped
	}
	if trackingNumber != "" {
		fields["tracking_number"] = trackingNumber
		order.TrackingNumber = trackingNumber
	}
	if len(fields) == 0 {
		return order, nil
	}
	if err := s.orders.Update(order.ID, fields); err != nil {
		return nil, err
	}

	s.notifyQuietly(order.UserID, models.NotificationOrderUpdated, "Order updated",
		fmt.Sprintf("Your order %s is now %s.", order.OrderRef, order.OrderStatus),
		fmt.Sprintf(`{"order_id":%d}`, order.ID))

	return order, nil
}

// notifyQuietly delivers a notification without letting a delivery failure
// leak into the caller's outcome.
func (s *CheckoutService) notifyQuietly(userID, typ, title, message, data string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(userID, typ, title, message, data); err != nil {
		log.Printf("notification %s for user %s failed: %v", typ, userID, err)
	}
}

func mapOrderStatus(status string) (models.OrderStatus, error) {
	status = strings.ToLower(status)
	switch models.OrderStatus(status) {
	case models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled:
		return models.OrderStatus(status), nil
	}
	return "", ErrInvalidStatus
}

func productTitle(p *models.Product, id uint) string {
	if p != nil && p.Title != "" {
		return p.Title
	}
	return fmt.Sprintf("#%d", id)
}

// Example: 20250908130500-<uuid4>
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
