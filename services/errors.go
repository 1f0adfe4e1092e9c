package services

import (
	"errors"
	"fmt"
)

// Business-rule failures surfaced by the checkout core. Controllers map
// these onto HTTP status codes; the services never write responses.
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCouponNotFound   = errors.New("coupon is invalid or expired")
	ErrCouponExhausted  = errors.New("coupon usage limit reached")
	ErrOrderNotFound    = errors.New("order not found")
	ErrAlreadyCancelled = errors.New("order is already cancelled")
	ErrNotCancellable   = errors.New("order can no longer be cancelled")
	ErrInvalidStatus    = errors.New("invalid order status")

	// ErrPartialCheckout marks a checkout that failed after the order record
	// was durably created. PartialCheckoutError wraps it so callers can match
	// with errors.Is.
	ErrPartialCheckout = errors.New("checkout failed after order creation")
)

// MinPurchaseError reports a subtotal below the coupon's minimum.
type MinPurchaseError struct {
	Min float64
}

func (e *MinPurchaseError) Error() string {
	return fmt.Sprintf("minimum purchase amount of %.2f not met", e.Min)
}

// ProductUnavailableError reports a missing or inactive product in the cart.
type ProductUnavailableError struct {
	Title string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %q is unavailable", e.Title)
}

// InsufficientStockError reports a cart quantity exceeding current stock.
type InsufficientStockError struct {
	Title     string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: only %d available", e.Title, e.Available)
}

// PartialCheckoutError is returned when a step after order creation fails.
// Compensation has been attempted but the state requires reconciliation.
type PartialCheckoutError struct {
	OrderID uint
	Step    string
	Err     error
}

func (e *PartialCheckoutError) Error() string {
	return fmt.Sprintf("checkout for order %d failed at step %q: %v", e.OrderID, e.Step, e.Err)
}

func (e *PartialCheckoutError) Unwrap() error { return e.Err }

func (e *PartialCheckoutError) Is(target error) bool { return target == ErrPartialCheckout }

// IsBusinessError reports whether err is an ordinary business-rule rejection
// (client's fault) rather than an infrastructure failure.
func IsBusinessError(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrCouponNotFound),
		errors.Is(err, ErrCouponExhausted),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrNotCancellable),
		errors.Is(err, ErrInvalidStatus):
		return true
	}
	var minErr *MinPurchaseError
	var unavailErr *ProductUnavailableError
	var stockErr *InsufficientStockError
	return errors.As(err, &minErr) || errors.As(err, &unavailErr) || errors.As(err, &stockErr)
}
