package services

import (
	"strings"
	"time"

	"github.com/momagdy121/ecommerce-api/models"
)

// FloorTotalAtZero gates whether fixed-amount discounts may push an order
// total below zero. The historical behavior does NOT floor, so a $50 coupon
// on a $30 cart yields a -$20 total. Left off until product decides otherwise.
const FloorTotalAtZero = false

// NormalizeCouponCode uppercases a code for case-insensitive matching.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// EvaluateCoupon computes the discount a coupon grants on a subtotal.
// It never mutates the coupon: usage accounting belongs to the checkout saga
// so that failed checkouts are not charged a redemption.
func EvaluateCoupon(coupon *models.Coupon, subtotal float64, now time.Time) (float64, error) {
	if coupon == nil || !coupon.IsActive ||
		now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return 0, ErrCouponNotFound
	}
	if coupon.Exhausted() {
		return 0, ErrCouponExhausted
	}
	if subtotal < coupon.MinPurchaseAmount {
		return 0, &MinPurchaseError{Min: coupon.MinPurchaseAmount}
	}

	switch coupon.DiscountType {
	case models.DiscountPercentage:
		discount := subtotal * coupon.DiscountValue / 100
		if coupon.MaxDiscountAmount > 0 && discount > coupon.MaxDiscountAmount {
			discount = coupon.MaxDiscountAmount
		}
		return discount, nil
	case models.DiscountFixed:
		// Not clamped to the subtotal; see FloorTotalAtZero.
		return coupon.DiscountValue, nil
	}
	return 0, ErrCouponNotFound
}

// CouponService resolves codes against the store and evaluates them.
type CouponService struct {
	coupons CouponStore
}

func NewCouponService(coupons CouponStore) *CouponService {
	return &CouponService{coupons: coupons}
}

// Evaluate looks a code up (case-insensitively) and returns the discount it
// grants on subtotal, or a typed error describing why it does not apply.
func (s *CouponService) Evaluate(code string, subtotal float64, now time.Time) (float64, error) {
	coupon, err := s.coupons.FindActiveByCode(NormalizeCouponCode(code), now)
	if err != nil {
		return 0, err
	}
	return EvaluateCoupon(coupon, subtotal, now)
}
