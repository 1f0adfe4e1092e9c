package couponControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momagdy121/ecommerce-api/models"
	"github.com/momagdy121/ecommerce-api/services"
	"github.com/momagdy121/ecommerce-api/store"
	"gorm.io/gorm"
)

type CreateCouponRequest struct {
	Code              string    `json:"code" binding:"required"`
	DiscountType      string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue     float64   `json:"discount_value" binding:"required,gt=0"`
	MinPurchaseAmount float64   `json:"min_purchase_amount" binding:"gte=0"`
	MaxDiscountAmount float64   `json:"max_discount_amount" binding:"gte=0"`
	ValidFrom         time.Time `json:"valid_from" binding:"required"`
	ValidUntil        time.Time `json:"valid_until" binding:"required"`
	UsageLimit        int       `json:"usage_limit" binding:"gte=0"`
}

type ValidateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}

// CreateCoupon registers a new coupon (admin). Codes are stored uppercase so
// lookups stay case-insensitive.
// POST /admin/coupons
func CreateCoupon(coupons *store.CouponStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !req.ValidUntil.After(req.ValidFrom) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid_until must be after valid_from"})
			return
		}

		coupon := models.Coupon{
			Code:              services.NormalizeCouponCode(req.Code),
			DiscountType:      models.DiscountType(req.DiscountType),
			DiscountValue:     req.DiscountValue,
			MinPurchaseAmount: req.MinPurchaseAmount,
			MaxDiscountAmount: req.MaxDiscountAmount,
			ValidFrom:         req.ValidFrom,
			ValidUntil:        req.ValidUntil,
			UsageLimit:        req.UsageLimit,
			IsActive:          true,
		}
		if err := coupons.Create(&coupon); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon"})
			return
		}
		c.JSON(http.StatusCreated, coupon)
	}
}

// ListCoupons returns all coupons (admin).
// GET /admin/coupons
func ListCoupons(coupons *store.CouponStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := coupons.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list coupons"})
			return
		}
		c.JSON(http.StatusOK, all)
	}
}

// DeactivateCoupon turns a coupon off without deleting its redemption history.
// PUT /admin/coupons/:id/deactivate
func DeactivateCoupon(coupons *store.CouponStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
			return
		}
		if err := coupons.Deactivate(uint(id)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate coupon"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated"})
	}
}

// ValidateCoupon dry-runs a coupon against a subtotal without redeeming it.
// POST /coupons/validate
func ValidateCoupon(couponSvc *services.CouponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		discount, err := couponSvc.Evaluate(req.Code, req.Subtotal, time.Now())
		if err != nil {
			if services.IsBusinessError(err) {
				c.JSON(http.StatusOK, gin.H{"valid": false, "reason": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid":    true,
			"discount": discount,
			"total":    req.Subtotal - discount,
		})
	}
}
