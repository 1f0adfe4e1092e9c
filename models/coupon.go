package models

import (
	"time"

	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Code              string         `gorm:"uniqueIndex;not null" json:"code"` // stored uppercase
	DiscountType      DiscountType   `gorm:"type:VARCHAR(20)" json:"discount_type"`
	DiscountValue     float64        `json:"discount_value"`
	MinPurchaseAmount float64        `json:"min_purchase_amount"`
	MaxDiscountAmount float64        `json:"max_discount_amount"` // 0 means no cap; caps percentage discounts only
	ValidFrom         time.Time      `json:"valid_from"`
	ValidUntil        time.Time      `json:"valid_until"`
	UsageLimit        int            `json:"usage_limit"` // 0 means unlimited
	UsedCount         int            `json:"used_count"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// Exhausted reports whether the usage limit has been reached.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}
