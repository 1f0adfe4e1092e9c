package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string  `gorm:"not null" json:"title"`
	Description   string  `json:"description"`
	Price         float64 `gorm:"not null" json:"price"`
	DiscountPrice float64 `json:"discount_price"` // 0 means no discount
	Image         string  `json:"image"`
	Stock         int     `json:"stock"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectivePrice is the price a buyer actually pays right now.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}
