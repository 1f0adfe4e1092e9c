package store

import (
	"errors"

	"github.com/momagdy121/ecommerce-api/models"
	"gorm.io/gorm"
)

type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// GetCart returns the user's cart with items, or nil when none exists yet.
func (s *CartStore) GetCart(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateCart lazily creates the user's cart on first access.
func (s *CartStore) GetOrCreateCart(userID string) (*models.Cart, error) {
	cart, err := s.GetCart(userID)
	if err != nil || cart != nil {
		return cart, err
	}
	cart = &models.Cart{UserID: userID}
	if err := s.db.Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties the cart's items but keeps the cart row itself.
func (s *CartStore) ClearCart(userID string) error {
	cart, err := s.GetCart(userID)
	if err != nil || cart == nil {
		return err
	}
	return s.db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
}
