package store

import (
	"errors"

	"github.com/momagdy121/ecommerce-api/models"
	"gorm.io/gorm"
)

type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Create(order *models.Order) error {
	return s.db.Create(order).Error
}

// FindByID returns nil when the order does not exist.
func (s *OrderStore) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) Update(id uint, fields map[string]interface{}) error {
	return s.db.Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (s *OrderStore) FindByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (s *OrderStore) FindAll() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}
