package store

import (
	"errors"

	"github.com/momagdy121/ecommerce-api/models"
	"gorm.io/gorm"
)

type PaymentStore struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(payment *models.Payment) error {
	return s.db.Create(payment).Error
}

func (s *PaymentStore) UpdateStatus(id uint, status models.PaymentState) error {
	return s.db.Model(&models.Payment{}).Where("id = ?", id).Update("status", status).Error
}

// FindByOrderID returns nil when the order has no payment record.
func (s *PaymentStore) FindByOrderID(orderID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.First(&payment, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}
