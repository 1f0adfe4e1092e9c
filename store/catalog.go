package store

import (
	"errors"

	"github.com/momagdy121/ecommerce-api/models"
	"gorm.io/gorm"
)

// CatalogStore reads products and owns the only two mutations checkout
// performs on them: the conditional stock decrement and its restore.
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// GetProduct returns nil when no product has the id.
func (s *CatalogStore) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// DecrementStock applies "stock = stock - qty WHERE stock >= qty" as one
// statement, so two concurrent checkouts can never both take the last unit.
func (s *CatalogStore) DecrementStock(id uint, qty int) (bool, error) {
	res := s.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *CatalogStore) IncrementStock(id uint, qty int) error {
	return s.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}
