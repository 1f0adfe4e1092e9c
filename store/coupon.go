package store

import (
	"errors"
	"time"

	"github.com/momagdy121/ecommerce-api/models"
	"gorm.io/gorm"
)

type CouponStore struct {
	db *gorm.DB
}

func NewCouponStore(db *gorm.DB) *CouponStore {
	return &CouponStore{db: db}
}

// FindActiveByCode looks up an active coupon whose validity window contains
// now. Codes are stored uppercase; callers normalize before lookup. Returns
// nil when nothing matches.
func (s *CouponStore) FindActiveByCode(code string, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.
		Where("code = ? AND is_active = ? AND valid_from <= ? AND valid_until >= ?",
			code, true, now, now).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// IncrementUsage bumps used_count in a single conditional statement so two
// concurrent redemptions cannot both slip past the usage limit.
func (s *CouponStore) IncrementUsage(code string) (bool, error) {
	res := s.db.Model(&models.Coupon{}).
		Where("code = ? AND (usage_limit = 0 OR used_count < usage_limit)", code).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DecrementUsage returns a redemption charged to a checkout that was rolled
// back before completing.
func (s *CouponStore) DecrementUsage(code string) error {
	return s.db.Model(&models.Coupon{}).
		Where("code = ? AND used_count > 0", code).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}

// Create stores a new coupon; the code is expected uppercase already.
func (s *CouponStore) Create(coupon *models.Coupon) error {
	return s.db.Create(coupon).Error
}

func (s *CouponStore) List() ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

func (s *CouponStore) Deactivate(id uint) error {
	res := s.db.Model(&models.Coupon{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
