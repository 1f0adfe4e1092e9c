package store

import (
	"github.com/momagdy121/ecommerce-api/models"
	"gorm.io/gorm"
)

// Notifier persists notifications and optionally fans them out through a
// broadcast hook (the websocket feed registers one). Both halves are
// best-effort from the caller's point of view.
type Notifier struct {
	db        *gorm.DB
	broadcast func(n models.Notification)
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// OnNotify registers a fan-out hook invoked after a notification is stored.
func (s *Notifier) OnNotify(fn func(n models.Notification)) {
	s.broadcast = fn
}

func (s *Notifier) Notify(userID, typ, title, message, data string) error {
	n := models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return err
	}
	if s.broadcast != nil {
		s.broadcast(n)
	}
	return nil
}

func (s *Notifier) ListByUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (s *Notifier) MarkRead(id uint, userID string) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
