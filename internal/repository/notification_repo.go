package repository

import (
	"inovocb/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(tx *gorm.DB, n *models.LevelUpNotification) error {
	return tx.Create(n).Error
}

func (r *NotificationRepository) ListForUser(userID uint, unseenOnly bool) ([]models.LevelUpNotification, error) {
	q := r.db.Preload("OldLevel").Preload("NewLevel").Where("user_id = ?", userID)
	if unseenOnly {
		q = q.Where("seen = ?", false)
	}
	var ns []models.LevelUpNotification
	err := q.Order("created_at DESC").Find(&ns).Error
	return ns, err
}

func (r *NotificationRepository) MarkSeen(userID, id uint) error {
	return r.db.Model(&models.LevelUpNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("seen", true).Error
}
