package repository

import (
	"errors"

	"inovocb/internal/domain"
	"inovocb/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SpinRepository struct {
	db *gorm.DB
}

func NewSpinRepository(db *gorm.DB) *SpinRepository {
	return &SpinRepository{db: db}
}

func (r *SpinRepository) ListWheels() ([]models.SpinWheel, error) {
	var wheels []models.SpinWheel
	err := r.db.Preload("Prizes", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("sort_order ASC")
	}).Where("is_active = ?", true).Find(&wheels).Error
	return wheels, err
}

func (r *SpinRepository) GetWheel(tx *gorm.DB, id uint) (*models.SpinWheel, error) {
	var w models.SpinWheel
	err := tx.First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LockPrizes loads a wheel's active prizes under row locks so that the
// consumption counters (times_won_today/total) are read and bumped as one
// unit with the draw. Must run inside a transaction.
func (r *SpinRepository) LockPrizes(tx *gorm.DB, wheelID uint) ([]models.SpinPrize, error) {
	var prizes []models.SpinPrize
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("wheel_id = ? AND is_active = ?", wheelID, true).
		Order("sort_order ASC").
		Find(&prizes).Error
	return prizes, err
}

// IncrementWin bumps a locked prize's consumption counters.
func (r *SpinRepository) IncrementWin(tx *gorm.DB, prizeID uint) error {
	return tx.Model(&models.SpinPrize{}).Where("id = ?", prizeID).
		Updates(map[string]interface{}{
			"times_won_today": gorm.Expr("times_won_today + 1"),
			"times_won_total": gorm.Expr("times_won_total + 1"),
		}).Error
}

// RecordHistory appends the immutable spin audit row.
func (r *SpinRepository) RecordHistory(tx *gorm.DB, h *models.SpinHistory) error {
	return tx.Create(h).Error
}

func (r *SpinRepository) HistoryByUser(userID uint, page, pageSize int) ([]models.SpinHistory, int64, error) {
	var spins []models.SpinHistory
	var total int64
	if err := r.db.Model(&models.SpinHistory{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Prize").Where("user_id = ?", userID).
		Order("spun_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&spins).Error
	return spins, total, err
}

// ResetDailyCounters zeroes every prize's daily win counter. Runs once per
// day from the scheduler.
func (r *SpinRepository) ResetDailyCounters() error {
	return r.db.Model(&models.SpinPrize{}).Where("times_won_today > 0").
		Update("times_won_today", 0).Error
}
