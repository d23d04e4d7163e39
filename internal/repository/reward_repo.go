package repository

import (
	"errors"
	"time"

	"inovocb/internal/domain"
	"inovocb/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

func (r *RewardRepository) Catalog(now time.Time) ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.Preload("RequiredLevel").
		Where("is_active = ?", true).
		Where("available_from IS NULL OR available_from <= ?", now).
		Where("available_until IS NULL OR available_until >= ?", now).
		Order("points_cost ASC, name ASC").
		Find(&rewards).Error
	return rewards, err
}

// LockByID loads a reward under a row lock to serialize stock movements.
// Must run inside a transaction.
func (r *RewardRepository) LockByID(tx *gorm.DB, id uint) (*models.Reward, error) {
	var rw models.Reward
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rw, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

// DecrementStock consumes one stock unit. The predicate refuses to go below
// zero, so the returned flag is the oversell guard: false means the last
// unit went to a concurrent caller.
func (r *RewardRepository) DecrementStock(tx *gorm.DB, id uint) (bool, error) {
	res := tx.Model(&models.Reward{}).
		Where("id = ? AND stock_quantity > 0", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - 1"),
			"times_redeemed": gorm.Expr("times_redeemed + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementRedeemed bumps the redemption counter for unlimited-stock rewards.
func (r *RewardRepository) IncrementRedeemed(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Reward{}).Where("id = ?", id).
		Update("times_redeemed", gorm.Expr("times_redeemed + 1")).Error
}

// RestoreStock returns one unit after a cancellation of a finite-stock
// reward.
func (r *RewardRepository) RestoreStock(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Reward{}).
		Where("id = ? AND stock_quantity >= 0", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + 1")).Error
}

// CountUserRedemptions counts a user's redemptions of one reward in any
// state that still holds (or held) a unit: everything except cancelled and
// failed. Counting pending rows too keeps the per-user limit race-free.
func (r *RewardRepository) CountUserRedemptions(tx *gorm.DB, userID, rewardID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.RewardRedemption{}).
		Where("user_id = ? AND reward_id = ?", userID, rewardID).
		Where("status NOT IN ?", []string{domain.RedemptionCancelled, domain.RedemptionFailed}).
		Count(&n).Error
	return n, err
}

func (r *RewardRepository) CreateRedemption(tx *gorm.DB, red *models.RewardRedemption) error {
	return tx.Create(red).Error
}

// LockRedemption loads a redemption by its public id under a row lock.
func (r *RewardRepository) LockRedemption(tx *gorm.DB, redemptionID string) (*models.RewardRedemption, error) {
	var red models.RewardRedemption
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("redemption_id = ?", redemptionID).
		First(&red).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &red, nil
}

func (r *RewardRepository) GetByID(tx *gorm.DB, id uint) (*models.Reward, error) {
	var rw models.Reward
	err := tx.Preload("RequiredLevel").First(&rw, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

// UpdateRedemptionStatus persists a state-machine transition on a locked
// redemption row.
func (r *RewardRepository) UpdateRedemptionStatus(tx *gorm.DB, red *models.RewardRedemption) error {
	return tx.Model(red).Updates(map[string]interface{}{
		"status":       red.Status,
		"processed_at": red.ProcessedAt,
		"delivered_at": red.DeliveredAt,
		"notes":        red.Notes,
	}).Error
}

func (r *RewardRepository) ListRedemptions(userID uint, page, pageSize int) ([]models.RewardRedemption, int64, error) {
	var reds []models.RewardRedemption
	var total int64
	if err := r.db.Model(&models.RewardRedemption{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Reward").Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reds).Error
	return reds, total, err
}
