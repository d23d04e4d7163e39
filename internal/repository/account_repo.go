package repository

import (
	"errors"

	"inovocb/internal/domain"
	"inovocb/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByUserID(userID uint) (*models.PointsAccount, error) {
	var a models.PointsAccount
	err := r.db.Preload("CurrentLevel").Where("user_id = ?", userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetOrCreate(userID uint) (*models.PointsAccount, error) {
	a, err := r.GetByUserID(userID)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	a = &models.PointsAccount{UserID: userID}
	if err := r.db.Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// LockForUpdate loads the account row under a row lock. Must be called
// inside a transaction; the lock serializes all mutating operations on the
// same account until commit.
func (r *AccountRepository) LockForUpdate(tx *gorm.DB, userID uint) (*models.PointsAccount, error) {
	var a models.PointsAccount
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.CurrentLevelID != nil {
		// Level rows are immutable config; a plain read is safe here.
		var lvl models.Level
		if err := tx.First(&lvl, *a.CurrentLevelID).Error; err == nil {
			a.CurrentLevel = &lvl
		}
	}
	return &a, nil
}

// LockByID is LockForUpdate keyed by the account's primary id. Ledger rows
// reference accounts by this id; the expiry sweep resolves them here.
func (r *AccountRepository) LockByID(tx *gorm.DB, id uint) (*models.PointsAccount, error) {
	var a models.PointsAccount
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdatePoints persists the balance-related columns of an account that was
// loaded with LockForUpdate and mutated in place.
func (r *AccountRepository) UpdatePoints(tx *gorm.DB, a *models.PointsAccount) error {
	return tx.Model(a).Updates(map[string]interface{}{
		"points_balance":      a.PointsBalance,
		"lifetime_points":     a.LifetimePoints,
		"points_earned_today": a.PointsEarnedToday,
		"level_progress":      a.LevelProgress,
	}).Error
}

// UpdateLevel persists a level-up on a locked account.
func (r *AccountRepository) UpdateLevel(tx *gorm.DB, a *models.PointsAccount) error {
	return tx.Model(a).Updates(map[string]interface{}{
		"current_level_id": a.CurrentLevelID,
		"spins_available":  a.SpinsAvailable,
	}).Error
}

// UpdateSpins persists the spin-credit columns on a locked account.
func (r *AccountRepository) UpdateSpins(tx *gorm.DB, a *models.PointsAccount) error {
	return tx.Model(a).Updates(map[string]interface{}{
		"spins_available":  a.SpinsAvailable,
		"total_spins_used": a.TotalSpinsUsed,
	}).Error
}

// UpdateCounters persists the daily/streak columns on a locked account.
func (r *AccountRepository) UpdateCounters(tx *gorm.DB, a *models.PointsAccount) error {
	return tx.Model(a).Updates(map[string]interface{}{
		"receipts_today":      a.ReceiptsToday,
		"points_earned_today": a.PointsEarnedToday,
		"last_reset_date":     a.LastResetDate,
		"spins_available":     a.SpinsAvailable,
		"last_daily_spin":     a.LastDailySpin,
		"streak_days":         a.StreakDays,
		"longest_streak":      a.LongestStreak,
		"last_activity_date":  a.LastActivityDate,
	}).Error
}

// UpdateRedemptionStats persists the reward-claim statistics on a locked account.
func (r *AccountRepository) UpdateRedemptionStats(tx *gorm.DB, a *models.PointsAccount) error {
	return tx.Model(a).Updates(map[string]interface{}{
		"total_rewards_claimed": a.TotalRewardsClaimed,
		"last_reward_at":        a.LastRewardAt,
	}).Error
}

// IDsNeedingRollover returns user ids whose daily counters have not been
// reset for today. Used by the scheduled rollover.
func (r *AccountRepository) IDsNeedingRollover(today string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.PointsAccount{}).
		Where("last_reset_date IS NULL OR last_reset_date < ?", today).
		Pluck("user_id", &ids).Error
	return ids, err
}

// Leaderboard returns the top accounts by lifetime points.
func (r *AccountRepository) Leaderboard(limit int) ([]models.PointsAccount, error) {
	var accounts []models.PointsAccount
	err := r.db.Preload("CurrentLevel").
		Order("lifetime_points DESC").
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}
