package repository

import (
	"time"

	"inovocb/internal/models"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Append writes one immutable ledger row. Always called inside the same
// transaction that updated the account balance, so balance_after is exact.
func (r *LedgerRepository) Append(tx *gorm.DB, t *models.PointTransaction) error {
	return tx.Create(t).Error
}

func (r *LedgerRepository) ListByAccount(accountID uint, page, pageSize int) ([]models.PointTransaction, int64, error) {
	var txs []models.PointTransaction
	var total int64
	if err := r.db.Model(&models.PointTransaction{}).Where("account_id = ?", accountID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txs).Error
	return txs, total, err
}

// ExpiringBefore returns credits whose expiry has passed and that the sweep
// has not consumed yet.
func (r *LedgerRepository) ExpiringBefore(cutoff time.Time, limit int) ([]models.PointTransaction, error) {
	var txs []models.PointTransaction
	err := r.db.Where("expires_at IS NOT NULL AND expires_at <= ? AND expired_at IS NULL AND amount > 0", cutoff).
		Order("expires_at ASC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

// MarkExpired stamps a swept credit so it is never expired twice.
func (r *LedgerRepository) MarkExpired(tx *gorm.DB, id uint, when time.Time) error {
	return tx.Model(&models.PointTransaction{}).Where("id = ?", id).
		Update("expired_at", when).Error
}

// SumByAccount replays the ledger for an account. Used by the audit check:
// the result must equal the account's points_balance at all times.
func (r *LedgerRepository) SumByAccount(accountID uint) (int, error) {
	var sum *int
	err := r.db.Model(&models.PointTransaction{}).
		Where("account_id = ?", accountID).
		Select("SUM(amount)").
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}
