package repository

import (
	"errors"
	"time"

	"inovocb/internal/domain"
	"inovocb/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) GetByID(tx *gorm.DB, id uint) (*models.Challenge, error) {
	var c models.Challenge
	err := tx.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ActiveAt returns challenges whose window contains now, optionally filtered
// by target type.
func (r *ChallengeRepository) ActiveAt(now time.Time, targetType string) ([]models.Challenge, error) {
	q := r.db.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now)
	if targetType != "" {
		q = q.Where("target_type = ?", targetType)
	}
	var cs []models.Challenge
	err := q.Order("start_date DESC").Find(&cs).Error
	return cs, err
}

// LockUserChallenge loads (and creates if missing) the per-user progress row
// under a row lock. Must run inside a transaction; the lock serializes
// advance/claim on the same (user, challenge).
func (r *ChallengeRepository) LockUserChallenge(tx *gorm.DB, userID, challengeID uint) (*models.UserChallenge, error) {
	var uc models.UserChallenge
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&uc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		uc = models.UserChallenge{UserID: userID, ChallengeID: challengeID}
		if err := tx.Create(&uc).Error; err != nil {
			return nil, err
		}
		return &uc, nil
	}
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

// UpdateProgress persists progress/completion on a locked row.
func (r *ChallengeRepository) UpdateProgress(tx *gorm.DB, uc *models.UserChallenge) error {
	return tx.Model(uc).Updates(map[string]interface{}{
		"progress":     uc.Progress,
		"completed":    uc.Completed,
		"completed_at": uc.CompletedAt,
	}).Error
}

// MarkClaimed flips reward_claimed exactly once. The predicate makes the
// claim idempotent even without the row lock: a second claim matches zero
// rows.
func (r *ChallengeRepository) MarkClaimed(tx *gorm.DB, id uint) (bool, error) {
	res := tx.Model(&models.UserChallenge{}).
		Where("id = ? AND completed = ? AND reward_claimed = ?", id, true, false).
		Update("reward_claimed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ChallengeRepository) ListForUser(userID uint) ([]models.UserChallenge, error) {
	var ucs []models.UserChallenge
	err := r.db.Preload("Challenge").Where("user_id = ?", userID).
		Order("started_at DESC").Find(&ucs).Error
	return ucs, err
}
