package repository

import (
	"errors"
	"time"

	"inovocb/internal/domain"
	"inovocb/internal/models"

	"gorm.io/gorm"
)

type ProgramRepository struct {
	db *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Active returns the reward program in force at the given time.
func (r *ProgramRepository) Active(now time.Time) (*models.RewardProgram, error) {
	var p models.RewardProgram
	today := now.Format("2006-01-02")
	err := r.db.Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", today).
		Where("end_date IS NULL OR end_date >= ?", today).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
