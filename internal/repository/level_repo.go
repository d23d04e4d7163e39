package repository

import (
	"errors"

	"inovocb/internal/domain"
	"inovocb/internal/models"

	"gorm.io/gorm"
)

type LevelRepository struct {
	db *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

func (r *LevelRepository) All() ([]models.Level, error) {
	var levels []models.Level
	err := r.db.Order("level ASC").Find(&levels).Error
	return levels, err
}

func (r *LevelRepository) GetByID(id uint) (*models.Level, error) {
	var lvl models.Level
	err := r.db.First(&lvl, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lvl, nil
}

// HighestFor returns the highest level whose threshold is within the given
// lifetime points. Equal thresholds resolve to the higher level number.
// Returns nil when no level is reachable yet.
func (r *LevelRepository) HighestFor(tx *gorm.DB, lifetimePoints int) (*models.Level, error) {
	var lvl models.Level
	err := tx.Where("points_required <= ?", lifetimePoints).
		Order("points_required DESC").
		Order("level DESC").
		First(&lvl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lvl, nil
}
