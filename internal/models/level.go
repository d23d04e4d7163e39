package models

import "time"

// Level is immutable configuration: a loyalty tier unlocked by lifetime
// points. Levels are ordered by Level (unique); PointsRequired grows with it.
type Level struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Level int    `gorm:"uniqueIndex;not null" json:"level"`
	Name  string `gorm:"size:50;not null" json:"name"`
	Icon  string `gorm:"size:50;default:'star'" json:"icon"`
	Color string `gorm:"size:7;default:'#FFD700'" json:"color"`

	// Thresholds
	PointsRequired   int `gorm:"not null;index" json:"points_required"`
	ReceiptsRequired int `gorm:"not null;default:0" json:"receipts_required"`

	// Perks
	CashbackBonus    float64 `gorm:"type:decimal(5,2);not null;default:0" json:"cashback_bonus"`
	PointsMultiplier float64 `gorm:"type:decimal(3,1);not null;default:1.0" json:"points_multiplier"`
	DailyBonusSpins  int     `gorm:"not null;default:0" json:"daily_bonus_spins"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Level) TableName() string {
	return "levels"
}
