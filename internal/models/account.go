package models

import (
	"time"
)

// PointsAccount is the per-user loyalty record: derived balance, level,
// spin credits and the daily/streak counters. Mutated only through the
// ledger, level and counter services, never written directly by handlers.
type PointsAccount struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	// Points
	PointsBalance  int `gorm:"not null;default:0" json:"points_balance"`
	LifetimePoints int `gorm:"not null;default:0" json:"lifetime_points"`

	// Level
	CurrentLevelID *uint  `gorm:"index" json:"current_level_id"`
	CurrentLevel   *Level `gorm:"foreignKey:CurrentLevelID" json:"current_level,omitempty"`
	LevelProgress  int    `gorm:"not null;default:0" json:"level_progress"`

	// Spins
	SpinsAvailable int        `gorm:"not null;default:0" json:"spins_available"`
	LastDailySpin  *time.Time `gorm:"type:date" json:"last_daily_spin"`
	TotalSpinsUsed int        `gorm:"not null;default:0" json:"total_spins_used"`

	// Streak
	StreakDays       int        `gorm:"not null;default:0" json:"streak_days"`
	LongestStreak    int        `gorm:"not null;default:0" json:"longest_streak"`
	LastActivityDate *time.Time `gorm:"type:date" json:"last_activity_date"`

	// Daily counters
	ReceiptsToday     int        `gorm:"not null;default:0" json:"receipts_today"`
	PointsEarnedToday int        `gorm:"not null;default:0" json:"points_earned_today"`
	LastResetDate     *time.Time `gorm:"type:date" json:"last_reset_date"`

	// Stats
	TotalRewardsClaimed int        `gorm:"not null;default:0" json:"total_rewards_claimed"`
	LastRewardAt        *time.Time `json:"last_reward_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PointsAccount) TableName() string {
	return "points_accounts"
}
