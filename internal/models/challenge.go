package models

import "time"

// Challenge is a time-boxed goal with a numeric target and a reward on
// completion. Configuration data.
type Challenge struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:200;not null" json:"name"`
	Slug          string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Description   string `gorm:"size:500" json:"description"`
	ChallengeType string `gorm:"size:20;not null;index" json:"challenge_type"`

	TargetType  string `gorm:"size:50;not null" json:"target_type"`
	TargetValue int    `gorm:"not null" json:"target_value"`

	PointsReward   int     `gorm:"not null;default:0" json:"points_reward"`
	CashbackReward float64 `gorm:"type:decimal(8,2);not null;default:0" json:"cashback_reward"`
	BonusSpins     int     `gorm:"not null;default:0" json:"bonus_spins"`

	StartDate time.Time `gorm:"not null;index:idx_challenge_window" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index:idx_challenge_window" json:"end_date"`

	Icon  string `gorm:"size:50;default:'target'" json:"icon"`
	Color string `gorm:"size:7;default:'#10B981'" json:"color"`

	IsActive   bool `gorm:"not null;default:true;index" json:"is_active"`
	IsFeatured bool `gorm:"not null;default:false" json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// IsCurrent reports whether now falls inside the challenge window.
func (c *Challenge) IsCurrent(now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// UserChallenge tracks one user's progress toward one challenge.
// Unique per (user, challenge). Progress is monotonic.
type UserChallenge struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	ChallengeID uint `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`

	Challenge *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`

	Progress      int        `gorm:"not null;default:0" json:"progress"`
	Completed     bool       `gorm:"not null;default:false;index" json:"completed"`
	CompletedAt   *time.Time `json:"completed_at"`
	RewardClaimed bool       `gorm:"not null;default:false" json:"reward_claimed"`

	StartedAt time.Time `gorm:"autoCreateTime" json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserChallenge) TableName() string {
	return "user_challenges"
}
