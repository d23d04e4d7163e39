package models

import "time"

// Reward is a redeemable item from the catalog. StockQuantity of -1 means
// unlimited; LimitPerUser of 0 means no per-user limit.
type Reward struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Slug        string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:500" json:"description"`

	RewardType string `gorm:"size:20;not null;index:idx_reward_type_active" json:"reward_type"`
	Category   string `gorm:"size:50" json:"category"`
	Icon       string `gorm:"size:50;default:'gift'" json:"icon"`

	PointsCost int      `gorm:"not null;index" json:"points_cost"`
	CashValue  *float64 `gorm:"type:decimal(10,2)" json:"cash_value,omitempty"`

	StockQuantity int `gorm:"not null;default:-1" json:"stock_quantity"`
	LimitPerUser  int `gorm:"not null;default:0" json:"limit_per_user"`

	RequiredLevelID *uint  `json:"required_level_id"`
	RequiredLevel   *Level `gorm:"foreignKey:RequiredLevelID" json:"required_level,omitempty"`

	PartnerName string `gorm:"size:100" json:"partner_name"`

	IsActive       bool       `gorm:"not null;default:true;index:idx_reward_type_active" json:"is_active"`
	IsFeatured     bool       `gorm:"not null;default:false" json:"is_featured"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`

	TimesRedeemed int `gorm:"not null;default:0" json:"times_redeemed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reward) TableName() string {
	return "rewards"
}

// IsAvailable reports whether the reward can be offered at all: active,
// inside its availability window, and not out of stock.
func (r *Reward) IsAvailable(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.AvailableFrom != nil && now.Before(*r.AvailableFrom) {
		return false
	}
	if r.AvailableUntil != nil && now.After(*r.AvailableUntil) {
		return false
	}
	if r.StockQuantity == 0 {
		return false
	}
	return true
}

// HasFiniteStock reports whether stock accounting applies (-1 = unlimited).
func (r *Reward) HasFiniteStock() bool {
	return r.StockQuantity >= 0
}

// RewardRedemption drives the fulfillment state machine. Created in
// "pending" with points already debited and stock already decremented.
type RewardRedemption struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	RedemptionID string `gorm:"size:36;uniqueIndex;not null" json:"redemption_id"`
	UserID       uint   `gorm:"not null;index:idx_redemption_user_created" json:"user_id"`
	RewardID     uint   `gorm:"not null;index" json:"reward_id"`

	Reward *Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`

	PointsSpent int    `gorm:"not null" json:"points_spent"`
	Status      string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// Set for gift-card style rewards.
	RedemptionCode *string `gorm:"size:100;uniqueIndex" json:"redemption_code,omitempty"`

	Notes string `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt   time.Time  `gorm:"index:idx_redemption_user_created" json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

func (RewardRedemption) TableName() string {
	return "reward_redemptions"
}
