package models

import "time"

// SpinWheel owns an ordered list of prizes. PointsCost 0 means a spin
// consumes one spin credit instead of points.
type SpinWheel struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	IsActive   bool   `gorm:"not null;default:true" json:"is_active"`
	PointsCost int    `gorm:"not null;default:0" json:"points_cost"`

	Prizes []SpinPrize `gorm:"foreignKey:WheelID" json:"prizes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SpinWheel) TableName() string {
	return "spin_wheels"
}

// SpinPrize is one band of a wheel. Probability is a percentage (0-100);
// DailyLimit/TotalLimit of 0 mean unlimited. TimesWonToday/TimesWonTotal are
// live counters; a prize whose limit is exhausted drops out of the draw set.
type SpinPrize struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	WheelID uint   `gorm:"not null;index" json:"wheel_id"`
	Name    string `gorm:"size:100;not null" json:"name"`

	PrizeType  string  `gorm:"size:20;not null" json:"prize_type"`
	PrizeValue float64 `gorm:"type:decimal(10,2);not null" json:"prize_value"`

	Probability float64 `gorm:"type:decimal(5,2);not null" json:"probability"`

	Color string `gorm:"size:7;default:'#FFD700'" json:"color"`
	Icon  string `gorm:"size:50;default:'star'" json:"icon"`

	DailyLimit    int `gorm:"not null;default:0" json:"daily_limit"`
	TotalLimit    int `gorm:"not null;default:0" json:"total_limit"`
	TimesWonToday int `gorm:"not null;default:0" json:"times_won_today"`
	TimesWonTotal int `gorm:"not null;default:0" json:"times_won_total"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
	Order    int  `gorm:"column:sort_order;not null;default:0" json:"order"`
}

func (SpinPrize) TableName() string {
	return "spin_prizes"
}

// SpinHistory is the immutable audit log of spins, including "nothing"
// outcomes.
type SpinHistory struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	UserID  uint  `gorm:"not null;index:idx_spin_user_spun" json:"user_id"`
	WheelID uint  `gorm:"not null;index" json:"wheel_id"`
	PrizeID *uint `gorm:"index" json:"prize_id"`

	Prize *SpinPrize `gorm:"foreignKey:PrizeID" json:"prize,omitempty"`

	PointsSpent int     `gorm:"not null;default:0" json:"points_spent"`
	PrizeValue  float64 `gorm:"type:decimal(10,2);not null;default:0" json:"prize_value"`

	SpunAt time.Time `gorm:"autoCreateTime;index:idx_spin_user_spun" json:"spun_at"`
}

func (SpinHistory) TableName() string {
	return "spin_history"
}
