package models

import "time"

// RewardProgram holds the earning economics for the receipt boundary:
// how receipts convert to points and how many receipts count per day.
// Configuration data, not engine logic.
type RewardProgram struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:255" json:"description"`

	PointsPerDollar  int `gorm:"not null;default:10" json:"points_per_dollar"`
	PointsPerReceipt int `gorm:"not null;default:5" json:"points_per_receipt"`

	DailyReceiptLimit   int `gorm:"not null;default:20" json:"daily_receipt_limit"`
	MonthlyReceiptLimit int `gorm:"not null;default:500" json:"monthly_receipt_limit"`

	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	StartDate *time.Time `gorm:"type:date" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RewardProgram) TableName() string {
	return "reward_programs"
}
