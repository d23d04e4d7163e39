package models

import "time"

// LevelUpNotification is the data record emitted on a level-up. Delivery
// (email, push) belongs to an external collaborator; the engine only writes
// the row and fans it out on the events socket.
type LevelUpNotification struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	OldLevelID *uint `json:"old_level_id"`
	NewLevelID uint  `gorm:"not null" json:"new_level_id"`

	OldLevel *Level `gorm:"foreignKey:OldLevelID" json:"old_level,omitempty"`
	NewLevel *Level `gorm:"foreignKey:NewLevelID" json:"new_level,omitempty"`

	Seen      bool      `gorm:"not null;default:false;index" json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

func (LevelUpNotification) TableName() string {
	return "level_up_notifications"
}
