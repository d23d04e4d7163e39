package models

import (
	"time"
)

// PointTransaction is one row of the append-only ledger. Rows are immutable
// once written, with a single exception: ExpiredAt is stamped when the expiry
// sweep consumes the credit, so a credit is never expired twice.
//
// Invariant: for any account, the running sum of Amount over rows ordered by
// id equals the account's points_balance, and each row's BalanceAfter equals
// the running sum through that row.
type PointTransaction struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TransactionID string `gorm:"size:36;uniqueIndex;not null" json:"transaction_id"`
	AccountID     uint   `gorm:"not null;index:idx_tx_account_created" json:"account_id"`

	// Amount is signed: positive = credit, negative = debit.
	Amount       int    `gorm:"not null" json:"amount"`
	Type         string `gorm:"size:20;not null;index" json:"type"`
	Source       string `gorm:"size:64;not null" json:"source"`
	Description  string `gorm:"size:255" json:"description,omitempty"`
	BalanceAfter int    `gorm:"not null" json:"balance_after"`

	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	ExpiredAt *time.Time `json:"expired_at,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_tx_account_created" json:"created_at"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}
