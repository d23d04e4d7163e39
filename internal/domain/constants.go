package domain

// Point transaction types
const (
	TxTypeEarn   = "earn"
	TxTypeSpend  = "spend"
	TxTypeBonus  = "bonus"
	TxTypeExpire = "expire"
	TxTypeAdjust = "adjust"
)

// Well-known transaction source prefixes. The full source tag carries the
// originating id, e.g. "receipt_42", "challenge_first-scan", "spin_7".
const (
	SourceReceipt    = "receipt"
	SourceChallenge  = "challenge"
	SourceSpin       = "spin"
	SourceRedemption = "redemption"
	SourceLevelUp    = "level_up"
	SourceAdmin      = "admin"
	SourceExpiry     = "expiry"
)

// Redemption lifecycle
const (
	RedemptionPending    = "pending"
	RedemptionProcessing = "processing"
	RedemptionCompleted  = "completed"
	RedemptionDelivered  = "delivered"
	RedemptionCancelled  = "cancelled"
	RedemptionFailed     = "failed"
)

// Reward types
const (
	RewardTypeCashback   = "cashback"
	RewardTypeGiftCard   = "gift_card"
	RewardTypeProduct    = "product"
	RewardTypeDonation   = "donation"
	RewardTypeSweepstake = "sweepstake"
	RewardTypeDiscount   = "discount"
)

// Spin prize types
const (
	PrizePoints     = "points"
	PrizeCashback   = "cashback"
	PrizeFreeSpin   = "spin"
	PrizeMultiplier = "multiplier"
	PrizeNothing    = "nothing"
)

// Challenge cadence
const (
	ChallengeDaily   = "daily"
	ChallengeWeekly  = "weekly"
	ChallengeMonthly = "monthly"
	ChallengeSpecial = "special"
)

// Challenge target types
const (
	TargetReceiptsCount  = "receipts_count"
	TargetReceiptsAmount = "receipts_amount"
	TargetCategoryCount  = "category_count"
	TargetMerchantCount  = "merchant_count"
	TargetStreakDays     = "streak_days"
)

// Notification kinds pushed over the events socket.
const (
	EventLevelUp            = "level_up"
	EventChallengeCompleted = "challenge_completed"
	EventRedemptionUpdated  = "redemption_updated"
	EventSpinResult         = "spin_result"
)

// Unlimited sentinel for reward stock (original used -1).
const StockUnlimited = -1
