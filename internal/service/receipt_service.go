package service

import (
	"fmt"
	"time"

	"inovocb/internal/domain"
	"inovocb/internal/models"
	"inovocb/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReceiptService is the earning boundary for the receipt collaborator: it
// converts an approved receipt into a point credit, keeps the daily counters
// honest and feeds receipt-driven challenges.
type ReceiptService struct {
	db         *gorm.DB
	accounts   *repository.AccountRepository
	programs   *repository.ProgramRepository
	ledger     *LedgerService
	levelSvc   *LevelService
	challenges *ChallengeService
	pointsTTL  time.Duration
	retries    int
}

func NewReceiptService(
	db *gorm.DB,
	accounts *repository.AccountRepository,
	programs *repository.ProgramRepository,
	ledger *LedgerService,
	levelSvc *LevelService,
	challenges *ChallengeService,
	pointsTTL time.Duration,
	retries int,
) *ReceiptService {
	return &ReceiptService{
		db:         db,
		accounts:   accounts,
		programs:   programs,
		ledger:     ledger,
		levelSvc:   levelSvc,
		challenges: challenges,
		pointsTTL:  pointsTTL,
		retries:    retries,
	}
}

// ReceiptCredit is the outcome of crediting one receipt.
type ReceiptCredit struct {
	Transaction *models.PointTransaction `json:"transaction"`
	Points      int                      `json:"points"`
	StreakDays  int                      `json:"streak_days"`
}

// CreditForReceipt awards points for an approved receipt: amount dollars at
// the program rate plus a flat per-receipt bonus, with the level multiplier
// applied by the ledger. The receipt id keys the source tag, so a replayed
// receipt is visible in the ledger even though dedup belongs to the caller.
//
// Rollover, streak touch, the daily cap check, the receipts_today increment
// and the credit all run in one transaction under the account row lock, so
// two concurrent receipts cannot both slip past the cap and a crash leaves
// no credited-but-uncounted receipt.
func (s *ReceiptService) CreditForReceipt(userID uint, amount float64, receiptID string) (*ReceiptCredit, error) {
	if amount < 0 || receiptID == "" {
		return nil, domain.ErrInvalidAmount
	}
	now := time.Now()
	program, err := s.programs.Active(now)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetOrCreate(userID); err != nil {
		return nil, err
	}

	var t *models.PointTransaction
	var up *LevelUp
	var streak int
	err = runWithRetry(s.retries, func() error {
		t, up = nil, nil
		return s.db.Transaction(func(tx *gorm.DB) error {
			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			applyRollover(a, now)
			applyStreak(a, now)
			if a.ReceiptsToday >= program.DailyReceiptLimit {
				return fmt.Errorf("%w: daily receipt limit reached", domain.ErrNotEligible)
			}
			a.ReceiptsToday++
			if err := s.accounts.UpdateCounters(tx, a); err != nil {
				return err
			}
			streak = a.StreakDays

			points := int(amount*float64(program.PointsPerDollar)) + program.PointsPerReceipt
			expiresAt := now.Add(s.pointsTTL)
			source := fmt.Sprintf("%s_%s", domain.SourceReceipt, receiptID)
			t, up, err = s.ledger.CreditLocked(tx, a, points, domain.TxTypeEarn, source, &expiresAt, true)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.levelSvc.announce(userID, up)

	if s.challenges != nil {
		s.challenges.AdvanceForEvent(userID, domain.TargetReceiptsCount, 1, false)
		if amount >= 1 {
			s.challenges.AdvanceForEvent(userID, domain.TargetReceiptsAmount, int(amount), false)
		}
		s.challenges.AdvanceForEvent(userID, domain.TargetStreakDays, streak, true)
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"receipt_id": receiptID,
		"points":     t.Amount,
		"streak":     streak,
	}).Info("[receipt] credited")
	return &ReceiptCredit{Transaction: t, Points: t.Amount, StreakDays: streak}, nil
}
