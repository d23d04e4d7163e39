package service

import (
	"fmt"
	"strings"
	"time"

	"inovocb/internal/domain"
	"inovocb/internal/models"
	"inovocb/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// transitions is the redemption state machine. Cancelled, failed and
// delivered are terminal; cancel and fail both refund.
var transitions = map[string][]string{
	domain.RedemptionPending:    {domain.RedemptionProcessing, domain.RedemptionCancelled, domain.RedemptionFailed},
	domain.RedemptionProcessing: {domain.RedemptionCompleted, domain.RedemptionCancelled, domain.RedemptionFailed},
	domain.RedemptionCompleted:  {domain.RedemptionDelivered},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RedemptionService runs the catalog and the redeem/fulfill/refund flow.
// Redeem is a single transaction: balance check, debit, stock decrement and
// the pending row either all land or none do.
type RedemptionService struct {
	db       *gorm.DB
	accounts *repository.AccountRepository
	rewards  *repository.RewardRepository
	ledger   *LedgerService
	notifier Notifier
	retries  int
}

func NewRedemptionService(
	db *gorm.DB,
	accounts *repository.AccountRepository,
	rewards *repository.RewardRepository,
	ledger *LedgerService,
	notifier Notifier,
	retries int,
) *RedemptionService {
	return &RedemptionService{
		db:       db,
		accounts: accounts,
		rewards:  rewards,
		ledger:   ledger,
		notifier: notifier,
		retries:  retries,
	}
}

// Catalog returns the rewards currently offered.
func (s *RedemptionService) Catalog() ([]models.Reward, error) {
	return s.rewards.Catalog(time.Now())
}

// Redeem exchanges points for a reward. Checks run in cost order: the cheap
// availability and level gates first, the per-user limit, then the debit and
// the stock movement, all under row locks on the reward and the account.
func (s *RedemptionService) Redeem(userID, rewardID uint) (*models.RewardRedemption, error) {
	if _, err := s.accounts.GetOrCreate(userID); err != nil {
		return nil, err
	}
	var red *models.RewardRedemption
	err := runWithRetry(s.retries, func() error {
		red = nil
		return s.db.Transaction(func(tx *gorm.DB) error {
			rw, err := s.rewards.LockByID(tx, rewardID)
			if err != nil {
				return err
			}
			now := time.Now()
			if !rw.IsAvailable(now) {
				return fmt.Errorf("%w: reward is not available", domain.ErrNotEligible)
			}

			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			if rw.RequiredLevelID != nil {
				if a.CurrentLevel == nil || a.CurrentLevel.Level < requiredLevelNumber(tx, *rw.RequiredLevelID) {
					return fmt.Errorf("%w: level too low for reward", domain.ErrNotEligible)
				}
			}
			if rw.LimitPerUser > 0 {
				n, err := s.rewards.CountUserRedemptions(tx, userID, rewardID)
				if err != nil {
					return err
				}
				if n >= int64(rw.LimitPerUser) {
					return fmt.Errorf("%w: per-user redemption limit reached", domain.ErrNotEligible)
				}
			}

			redemptionID := uuid.NewString()
			source := fmt.Sprintf("%s_%s", domain.SourceRedemption, redemptionID)
			if _, err := s.ledger.DebitLocked(tx, a, rw.PointsCost, domain.TxTypeSpend, source); err != nil {
				return err
			}

			if rw.HasFiniteStock() {
				ok, err := s.rewards.DecrementStock(tx, rewardID)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: reward is out of stock", domain.ErrNotEligible)
				}
			} else {
				if err := s.rewards.IncrementRedeemed(tx, rewardID); err != nil {
					return err
				}
			}

			a.TotalRewardsClaimed++
			a.LastRewardAt = &now
			if err := s.accounts.UpdateRedemptionStats(tx, a); err != nil {
				return err
			}

			red = &models.RewardRedemption{
				RedemptionID: redemptionID,
				UserID:       userID,
				RewardID:     rewardID,
				PointsSpent:  rw.PointsCost,
				Status:       domain.RedemptionPending,
			}
			if rw.RewardType == domain.RewardTypeGiftCard {
				code := newRedemptionCode()
				red.RedemptionCode = &code
			}
			return s.rewards.CreateRedemption(tx, red)
		})
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"user_id":       userID,
		"reward_id":     rewardID,
		"redemption_id": red.RedemptionID,
		"points_spent":  red.PointsSpent,
	}).Info("[redemption] created")
	if s.notifier != nil {
		s.notifier.Notify(userID, domain.EventRedemptionUpdated, red)
	}
	return red, nil
}

// Cancel aborts a redemption that has not completed. Points come back as a
// bonus credit (no lifetime movement, no level re-evaluation) and finite
// stock is restored.
func (s *RedemptionService) Cancel(userID uint, redemptionID, reason string) (*models.RewardRedemption, error) {
	return s.transition(redemptionID, domain.RedemptionCancelled, reason, func(red *models.RewardRedemption) error {
		if red.UserID != userID {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Transition moves a redemption along the fulfillment path. Used by the
// operator surface; failed, like cancelled, refunds the points.
func (s *RedemptionService) Transition(redemptionID, to, notes string) (*models.RewardRedemption, error) {
	if _, known := map[string]bool{
		domain.RedemptionProcessing: true,
		domain.RedemptionCompleted:  true,
		domain.RedemptionDelivered:  true,
		domain.RedemptionCancelled:  true,
		domain.RedemptionFailed:     true,
	}[to]; !known {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrIllegalTransition, to)
	}
	return s.transition(redemptionID, to, notes, nil)
}

func (s *RedemptionService) transition(redemptionID, to, notes string, gate func(*models.RewardRedemption) error) (*models.RewardRedemption, error) {
	var red *models.RewardRedemption
	err := runWithRetry(s.retries, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			red, err = s.rewards.LockRedemption(tx, redemptionID)
			if err != nil {
				return err
			}
			if gate != nil {
				if err := gate(red); err != nil {
					return err
				}
			}
			if !canTransition(red.Status, to) {
				return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, red.Status, to)
			}

			refunds := to == domain.RedemptionCancelled || to == domain.RedemptionFailed
			if refunds {
				a, err := s.accounts.LockForUpdate(tx, red.UserID)
				if err != nil {
					return err
				}
				source := fmt.Sprintf("%s_%s", domain.SourceRedemption, red.RedemptionID)
				if _, _, err := s.ledger.CreditLocked(tx, a, red.PointsSpent, domain.TxTypeBonus, source, nil, false); err != nil {
					return err
				}
				rw, err := s.rewards.LockByID(tx, red.RewardID)
				if err != nil {
					return err
				}
				if rw.HasFiniteStock() {
					if err := s.rewards.RestoreStock(tx, red.RewardID); err != nil {
						return err
					}
				}
				if a.TotalRewardsClaimed > 0 {
					a.TotalRewardsClaimed--
					if err := s.accounts.UpdateRedemptionStats(tx, a); err != nil {
						return err
					}
				}
			}

			now := time.Now()
			red.Status = to
			if notes != "" {
				red.Notes = notes
			}
			switch to {
			case domain.RedemptionProcessing, domain.RedemptionCompleted:
				if red.ProcessedAt == nil {
					red.ProcessedAt = &now
				}
			case domain.RedemptionDelivered:
				red.DeliveredAt = &now
			}
			return s.rewards.UpdateRedemptionStatus(tx, red)
		})
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"redemption_id": red.RedemptionID,
		"status":        red.Status,
	}).Info("[redemption] transition")
	if s.notifier != nil {
		s.notifier.Notify(red.UserID, domain.EventRedemptionUpdated, red)
	}
	return red, nil
}

// History pages through a user's redemptions, newest first.
func (s *RedemptionService) History(userID uint, page, pageSize int) ([]models.RewardRedemption, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.rewards.ListRedemptions(userID, page, pageSize)
}

// requiredLevelNumber resolves a level id to its rank. A missing level row
// is config breakage; treating it as the top rank fails closed.
func requiredLevelNumber(tx *gorm.DB, levelID uint) int {
	var lvl models.Level
	if err := tx.First(&lvl, levelID).Error; err != nil {
		return int(^uint(0) >> 1)
	}
	return lvl.Level
}

func newRedemptionCode() string {
	return "RV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
